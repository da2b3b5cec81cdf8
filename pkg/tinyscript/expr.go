package tinyscript

import "strconv"

// Expression evaluation is a precedence cascade of mutually recursive
// functions that parse and evaluate in one pass; no AST survives the call.
// Each level evaluates its lower level first and only coerces when its own
// operator actually appears, so a lone string literal flows through the
// whole cascade untouched.
//
//	expr     ::= andExpr [OR andExpr]*
//	andExpr  ::= notExpr [AND notExpr]*
//	notExpr  ::= [NOT] compExpr
//	compExpr ::= catExpr [('='|'<'|'>'|'~') catExpr]
//	catExpr  ::= addExpr ['&' addExpr]*
//	addExpr  ::= mulExpr [('+'|'-') mulExpr]*
//	mulExpr  ::= unary [('*'|'/'|'%') unary]*
//	unary    ::= ['-'|'+'] atom
//	atom     ::= '(' expr ')' | ident | ident '[' expr ']'
//	           | ident '(' args ')' | number | string

func (ip *Interp) expr() Value {
	v := ip.andExpr()
	for ip.next() == tokOr {
		v = IntVal(v.Int() | ip.andExpr().Int())
	}
	ip.pushBack()
	return v
}

func (ip *Interp) andExpr() Value {
	v := ip.notExpr()
	for ip.next() == tokAnd {
		v = IntVal(v.Int() & ip.notExpr().Int())
	}
	ip.pushBack()
	return v
}

func (ip *Interp) notExpr() Value {
	if ip.next() == tokNot {
		if ip.compExpr().Int() == 0 {
			return IntVal(1)
		}
		return IntVal(0)
	}
	ip.pushBack()
	return ip.compExpr()
}

// compExpr evaluates at most one comparison. If either operand is a string
// both sides compare as strings, otherwise as integers. '~' is not-equal.
func (ip *Interp) compExpr() Value {
	v := ip.catExpr()
	t := ip.next()
	if t != tokKind('=') && t != tokKind('<') && t != tokKind('>') && t != tokKind('~') {
		ip.pushBack()
		return v
	}
	rhs := ip.catExpr()

	var c int
	if !v.IsNum || !rhs.IsNum {
		l, r := v.String(), rhs.String()
		switch {
		case l < r:
			c = -1
		case l > r:
			c = 1
		}
	} else {
		switch {
		case v.Num < rhs.Num:
			c = -1
		case v.Num > rhs.Num:
			c = 1
		}
	}

	hold := false
	switch t {
	case tokKind('='):
		hold = c == 0
	case tokKind('<'):
		hold = c < 0
	case tokKind('>'):
		hold = c > 0
	case tokKind('~'):
		hold = c != 0
	}
	if hold {
		return IntVal(1)
	}
	return IntVal(0)
}

func (ip *Interp) catExpr() Value {
	v := ip.addExpr()
	for ip.next() == tokKind('&') {
		v = StrVal(v.String() + ip.addExpr().String())
	}
	ip.pushBack()
	return v
}

func (ip *Interp) addExpr() Value {
	v := ip.mulExpr()
	for {
		t := ip.next()
		if t == tokKind('+') {
			v = IntVal(v.Int() + ip.mulExpr().Int())
		} else if t == tokKind('-') {
			v = IntVal(v.Int() - ip.mulExpr().Int())
		} else {
			break
		}
	}
	ip.pushBack()
	return v
}

func (ip *Interp) mulExpr() Value {
	v := ip.unary()
	for {
		t := ip.next()
		switch t {
		case tokKind('*'):
			v = IntVal(v.Int() * ip.unary().Int())
		case tokKind('/'):
			r := ip.unary().Int()
			if r == 0 {
				ip.Throw("divide by zero")
			}
			v = IntVal(v.Int() / r)
		case tokKind('%'):
			r := ip.unary().Int()
			if r == 0 {
				ip.Throw("divide by zero")
			}
			v = IntVal(v.Int() % r)
		default:
			ip.pushBack()
			return v
		}
	}
}

func (ip *Interp) unary() Value {
	t := ip.next()
	if t == tokKind('-') {
		return IntVal(-ip.atom().Int())
	}
	if t != tokKind('+') {
		ip.pushBack()
	}
	return ip.atom()
}

func (ip *Interp) atom() Value {
	switch t := ip.next(); t {
	case tokKind('('):
		v := ip.expr()
		if ip.next() != tokKind(')') {
			ip.Throw("missing ')'")
		}
		return v

	case tokIdent, tokStrIdent:
		name := ip.tok
		switch ip.next() {
		case tokKind('('):
			return ip.callFunc(name)
		case tokKind('['):
			name = ip.indexedName(name)
		default:
			ip.pushBack()
		}
		v, ok := ip.vars.find(name)
		if !ok {
			// Untaken branches still parse variable reads, but an
			// undefined name yields a zero instead of an error there.
			if !ip.active {
				return IntVal(0)
			}
			ip.Throw("read from undefined variable '%s'", name)
		}
		return v

	case tokNumber:
		n, err := strconv.Atoi(ip.tok)
		if err != nil {
			ip.Throw("bad number '%s'", ip.tok)
		}
		return IntVal(n)

	case tokQuote:
		return StrVal(ip.tok)
	}
	ip.Throw("value expected")
	return Value{}
}

// indexedName resolves base[index] into the combined variable name; the
// index renders per its own type. Indexed variables are ordinary variables
// under the combined name, there is no array type.
func (ip *Interp) indexedName(base string) string {
	idx := ip.expr()
	if ip.next() != tokKind(']') {
		ip.Throw("missing ']'")
	}
	return base + "[" + idx.String() + "]"
}

// callFunc evaluates the argument list (the opening parenthesis is already
// consumed) and invokes the named extension function. In a suppressed
// branch the arguments are still parsed but the function is neither looked
// up nor invoked.
func (ip *Interp) callFunc(name string) Value {
	var argv []Value
	if ip.next() != tokKind(')') {
		ip.pushBack()
		for {
			if len(argv) >= ip.limits.MaxParams {
				ip.Throw("too many parameters to function %s", name)
			}
			argv = append(argv, ip.expr())
			t := ip.next()
			if t == tokKind(')') {
				break
			}
			if t != tokKind(',') {
				ip.Throw("expected ')'")
			}
		}
	}
	if !ip.active {
		return IntVal(0)
	}
	fn, ok := ip.funcs.find(name)
	if !ok || fn == nil {
		ip.Throw("call to undefined function %s()", name)
	}
	return fn(ip, argv)
}
