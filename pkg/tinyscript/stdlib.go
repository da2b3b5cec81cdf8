package tinyscript

import (
	"strconv"
	"strings"
)

// The standard function library preloaded by New. Each entry is an ordinary
// extension function and can be replaced or disabled through Register.

func registerStdlib(ip *Interp) {
	ip.Register("val", stdVal)
	ip.Register("str$", stdStr)
	ip.Register("len", stdLen)
	ip.Register("left$", stdLeft)
	ip.Register("right$", stdRight)
	ip.Register("mid$", stdMid)
	ip.Register("ucase$", stdUcase)
	ip.Register("lcase$", stdLcase)
	ip.Register("trim$", stdTrim)
	ip.Register("instr", stdInstr)
	ip.Register("data", stdData)
}

// VAL(x$) converts the string x$ to a number.
func stdVal(ip *Interp, argv []Value) Value {
	return IntVal(parseLeadingInt(ip.ArgString(argv, 0)))
}

// STR$(x) converts the number x to a string.
func stdStr(ip *Interp, argv []Value) Value {
	return StrVal(strconv.Itoa(ip.ArgInt(argv, 0)))
}

// LEN(x$) returns the length of x$.
func stdLen(ip *Interp, argv []Value) Value {
	return IntVal(len(ip.ArgString(argv, 0)))
}

// LEFT$(s$, n) returns the n leftmost characters of s$.
func stdLeft(ip *Interp, argv []Value) Value {
	s := ip.ArgString(argv, 0)
	n := ip.ArgInt(argv, 1)
	if n < 0 {
		ip.Throw("invalid parameters to LEFT$()")
	}
	if n > len(s) {
		n = len(s)
	}
	return StrVal(s[:n])
}

// RIGHT$(s$, n) returns the n rightmost characters of s$.
func stdRight(ip *Interp, argv []Value) Value {
	s := ip.ArgString(argv, 0)
	n := ip.ArgInt(argv, 1)
	if n < 0 {
		ip.Throw("invalid parameters to RIGHT$()")
	}
	if n > len(s) {
		n = len(s)
	}
	return StrVal(s[len(s)-n:])
}

// MID$(s$, n, m) returns the characters of s$ between n and m, indexed
// from 1: MID$("Hello World", 7, 11) is "World".
func stdMid(ip *Interp, argv []Value) Value {
	s := ip.ArgString(argv, 0)
	p := ip.ArgInt(argv, 1) - 1
	q := ip.ArgInt(argv, 2)
	if q < p+1 || p < 0 || p > len(s) {
		ip.Throw("invalid parameters to MID$()")
	}
	if q > len(s) {
		q = len(s)
	}
	return StrVal(s[p:q])
}

// UCASE$(x$) converts x$ to upper case.
func stdUcase(ip *Interp, argv []Value) Value {
	return StrVal(strings.ToUpper(ip.ArgString(argv, 0)))
}

// LCASE$(x$) converts x$ to lower case.
func stdLcase(ip *Interp, argv []Value) Value {
	return StrVal(strings.ToLower(ip.ArgString(argv, 0)))
}

// TRIM$(x$) removes leading and trailing whitespace from x$.
func stdTrim(ip *Interp, argv []Value) Value {
	return StrVal(strings.TrimSpace(ip.ArgString(argv, 0)))
}

// INSTR(str$, find$) returns the 1-based index of find$ in str$, or 0.
func stdInstr(ip *Interp, argv []Value) Value {
	return IntVal(strings.Index(ip.ArgString(argv, 0), ip.ArgString(argv, 1)) + 1)
}

// DATA(list$, item1, item2, ...) populates the pseudo-array named by its
// first parameter: DATA("a$", "x", "y") is LET a$[1]="x" : LET a$[2]="y".
// It returns the number of items stored.
func stdData(ip *Interp, argv []Value) Value {
	if len(argv) < 1 || argv[0].IsNum {
		ip.Throw("DATA() must take at least 1 string parameter")
	}
	name := strings.ToLower(argv[0].Str)
	if !validIdent(name) {
		ip.Throw("DATA()'s first parameter must be a valid identifier")
	}
	isStr := strings.HasSuffix(name, "$")
	for i := 1; i < len(argv); i++ {
		key := name + "[" + strconv.Itoa(i) + "]"
		if isStr {
			ip.vars.put(key, StrVal(ip.ArgString(argv, i)))
		} else {
			ip.vars.put(key, IntVal(ip.ArgInt(argv, i)))
		}
	}
	return IntVal(len(argv) - 1)
}

// validIdent checks a DATA() target name: identifier characters only, with
// at most a single trailing '$'.
func validIdent(name string) bool {
	s := strings.TrimSuffix(name, "$")
	if s == "" || !isIdStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdChar(s[i]) {
			return false
		}
	}
	return !strings.Contains(s, "$")
}
