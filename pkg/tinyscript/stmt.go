package tinyscript

// flow describes what the executor should do after one statement.
type flow int

const (
	flowNext flow = iota // fall through to the following statement
	flowJump             // transfer control to the returned offset
	flowHost             // hand control back to the host (InvokeLabel frame)
)

// hostFrame is the GOSUB-stack sentinel marking a frame created by a
// host-initiated callback rather than an in-script GOSUB. Popping it on
// RETURN ends the nested statement loop instead of jumping.
const hostFrame = -1

// statement recognizes and executes exactly one statement, including any
// ':'-chained continuation on the same logical line. It is fused: there is
// no separate parse step, recognition and execution happen on the same
// token stream, with the active flag suppressing side effects on untaken
// branches.
func (ip *Interp) statement() (flow, int) {
	t := ip.next()
	switch t {
	case tokIdent, tokStrIdent, tokLet:
		ip.assignOrCall(t)

	case tokIf:
		save := ip.active
		cond := ip.expr().Int()
		if ip.active {
			ip.active = cond != 0
		}
		if ip.next() != tokThen {
			ip.Throw("THEN expected")
		}
		for ip.next() == tokLF {
		}
		ip.pushBack()
		f, pos := ip.statement()
		ip.active = save
		if f != flowNext {
			return f, pos
		}

	case tokGoto, tokGosub:
		u := ip.next()
		if u != tokIdent && u != tokNumber {
			ip.Throw("label expected")
		}
		name := ip.tok
		if ip.active && t == tokGosub {
			if len(ip.gosub) >= ip.limits.MaxGosub {
				ip.Throw("GOSUB stack overflow")
			}
			ip.gosub = append(ip.gosub, ip.pos)
		}
		target, ok := ip.labels.find(name)
		if !ok {
			ip.Throw("GOTO/GOSUB to undefined label '%s'", name)
		}
		if ip.active {
			return flowJump, target
		}

	case tokReturn:
		if len(ip.gosub) == 0 {
			ip.Throw("GOSUB stack underflow")
		}
		if ip.active {
			top := ip.gosub[len(ip.gosub)-1]
			ip.gosub = ip.gosub[:len(ip.gosub)-1]
			if top == hostFrame {
				return flowHost, 0
			}
			// Resume right after the GOSUB's label; the terminator check
			// below then picks up any ':'-chained statements there.
			ip.pos = top
			ip.last = -1
		}

	case tokOn:
		if f, pos, jumped := ip.onStatement(); jumped {
			return f, pos
		}

	case tokFor:
		ip.forStatement()

	case tokNext:
		ip.nextStatement()
		return flowNext, 0

	case tokEnd, tokEOF:
		if ip.active {
			ip.pushBack()
		}
		return flowNext, 0

	default:
		ip.Throw("statement expected")
	}

	// Statement terminator: ':' chains another statement on the same
	// logical line (blank lines after ':' are skipped), otherwise the
	// statement must end at a newline, END or end of input.
	switch t := ip.next(); t {
	case tokKind(':'):
		for ip.next() == tokLF {
		}
		ip.pushBack()
		return ip.statement()
	case tokLF, tokEnd, tokEOF:
		ip.pushBack()
		return flowNext, 0
	}
	ip.Throw("':' or end of line expected")
	return flowNext, 0
}

// assignOrCall handles the two forms that start with an identifier:
// assignment (with optional LET and optional index) and a bare function
// call whose result is discarded.
func (ip *Interp) assignOrCall(t tokKind) {
	hasLet := false
	if t == tokLet {
		hasLet = true
		t = ip.next()
		if t != tokIdent && t != tokStrIdent {
			ip.Throw("identifier expected")
		}
	}
	name := ip.tok
	indexed := false
	if ip.next() == tokKind('[') {
		indexed = true
		name = ip.indexedName(name)
	} else {
		ip.pushBack()
	}

	switch u := ip.next(); {
	case u == tokKind('='):
		v := ip.expr()
		if ip.active {
			// The value coerces to the type the name implies.
			if t == tokStrIdent {
				ip.vars.put(name, StrVal(v.String()))
			} else {
				ip.vars.put(name, IntVal(v.Int()))
			}
		}
	case !hasLet && !indexed && u == tokKind('('):
		ip.callFunc(name) // bare call, result discarded
	default:
		ip.Throw("'=' expected")
	}
}

// onStatement implements ON expr GOTO/GOSUB label, label, ... The
// expression selects a zero-based position in the label list; out of range
// silently continues past the statement with no jump.
func (ip *Interp) onStatement() (flow, int, bool) {
	x := ip.expr().Int()
	u := ip.next()
	if u != tokGoto && u != tokGosub {
		ip.Throw("GOTO or GOSUB expected")
	}
	j := 0
	for {
		q := ip.next()
		if q != tokIdent && q != tokNumber {
			ip.Throw("label expected")
		}
		if ip.active && j == x {
			name := ip.tok
			target, ok := ip.labels.find(name)
			if !ok {
				ip.Throw("ON .. GOTO/GOSUB to undefined label '%s'", name)
			}
			if u == tokGosub {
				if len(ip.gosub) >= ip.limits.MaxGosub {
					ip.Throw("GOSUB stack overflow")
				}
				// The resumption point lies past the rest of the list.
				for ip.next() == tokKind(',') {
					if q := ip.next(); q != tokIdent && q != tokNumber {
						ip.Throw("label expected")
					}
				}
				ip.pushBack()
				ip.gosub = append(ip.gosub, ip.pos)
			}
			return flowJump, target, true
		}
		j++
		if ip.next() != tokKind(',') {
			ip.pushBack()
			return flowNext, 0, false
		}
	}
}

// forStatement pushes the loop-header position and parses the header. On
// first entry the loop variable is set to the start value and control falls
// into the body; NEXT later re-evaluates the header from the saved
// position. When the executor is inactive the whole body is skipped up to
// the matching NEXT and the frame is discarded immediately.
func (ip *Interp) forStatement() {
	if len(ip.fors) >= ip.limits.MaxFor {
		ip.Throw("FOR stack overflow")
	}
	ip.fors = append(ip.fors, ip.pos)

	if ip.next() != tokIdent {
		ip.Throw("identifier expected after FOR")
	}
	ctl := ip.tok
	if ip.next() != tokKind('=') {
		ip.Throw("'=' expected")
	}
	start := ip.expr().Int()
	if ip.next() != tokTo {
		ip.Throw("TO expected")
	}
	ip.expr()
	if ip.next() == tokStep {
		ip.expr()
	} else {
		ip.pushBack()
	}
	if ip.next() != tokDo {
		ip.Throw("DO expected")
	}

	if !ip.active {
		ip.fors = ip.fors[:len(ip.fors)-1]
		if ip.next() != tokLF {
			ip.Throw("end of line expected")
		}
		ip.skipForBody()
		return
	}
	ip.vars.put(ctl, IntVal(start))
}

// skipForBody scans an untaken FOR body to its matching NEXT without
// executing anything. Nested statements still run through the (inactive)
// executor so that inner FOR..NEXT pairs are consumed by their own skip.
func (ip *Interp) skipForBody() {
	for {
		t := ip.next()
		switch {
		case t == tokNext:
			return
		case t == tokEOF:
			ip.Throw("FOR without NEXT")
		case t == tokNumber || t == tokLF:
			// label or blank line
		case t == tokIdent:
			mark := ip.last
			if ip.next() == tokKind(':') {
				continue // named label
			}
			ip.pos = mark
			ip.last = -1
			ip.statement()
		default:
			ip.pushBack()
			ip.statement()
		}
	}
}

// nextStatement re-evaluates the entire loop header from the saved FOR
// position; nothing is cached between iterations. The loop ends only when
// the variable equals the stop value exactly; with a step that never lands
// on it the loop runs forever, which is the language's defined behavior.
func (ip *Interp) nextStatement() {
	if !ip.active {
		return
	}
	if len(ip.fors) == 0 {
		ip.Throw("FOR stack underflow")
	}
	resumePos, resumeLast := ip.pos, ip.last
	ip.pos = ip.fors[len(ip.fors)-1]
	ip.last = -1

	if ip.next() != tokIdent {
		ip.Throw("identifier expected after FOR")
	}
	ctl := ip.tok
	if ip.next() != tokKind('=') {
		ip.Throw("'=' expected")
	}
	start := ip.expr().Int()
	if ip.next() != tokTo {
		ip.Throw("TO expected")
	}
	stop := ip.expr().Int()
	var step int
	if ip.next() == tokStep {
		step = ip.expr().Int()
	} else {
		ip.pushBack()
		if start < stop {
			step = 1
		} else {
			step = -1
		}
	}
	if ip.next() != tokDo {
		ip.Throw("DO expected")
	}

	cur := ip.GetInt(ctl)
	if cur == stop {
		ip.pos, ip.last = resumePos, resumeLast
		ip.fors = ip.fors[:len(ip.fors)-1]
		return
	}
	ip.vars.put(ctl, IntVal(cur+step))
	// The cursor now sits just past DO; execution continues in the body.
}

// program is the statement loop. It skips label tokens at line starts and
// dispatches everything else through statement, applying jumps as they come
// back. A flowHost result ends the loop so InvokeLabel can return.
func (ip *Interp) program() {
	atLineStart := true
	for {
		t := ip.next()
		if t == tokEOF || t == tokEnd {
			return
		}
		if atLineStart || t == tokLF {
			if !atLineStart {
				t = ip.next()
			}
			if t == tokIdent {
				mark := ip.last
				if ip.next() != tokKind(':') {
					ip.pos = mark
					ip.last = -1
				}
			} else if t != tokNumber {
				ip.pushBack()
			}
		} else {
			ip.pushBack()
			f, pos := ip.statement()
			switch f {
			case flowJump:
				ip.pos = pos
				ip.last = -1
			case flowHost:
				return
			}
		}
		atLineStart = false
	}
}
