package tinyscript

import "fmt"

// ScriptError is the single failure class reported by Run and InvokeLabel.
// Every lexical, syntactic, semantic, resource and runtime error collapses
// into one of these; scripts have no in-language recovery mechanism.
type ScriptError struct {
	Msg     string // what went wrong
	Line    int    // 1-based source line, 0 when no position is known
	Excerpt string // bounded slice of the failing line
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// scriptFault is the panic payload used for non-local unwinding to the
// nearest Run or InvokeLabel boundary. Each of those installs its own
// recover, so a fault inside a nested host callback stops at the callback
// boundary and never disturbs the outer invocation's cursor or context.
type scriptFault struct {
	msg string
}

// Throw aborts the current run with a fatal script error. Extension
// functions must report failures only through Throw (or the Arg helpers,
// which call it); returning normally past an error condition leaves the
// interpreter in an undefined state.
func (ip *Interp) Throw(format string, args ...interface{}) {
	panic(scriptFault{msg: fmt.Sprintf(format, args...)})
}

// captureError turns a fault message into a ScriptError carrying the
// current line number and a bounded excerpt of the failing line. The cursor
// is pushed back first so the excerpt starts at the offending token.
func (ip *Interp) captureError(msg string) *ScriptError {
	ip.pushBack()
	start := ip.pos
	if start > len(ip.src) {
		start = len(ip.src)
	}
	end := start
	for end < len(ip.src) && end-start < ip.limits.MaxErrorText && ip.src[end] != '\n' {
		end++
	}
	return &ScriptError{
		Msg:     msg,
		Line:    ip.CurLine(),
		Excerpt: ip.src[start:end],
	}
}

// faultOf separates script faults from other recovered panics; anything
// else is re-raised by the caller so programming errors in host code keep
// their ordinary panic behavior.
func faultOf(r interface{}) (scriptFault, bool) {
	f, ok := r.(scriptFault)
	return f, ok
}
