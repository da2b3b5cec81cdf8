// Package tinyscript implements an embeddable interpreter for a small
// line-oriented scripting language: labels, GOTO/GOSUB, FOR/NEXT, IF/THEN,
// weakly-typed scalar variables and host-registered extension functions.
// Parsing and execution are fused; a statement is executed as it is
// recognized and no intermediate program representation is ever built.
//
// An Interp is not safe for concurrent use. All state is instance-local and
// shared by reference across nested host callbacks; a script that loops
// forever blocks the calling goroutine, so callers that need cancellation
// must isolate Run behind their own boundary.
package tinyscript

import (
	"strings"

	"github.com/antibyte/tinyscript/pkg/logger"
)

// Func is an extension function registered under a script-visible name.
// It receives the evaluated argument vector and returns one tagged value.
// It must report errors only through Interp.Throw (or the Arg helpers) and
// must not retain argv beyond the call.
type Func func(ip *Interp, argv []Value) Value

// Limits bound the interpreter's fixed-size resources. Exceeding any of
// them raises a reported error, never silent truncation.
type Limits struct {
	MaxToken     int // longest identifier or quoted string
	MaxParams    int // arguments per function call
	MaxGosub     int // GOSUB nesting depth, including host callbacks
	MaxFor       int // FOR nesting depth
	MaxErrorText int // length of the diagnostic source excerpt
}

// DefaultLimits returns the standard bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxToken:     80,
		MaxParams:    20,
		MaxGosub:     20,
		MaxFor:       5,
		MaxErrorText: 80,
	}
}

// Interp is one interpreter instance. Variables and extension functions
// live for the lifetime of the instance and are shared by every script run
// on it; the label table only exists while a run is in progress.
type Interp struct {
	limits Limits

	src  string // immutable source of the current run
	pos  int    // parse cursor, byte offset into src
	last int    // start of the most recent token; -1 when pushback is invalid
	tok  string // text of the most recent token

	vars   *symtab[Value]
	labels *symtab[int]
	funcs  *symtab[Func]

	// active is the execution-mode bit: false means statements are parsed
	// for syntax only, with side effects and undefined-symbol errors
	// suppressed (untaken IF/FOR bodies).
	active bool

	gosub []int // resumption offsets; hostFrame bounds a host callback
	fors  []int // loop-header offsets

	data interface{} // opaque host slot
}

// New creates an interpreter preloaded with the standard function library.
func New() *Interp {
	return NewWithLimits(DefaultLimits())
}

// NewWithLimits creates an interpreter with explicit resource bounds.
func NewWithLimits(l Limits) *Interp {
	ip := &Interp{
		limits: l,
		last:   -1,
		vars:   newSymtab[Value](),
		labels: newSymtab[int](),
		funcs:  newSymtab[Func](),
		active: true,
	}
	registerStdlib(ip)
	return ip
}

// Run executes a script on the instance. Variables persist across runs;
// the label table is rebuilt at the start and cleared again on exit. On
// failure the returned error is a *ScriptError carrying the line number and
// a bounded excerpt of the failing line.
func (ip *Interp) Run(src string) (err error) {
	ip.src = src
	ip.pos = 0
	ip.last = -1
	ip.active = true
	ip.gosub = ip.gosub[:0]
	ip.fors = ip.fors[:0]

	logger.Debug(logger.AreaInterp, "run start, %d bytes", len(src))

	defer func() {
		if r := recover(); r != nil {
			f, ok := faultOf(r)
			if !ok {
				panic(r)
			}
			err = ip.captureError(f.msg)
			logger.Debug(logger.AreaInterp, "run failed: %v", err)
		}
		ip.labels.clear()
	}()

	ip.scanLabels()
	ip.program()
	return nil
}

// InvokeLabel executes the script subroutine at the named label and returns
// when the matching RETURN is reached. It exists for host callbacks: an
// extension function may call back into the running script, which nests a
// new statement loop inside that call. Errors inside the nested invocation
// are caught here and reported as the return value instead of unwinding the
// outer run; the caller should clean up and then pass them to Throw. The
// previous cursor is always restored, success or failure.
func (ip *Interp) InvokeLabel(name string) (err error) {
	target, ok := ip.labels.find(strings.ToLower(name))
	if !ok {
		return &ScriptError{Msg: "GOSUB to undefined label '" + name + "'"}
	}
	if len(ip.gosub) >= ip.limits.MaxGosub {
		return &ScriptError{Msg: "GOSUB stack overflow"}
	}

	savePos, saveLast := ip.pos, ip.last
	saveDepth := len(ip.gosub)

	// The sentinel bounds the nested invocation: the matching RETURN pops
	// it and hands control back here instead of jumping.
	ip.gosub = append(ip.gosub, hostFrame)
	ip.pos, ip.last = target, -1

	defer func() {
		if r := recover(); r != nil {
			f, ok := faultOf(r)
			if !ok {
				panic(r)
			}
			err = ip.captureError(f.msg)
		}
		ip.pos, ip.last = savePos, saveLast
		ip.gosub = ip.gosub[:saveDepth]
	}()

	ip.program()
	return nil
}

// Halt forces the cursor to end-of-input, so the statement loop terminates
// as if the script had reached an END statement. Safe to call from an
// extension function.
func (ip *Interp) Halt() {
	ip.pos = len(ip.src)
	ip.last = -1
}

// CurLine returns the 1-based source line the cursor is on, or 0 when no
// script is loaded.
func (ip *Interp) CurLine() int {
	if ip.src == "" {
		return 0
	}
	line := 1
	end := ip.pos
	if end > len(ip.src) {
		end = len(ip.src)
	}
	for i := 0; i < end; i++ {
		if ip.src[i] == '\n' {
			line++
		}
	}
	return line
}

// Register installs or replaces the extension function under the given
// name; names are case-insensitive, and functions returning strings must be
// registered under a name with a trailing '$'. A nil fn disables the name,
// including the preloaded standard functions.
func (ip *Interp) Register(name string, fn Func) {
	ip.funcs.put(strings.ToLower(name), fn)
}

// SetInt stores an integer in the named variable.
func (ip *Interp) SetInt(name string, n int) {
	ip.vars.put(strings.ToLower(name), IntVal(n))
}

// GetInt reads the named variable as an integer, coercing a stored string
// through its leading decimal prefix. Undefined names read as 0.
func (ip *Interp) GetInt(name string) int {
	v, ok := ip.vars.find(strings.ToLower(name))
	if !ok {
		return 0
	}
	return v.Int()
}

// SetString stores a string in the named variable.
func (ip *Interp) SetString(name, s string) {
	ip.vars.put(strings.ToLower(name), StrVal(s))
}

// GetString reads the named variable as a string, rendering a stored
// integer in base 10. Undefined names read as "".
func (ip *Interp) GetString(name string) string {
	v, ok := ip.vars.find(strings.ToLower(name))
	if !ok {
		return ""
	}
	return v.String()
}

// SetData stores arbitrary host data on the instance, for extension
// functions that need shared state.
func (ip *Interp) SetData(data interface{}) {
	ip.data = data
}

// Data retrieves the host data previously stored with SetData.
func (ip *Interp) Data() interface{} {
	return ip.data
}

// ArgInt returns argument n as an integer. Call it only from inside an
// extension function: arity and type violations unwind through Throw.
func (ip *Interp) ArgInt(argv []Value, n int) int {
	if n >= len(argv) {
		ip.Throw("too few parameters to function")
	}
	if !argv[n].IsNum {
		ip.Throw("parameter %d must be numeric", n)
	}
	return argv[n].Num
}

// ArgString returns argument n as a string. Call it only from inside an
// extension function: arity and type violations unwind through Throw.
func (ip *Interp) ArgString(argv []Value, n int) string {
	if n >= len(argv) {
		ip.Throw("too few parameters to function")
	}
	if argv[n].IsNum {
		ip.Throw("parameter %d must be a string", n)
	}
	return argv[n].Str
}
