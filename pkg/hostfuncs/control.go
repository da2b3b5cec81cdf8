package hostfuncs

import (
	"github.com/google/uuid"

	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// CALL(label$) is the same as GOSUB label, but the label is a runtime
// value. It returns 1 on success.
func fnCall(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	label := ip.ArgString(argv, 0)
	if err := ip.InvokeLabel(label); err != nil {
		ip.Throw("%s", err.Error())
	}
	return tinyscript.IntVal(1)
}

// HALT() stops the interpreter immediately, like an END statement.
func fnHalt(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	ip.Halt()
	return tinyscript.IntVal(0)
}

// UUID$() returns a fresh random UUID as a string.
func fnUUID(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	return tinyscript.StrVal(uuid.NewString())
}
