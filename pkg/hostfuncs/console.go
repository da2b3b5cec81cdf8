package hostfuncs

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// PRINT(exp1, exp2, ...) writes all its parameters followed by a newline
// and returns the number of parameters.
func fnPrint(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	for _, v := range argv {
		fmt.Fprint(h.Out, v.String())
	}
	fmt.Fprintln(h.Out)
	return tinyscript.IntVal(len(argv))
}

// INPUT$([prompt]) reads one line from the console, without the trailing
// newline. The prompt defaults to "> ". At end of input it returns "".
func fnInput(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	if len(argv) == 0 {
		fmt.Fprint(h.Out, "> ")
	} else {
		fmt.Fprint(h.Out, ip.ArgString(argv, 0))
	}

	if h.in == nil {
		h.in = bufio.NewReader(h.In)
	}
	line, _ := h.in.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if len(line) > h.inputSize {
		line = line[:h.inputSize]
	}
	return tinyscript.StrVal(line)
}
