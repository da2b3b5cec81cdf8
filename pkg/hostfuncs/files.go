package hostfuncs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antibyte/tinyscript/pkg/logger"
	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// OPEN(path$, mode$) opens a file and returns its handle. Mode is "r" for
// reading, "w" for writing or "a" for appending.
func fnOpen(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	path := ip.ArgString(argv, 0)
	mode := ip.ArgString(argv, 1)

	slot := -1
	for i, sf := range h.files {
		if sf == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		ip.Throw("too many open files")
	}

	var f *os.File
	var err error
	switch mode {
	case "r":
		f, err = os.Open(path)
	case "w":
		f, err = os.Create(path)
	case "a":
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	default:
		ip.Throw("invalid mode %q in OPEN()", mode)
	}
	if err != nil {
		logger.Warn(logger.AreaHostFuncs, "OPEN %q mode %q failed: %v", path, mode, err)
		ip.Throw("unable to OPEN() file")
	}

	sf := &scriptFile{f: f}
	if mode == "r" {
		sf.r = bufio.NewReader(f)
	}
	h.files[slot] = sf
	return tinyscript.IntVal(slot)
}

// fileAt validates a handle argument and returns its table entry.
func fileAt(ip *tinyscript.Interp, h *Host, argv []tinyscript.Value, fn string) *scriptFile {
	idx := ip.ArgInt(argv, 0)
	if idx < 0 || idx >= len(h.files) || h.files[idx] == nil {
		ip.Throw("invalid file handle in %s", fn)
	}
	return h.files[idx]
}

// CLOSE(f) closes a handle returned by OPEN().
func fnClose(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	sf := fileAt(ip, h, argv, "CLOSE()")
	sf.f.Close()
	h.files[ip.ArgInt(argv, 0)] = nil
	return tinyscript.IntVal(0)
}

// EOF(f) returns 1 once READ$() has hit the end of the file.
func fnEOF(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	sf := fileAt(ip, h, argv, "EOF()")
	if sf.eof {
		return tinyscript.IntVal(1)
	}
	return tinyscript.IntVal(0)
}

// READ$(f) reads one line, without the trailing newline. At end of file it
// returns "" and arms EOF().
func fnRead(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	sf := fileAt(ip, h, argv, "READ$()")
	if sf.r == nil {
		ip.Throw("couldn't READ$() from file")
	}
	line, err := sf.r.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			ip.Throw("couldn't READ$() from file")
		}
		sf.eof = true
	}
	return tinyscript.StrVal(strings.TrimRight(line, "\r\n"))
}

// WRITE(f, par1, par2, ...) writes the parameters separated by spaces and
// followed by a newline.
func fnWrite(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	sf := fileAt(ip, h, argv, "WRITE()")
	for i := 1; i < len(argv); i++ {
		fmt.Fprint(sf.f, argv[i].String())
		if i == len(argv)-1 {
			fmt.Fprintln(sf.f)
		} else {
			fmt.Fprint(sf.f, " ")
		}
	}
	return tinyscript.IntVal(0)
}
