// Package hostfuncs provides the extension functions exposed to scripts by
// the standalone interpreter: console I/O, line-oriented file access,
// random numbers, POSIX regex matching, UUID generation, a SQLite bridge
// and interpreter control (CALL, HALT).
//
// All state lives in a Host. One Host serves one Interp; neither is safe
// for concurrent use.
package hostfuncs

import (
	"bufio"
	"database/sql"
	"io"
	"math/rand"
	"os"

	"github.com/antibyte/tinyscript/pkg/configuration"
	"github.com/antibyte/tinyscript/pkg/logger"
	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// Host owns the operating-system resources the extension functions hand
// out to scripts: open files, database connections and the random source.
// Callers must Close the Host when the interpreter is done with it so
// handles leaked by scripts are released.
type Host struct {
	In  io.Reader // console input, stdin by default
	Out io.Writer // console output, stdout by default

	in *bufio.Reader

	files    []*scriptFile
	maxFiles int

	dbs    []*sql.DB
	maxDBs int

	inputSize int

	rng *rand.Rand
}

// scriptFile is one slot in the file table. The reader is only allocated
// for files opened in mode "r".
type scriptFile struct {
	f   *os.File
	r   *bufio.Reader
	eof bool
}

// New creates a Host with its table sizes taken from the [HostFuncs]
// configuration section.
func New() *Host {
	return &Host{
		In:        os.Stdin,
		Out:       os.Stdout,
		maxFiles:  configuration.GetInt("HostFuncs", "max_open_files", 10),
		maxDBs:    configuration.GetInt("HostFuncs", "max_open_databases", 4),
		inputSize: configuration.GetInt("HostFuncs", "input_buffer_size", 80),
		// matches the C library's rand() before srand() is called
		rng: rand.New(rand.NewSource(1)),
	}
}

// Register installs every extension function on the interpreter and binds
// the interpreter's user data to the Host so the functions can reach it.
func (h *Host) Register(ip *tinyscript.Interp) {
	h.files = make([]*scriptFile, h.maxFiles)
	h.dbs = make([]*sql.DB, h.maxDBs)
	ip.SetData(h)

	ip.Register("print", fnPrint)
	ip.Register("input$", fnInput)

	ip.Register("open", fnOpen)
	ip.Register("close", fnClose)
	ip.Register("eof", fnEOF)
	ip.Register("read$", fnRead)
	ip.Register("write", fnWrite)

	ip.Register("randomize", fnRandomize)
	ip.Register("random", fnRandom)

	ip.Register("regex", fnRegex)

	ip.Register("uuid$", fnUUID)

	ip.Register("dbopen", fnDBOpen)
	ip.Register("dbclose", fnDBClose)
	ip.Register("dbexec", fnDBExec)
	ip.Register("dbquery", fnDBQuery)

	ip.Register("call", fnCall)
	ip.Register("halt", fnHalt)

	logger.Debug(logger.AreaHostFuncs, "registered extension functions (files=%d dbs=%d)", h.maxFiles, h.maxDBs)
}

// Close releases every file and database handle still open. Scripts are
// expected to CLOSE() what they OPEN(), but a script that errors out
// mid-run leaves its handles behind.
func (h *Host) Close() {
	for i, sf := range h.files {
		if sf != nil {
			sf.f.Close()
			h.files[i] = nil
		}
	}
	for i, db := range h.dbs {
		if db != nil {
			db.Close()
			h.dbs[i] = nil
		}
	}
}

// hostOf fetches the Host back out of the interpreter's user data slot.
func hostOf(ip *tinyscript.Interp) *Host {
	h, ok := ip.Data().(*Host)
	if !ok || h == nil {
		ip.Throw("no host attached to interpreter")
	}
	return h
}
