package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/antibyte/tinyscript/pkg/configuration"
	"github.com/antibyte/tinyscript/pkg/hostfuncs"
	"github.com/antibyte/tinyscript/pkg/logger"
	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

const historyFile = ".tinyscript_history"

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize configuration (before all other initializations)
	configPath := "settings.cfg"
	if err := configuration.Initialize(configPath); err != nil {
		fmt.Printf("Error initializing configuration: %v\n", err)
		return 1
	}

	if err := logger.Initialize(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return 1
	}
	defer logger.Close()
	logger.ConfigInfo("Interpreter started - Configuration loaded from: %s", configPath)

	ip := tinyscript.NewWithLimits(limitsFromConfig())
	host := hostfuncs.New()
	host.Register(ip)
	defer host.Close()

	if len(os.Args) > 1 {
		return runFiles(ip, os.Args[1:])
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return runREPL(ip)
	}
	return runStream(ip, os.Stdin)
}

// limitsFromConfig reads the interpreter bounds from the [Interpreter]
// section, falling back to the standard values.
func limitsFromConfig() tinyscript.Limits {
	d := tinyscript.DefaultLimits()
	return tinyscript.Limits{
		MaxToken:     configuration.GetInt("Interpreter", "max_token_length", d.MaxToken),
		MaxParams:    configuration.GetInt("Interpreter", "max_params", d.MaxParams),
		MaxGosub:     configuration.GetInt("Interpreter", "max_gosub_depth", d.MaxGosub),
		MaxFor:       configuration.GetInt("Interpreter", "max_for_depth", d.MaxFor),
		MaxErrorText: configuration.GetInt("Interpreter", "max_error_text", d.MaxErrorText),
	}
}

// runFiles executes each script in order on the same interpreter, so
// variables set by one script are visible to the next.
func runFiles(ip *tinyscript.Interp, paths []string) int {
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Unable to read \"%s\"\n", path)
			return 1
		}
		logger.DriverDebug("running %s (%d bytes)", path, len(src))
		if err := ip.Run(string(src)); err != nil {
			reportError(err)
			return 1
		}
	}
	return 0
}

// runStream executes everything on stdin as a single script.
func runStream(ip *tinyscript.Interp, r io.Reader) int {
	src, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to read input: %v\n", err)
		return 1
	}
	if err := ip.Run(string(src)); err != nil {
		reportError(err)
		return 1
	}
	return 0
}

// runREPL reads statements interactively. Every entered chunk runs as its
// own script; variables and functions persist across chunks, labels do
// not. A trailing backslash continues the chunk on the next line.
func runREPL(ip *tinyscript.Interp) int {
	fmt.Println("tinyscript interactive mode, :quit to exit")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readChunk(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if trimmed == ":quit" || trimmed == ":q" {
			break
		}
		if err := ip.Run(code); err != nil {
			reportError(err)
			continue
		}
		ln.AppendHistory(code)
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readChunk collects one script chunk. A trailing backslash asks for
// another line; it is stripped before the join so the chunk keeps real
// line breaks between statements (FOR and multi-line IF bodies need
// them).
func readChunk(ln *liner.State) (string, bool) {
	var sb strings.Builder
	prompt := "> "
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return "", true
			}
			return "", false
		}
		text, more := chunkLine(line)
		sb.WriteString(text)
		if !more {
			return sb.String(), true
		}
		sb.WriteString("\n")
		prompt = ". "
	}
}

// chunkLine strips a trailing backslash, reporting whether the chunk
// expects another line.
func chunkLine(line string) (string, bool) {
	if strings.HasSuffix(line, "\\") {
		return line[:len(line)-1], true
	}
	return line, false
}

// reportError prints a script error with its line number and source
// excerpt, or the bare error when it carries no position.
func reportError(err error) {
	var se *tinyscript.ScriptError
	if errors.As(err, &se) {
		fmt.Fprintf(os.Stderr, "ERROR: Line %d: %s:\n>> %s\n", se.Line, se.Msg, se.Excerpt)
		logger.Error(logger.AreaDriver, "script error at line %d: %s", se.Line, se.Msg)
		return
	}
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
}
