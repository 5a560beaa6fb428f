// Package console holds the status and warning output shared by commands.
package console

import (
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu    sync.Mutex
	quiet bool
	warn  = log.New(os.Stderr, "", 0)
	tag   = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// SetQuiet silences Printf. Warnings are always written.
func SetQuiet(on bool) {
	mu.Lock()
	quiet = on
	mu.Unlock()
}

// SetOutput redirects warnings, mostly for tests.
func SetOutput(w io.Writer) {
	warn.SetOutput(w)
}

// Printf writes a status line through the standard logger.
func Printf(format string, args ...interface{}) {
	mu.Lock()
	q := quiet
	mu.Unlock()
	if q {
		return
	}
	log.Printf(format, args...)
}

// Warnf writes a line prefixed with WARN:, coloured when stderr is a terminal.
func Warnf(format string, args ...interface{}) {
	warn.Printf(tag("WARN:")+" "+format, args...)
}
