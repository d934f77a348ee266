// Package rawlog provides a minimal leveled-logging seam for the
// permissive-parsing paths of this module (e.g. a TIFF header whose version
// identifier isn't 42 — worth logging, not worth failing over). An
// interface any Printf-style logger satisfies, defaulting to discard, set
// once by a host application at startup.
package rawlog

import (
	"io"
	"log"
)

// Logger is the minimal interface a host logging framework must satisfy to
// receive this module's diagnostic output.
type Logger interface {
	Printf(format string, args ...interface{})
}

type namedLogger struct {
	log Logger
}

func (l *namedLogger) Printf(format string, args ...interface{}) {
	l.log.Printf(format, args...)
}

// Info and Debug are the two levels this module emits diagnostics at. Both
// default to discarding output until a host sets them.
var (
	Info  = &namedLogger{log: discard{}}
	Debug = &namedLogger{log: discard{}}
)

type discard struct{}

func (discard) Printf(string, ...interface{}) {}

// SetInfoLogger sets the logger used for Info-level diagnostics.
func SetInfoLogger(l Logger) { Info.log = l }

// SetDebugLogger sets the logger used for Debug-level diagnostics.
func SetDebugLogger(l Logger) { Debug.log = l }

// SetDefaultLoggers wires both levels to the stdlib log package, writing to
// w with the given prefix.
func SetDefaultLoggers(w io.Writer, prefix string) {
	SetInfoLogger(log.New(w, prefix+"INFO: ", log.LstdFlags))
	SetDebugLogger(log.New(w, prefix+"DEBUG: ", log.LstdFlags))
}
