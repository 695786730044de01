// Package diagnostics gives LUNIR's CLI, server, and pipeline a small,
// uniform way to log progress and failures. The teacher's own CLI
// (cmd/sentra/main.go) never imports a structured logger — it reaches for
// the standard library's log and fmt packages ad hoc, with log.Fatalf for
// unrecoverable setup errors and fmt.Printf for user-facing progress text.
// Logger keeps that same division instead of introducing a logging
// framework the teacher never reached for.
package diagnostics

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is a thin wrapper around the standard library's *log.Logger that
// adds the level prefixes LUNIR's callers reach for most.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to w with the given name as its prefix
// (e.g. "lunir", "lunir-serve").
func New(w io.Writer, name string) *Logger {
	return &Logger{Logger: log.New(w, fmt.Sprintf("%s: ", name), log.LstdFlags)}
}

// Default returns a Logger writing to stderr, matching the teacher's own
// default *log.Logger target.
func Default(name string) *Logger {
	return New(os.Stderr, name)
}

// Debugf logs a low-volume diagnostic line.
func (l *Logger) Debugf(format string, args ...any) {
	l.Printf("debug: "+format, args...)
}

// Warnf logs a recoverable but noteworthy condition.
func (l *Logger) Warnf(format string, args ...any) {
	l.Printf("warning: "+format, args...)
}

// Errorf logs a failed operation that the caller is about to return as an
// error — logging and returning are both useful when the caller runs
// inside a goroutine (the server's per-connection handlers) whose return
// value nobody inspects.
func (l *Logger) Errorf(format string, args ...any) {
	l.Printf("error: "+format, args...)
}
