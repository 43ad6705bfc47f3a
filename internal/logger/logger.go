// Package logger provides verbose logging for pdfpanel.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users follow the panel protocol.
// Errors are printed whether or not verbose mode is on.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is the severity of one log line.
type Level int

// Log levels, least severe first.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag printed in front of a line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "LOG"
	}
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Passing nil restores the default.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// logf holds the write lock so lines from concurrent goroutines never
// interleave on the shared writer.
func logf(level Level, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose && level < LevelError {
		return
	}
	fmt.Fprintf(output, "[%s] %s"+format+"\n", append([]any{level, prefix}, args...)...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(LevelDebug, "", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(LevelInfo, "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(LevelWarn, "", format, args...)
}

// Error always prints a message.
func Error(format string, args ...any) {
	logf(LevelError, "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Scope prefixes every line with the component that wrote it, for example
// "presenter 3f2a: ".
type Scope struct {
	prefix string
}

// With returns a Scope for one component instance.
func With(component, id string) Scope {
	if id == "" {
		return Scope{prefix: component + ": "}
	}
	return Scope{prefix: component + " " + id + ": "}
}

// Debug prints a scoped message if verbose mode is enabled.
func (s Scope) Debug(format string, args ...any) {
	logf(LevelDebug, s.prefix, format, args...)
}

// Info prints a scoped message if verbose mode is enabled.
func (s Scope) Info(format string, args ...any) {
	logf(LevelInfo, s.prefix, format, args...)
}

// Warn prints a scoped warning if verbose mode is enabled.
func (s Scope) Warn(format string, args ...any) {
	logf(LevelWarn, s.prefix, format, args...)
}

// Error always prints a scoped message.
func (s Scope) Error(format string, args ...any) {
	logf(LevelError, s.prefix, format, args...)
}
