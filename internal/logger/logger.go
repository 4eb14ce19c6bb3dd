// Package logger provides verbose logging for aptview.
// When verbose mode is enabled via the --verbose flag, debug messages
// are written to stderr so users can follow backend calls and
// orchestrator state transitions. Records go through log/slog with a
// tint handler, coloured only when the output is a terminal.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// TimeFormat is the timestamp layout of every record.
const TimeFormat = "15:04:05.000"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	log               = newLogger(os.Stderr)

	// replaceAttr is applied to every attribute; tests use it to drop the time.
	replaceAttr func(groups []string, a slog.Attr) slog.Attr
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:       slog.LevelDebug,
		TimeFormat:  TimeFormat,
		NoColor:     !isTerminal(w),
		ReplaceAttr: replaceAttr,
	}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = newLogger(w)
}

func emit(level slog.Level, msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	log.Log(context.Background(), level, msg, args...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	emit(slog.LevelDebug, fmt.Sprintf(format, args...))
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	emit(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	emit(slog.LevelWarn, fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Request logs the outcome of a backend HTTP call.
func Request(method, path string, status int, elapsed time.Duration) {
	level := slog.LevelDebug
	if status >= 400 {
		level = slog.LevelWarn
	}
	emit(level, "http",
		"method", method,
		"path", path,
		"status", status,
		"elapsed", elapsed.Round(time.Millisecond),
	)
}
