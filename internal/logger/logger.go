// Package logger provides verbose logging for the pdfren CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to help users understand the rename pipeline.
// When a log file is attached, every message is also written to it with
// a timestamp, regardless of verbosity.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileTimeLayout = "2006-01-02 15:04:05"

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	file    io.Writer
	now     = time.Now
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

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetFile attaches a writer that receives every message with a timestamp.
// Pass nil to detach.
func SetFile(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	file = w
}

// OpenLogFile opens (appending) the dated log file pdfren_YYYYMMDD.log in
// dir and attaches it. The caller closes the returned file, which also
// detaches it.
func OpenLogFile(dir string) (io.Closer, string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, "", fmt.Errorf("creating log directory: %w", err)
	}
	path := filepath.Join(dir, "pdfren_"+now().Format("20060102")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, "", fmt.Errorf("opening log file: %w", err)
	}
	SetFile(f)
	return &detachingCloser{f: f}, path, nil
}

type detachingCloser struct {
	f *os.File
}

func (c *detachingCloser) Close() error {
	SetFile(nil)
	return c.f.Close()
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", true, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
	if file != nil {
		fmt.Fprintf(file, "%s [SECTION] %s\n", now().Format(fileTimeLayout), name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", true, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("WARN", true, format, args...)
}

// Error prints an error message. Errors reach the console even when
// verbose mode is off.
func Error(format string, args ...any) {
	write("ERROR", false, format, args...)
}

func write(level string, verboseOnly bool, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose || !verboseOnly {
		fmt.Fprintf(output, "["+level+"] "+format+"\n", args...)
	}
	if file != nil {
		msg := fmt.Sprintf(format, args...)
		fmt.Fprintf(file, "%s [%s] %s\n", now().Format(fileTimeLayout), level, msg)
	}
}
