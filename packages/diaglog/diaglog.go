// Package diaglog sets up the append-only diagnostic log every component
// writes its errors and events to.
package diaglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures the diagnostic log.
type Options struct {
	// Path of the log file. Empty disables the file sink.
	Path string
	// Verbose also writes debug-level records to Stderr.
	Verbose bool
	Stderr  io.Writer
}

// Log is an open diagnostic log.
type Log struct {
	*slog.Logger
	file *os.File
}

// Open creates or appends to the log file and returns a logger over it.
func Open(opts Options) (*Log, error) {
	var writers []io.Writer
	var file *os.File

	if opts.Path != "" {
		if dir := filepath.Dir(opts.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	var w io.Writer = io.Discard
	if len(writers) > 0 {
		w = io.MultiWriter(writers...)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return &Log{Logger: logger, file: file}, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Close closes the log file.
func (l *Log) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
