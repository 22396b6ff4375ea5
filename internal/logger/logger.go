package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file, and to any extra writers given
func NewFileLogger(path string, level log.Level, also ...io.Writer) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewMultiLogger(level, append([]io.Writer{f}, also...)...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// RenderStarted logs the start of a document render
func (l *Logger) RenderStarted(name, searchDir string) {
	l.Info("render started",
		"document", name,
		"search_dir", searchDir)
}

// RenderCompleted logs the completion of a document render
func (l *Logger) RenderCompleted(name string, elements, references int, duration time.Duration) {
	l.Info("render completed",
		"document", name,
		"elements", elements,
		"references", references,
		"duration", duration.Round(time.Millisecond))
}

// FileIncluded logs a resolved file inclusion
func (l *Logger) FileIncluded(name, path string, depth int) {
	l.Debug("file included",
		"name", name,
		"path", path,
		"depth", depth)
}

// FileMissing logs an inclusion that was skipped because the file does not exist
func (l *Logger) FileMissing(name, from string, line int) {
	l.Warn("included file not found",
		"name", name,
		"from", from,
		"line", line)
}

// UnresolvedReference logs an in-text reference without a registered target
func (l *Logger) UnresolvedReference(ref string) {
	l.Warn("unresolved reference",
		"ref", ref)
}

// MissingFootnote logs a footnote marker without a definition
func (l *Logger) MissingFootnote(key string) {
	l.Warn("footnote has no definition",
		"key", key)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// StateError logs a state-related error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(searchDir, exportDir string, maxFileDepth int) {
	l.Debug("config loaded",
		"search_dir", searchDir,
		"export_dir", exportDir,
		"max_file_recursion", maxFileDepth)
}

// Skipped logs when a line or file is skipped
func (l *Logger) Skipped(item, reason string) {
	l.Debug("skipped",
		"item", item,
		"reason", reason)
}

// Exported logs a written output file
func (l *Logger) Exported(document, path string, size int) {
	l.Info("document exported",
		"document", document,
		"path", path,
		"bytes", size)
}
