package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.FileIncluded("Note.md", "/vault/Note.md", 2)
	l.UnresolvedReference("abc123")
	l.FileError("main.md", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"file included", "depth=2", "unresolved reference", "ref=abc123", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestDefaultLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Skipped("image.zip", "non-document embed")
	if buf.Len() != 0 {
		t.Errorf("Expected debug output to be hidden, got %q", buf.String())
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omd2tex.log")

	l, cleanup, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.RenderStarted("main.md", "/vault")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "render started") {
		t.Errorf("Expected log file to contain render entry, got %q", string(data))
	}
}

func TestNewFileLoggerTeesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "omd2tex.log")
	var buf bytes.Buffer

	l, cleanup, err := NewFileLogger(path, log.DebugLevel, &buf)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	l.Skipped("Report", "unchanged since last export")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "skipped") || !strings.Contains(buf.String(), "skipped") {
		t.Errorf("Expected entry in file and buffer, got %q and %q", string(data), buf.String())
	}
}
