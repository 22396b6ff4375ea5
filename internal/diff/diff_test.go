package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	got := Unified("old.tex", "new.tex", "a\nb\nc\n", "a\nB\nc\n")

	if !strings.Contains(got, "-b") {
		t.Errorf("Expected removed line in diff, got:\n%s", got)
	}
	if !strings.Contains(got, "+B") {
		t.Errorf("Expected added line in diff, got:\n%s", got)
	}
	if !strings.Contains(got, "--- old.tex") || !strings.Contains(got, "+++ new.tex") {
		t.Errorf("Expected file headers in diff, got:\n%s", got)
	}
}

func TestUnifiedEqual(t *testing.T) {
	if got := Unified("a", "b", "same\n", "same\n"); got != "" {
		t.Errorf("Expected empty diff for equal content, got:\n%s", got)
	}
}

func TestGeneratePlain(t *testing.T) {
	got, err := Generate("a", "b", "x\n", "y\n", FormatPlain)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(got, "+y") {
		t.Errorf("Expected plain unified diff, got:\n%s", got)
	}
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	if _, err := Generate("a", "b", "x\n", "y\n", Format(42)); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestGenerateFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.tex")

	// first export: every line is new
	got, err := GenerateFile(path, "line\n", FormatPlain)
	if err != nil {
		t.Fatalf("GenerateFile failed: %v", err)
	}
	if !strings.Contains(got, "+line") {
		t.Errorf("Expected added line for missing file, got:\n%s", got)
	}

	if err := os.WriteFile(path, []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = GenerateFile(path, "line\n", FormatTerminal)
	if err != nil {
		t.Fatalf("GenerateFile failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected no diff for unchanged file, got:\n%s", got)
	}
}
