package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Files == nil {
		t.Error("Files map should be initialized")
	}
	if s.Documents == nil {
		t.Error("Documents map should be initialized")
	}
	if len(s.Files) != 0 {
		t.Error("Files map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "state.json")

	state := NewState()
	state.Files["note.md"] = &FileState{
		MTime: 123456789,
		Hash:  "sha256:abc123",
	}
	state.Documents["note"] = &DocumentState{
		Output:  "/export/note/main.tex",
		Sources: []string{"note.md"},
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(loaded.Files))
	}

	fileState := loaded.Files["note.md"]
	if fileState == nil {
		t.Fatal("File state not found")
	}
	if fileState.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", fileState.MTime)
	}
	if fileState.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", fileState.Hash)
	}

	doc := loaded.Documents["note"]
	if doc == nil {
		t.Fatal("Document state not found")
	}
	if doc.Output != "/export/note/main.tex" {
		t.Errorf("Output mismatch: got %s", doc.Output)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nonexistent.json")

	state, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}

	if state == nil {
		t.Fatal("State should not be nil")
	}
	if len(state.Files) != 0 {
		t.Error("State should be empty")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("Hello, World!"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if hash[:7] != "sha256:" {
		t.Errorf("Hash should start with 'sha256:', got: %s", hash)
	}

	hash2, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Second ComputeHash failed: %v", err)
	}
	if hash != hash2 {
		t.Error("Hash should be deterministic")
	}

	if err := os.WriteFile(testFile, []byte("Different content"), 0644); err != nil {
		t.Fatalf("Failed to update test file: %v", err)
	}
	hash3, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Third ComputeHash failed: %v", err)
	}
	if hash == hash3 {
		t.Error("Hash should change when content changes")
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()

	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("New file should be marked as changed")
	}

	if err := state.Update(testFile); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Unchanged file should not be marked as changed")
	}

	// Move mtime without touching content
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(testFile, later, later); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after touch: %v", err)
	}
	if changed {
		t.Error("File with only mtime change should not be marked as changed")
	}

	if err := os.WriteFile(testFile, []byte("New content"), 0644); err != nil {
		t.Fatalf("Failed to update file: %v", err)
	}
	evenLater := later.Add(time.Hour)
	if err := os.Chtimes(testFile, evenLater, evenLater); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after content change: %v", err)
	}
	if !changed {
		t.Error("File with content change should be marked as changed")
	}
}

func TestDocumentChanged(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "note.md")
	output := filepath.Join(tmpDir, "main.tex")
	for _, path := range []string{source, output} {
		if err := os.WriteFile(path, []byte("content"), 0644); err != nil {
			t.Fatalf("Failed to create %s: %v", path, err)
		}
	}

	state := NewState()

	changed, err := state.DocumentChanged("note")
	if err != nil {
		t.Fatalf("DocumentChanged failed: %v", err)
	}
	if !changed {
		t.Error("Unexported document should be marked as changed")
	}

	if err := state.RecordExport("note", output, []string{source}); err != nil {
		t.Fatalf("RecordExport failed: %v", err)
	}

	changed, err = state.DocumentChanged("note")
	if err != nil {
		t.Fatalf("DocumentChanged failed: %v", err)
	}
	if changed {
		t.Error("Freshly exported document should not be marked as changed")
	}

	if err := os.Remove(output); err != nil {
		t.Fatal(err)
	}
	changed, _ = state.DocumentChanged("note")
	if !changed {
		t.Error("Document with missing output should be marked as changed")
	}

	if err := os.WriteFile(output, []byte("content"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(source); err != nil {
		t.Fatal(err)
	}
	changed, err = state.DocumentChanged("note")
	if err != nil {
		t.Fatalf("DocumentChanged should not fail on a deleted source: %v", err)
	}
	if !changed {
		t.Error("Document with deleted source should be marked as changed")
	}
}

func TestGetMTime(t *testing.T) {
	state := NewState()

	mtime := state.GetMTime("nonexistent.md")
	if !mtime.IsZero() {
		t.Error("MTime for non-existent file should be zero")
	}

	state.Files["test.md"] = &FileState{
		MTime: 1234567890,
		Hash:  "sha256:test",
	}

	mtime = state.GetMTime("test.md")
	if mtime.Unix() != 1234567890 {
		t.Errorf("MTime mismatch: got %d, want 1234567890", mtime.Unix())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nested", "dir", "state.json")

	state := NewState()
	if err := state.Save(statePath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}
