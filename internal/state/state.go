package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileState represents the state of a single source note
type FileState struct {
	MTime int64  `json:"mtime"`
	Hash  string `json:"hash"`
}

// DocumentState records the last export of a document
type DocumentState struct {
	Output     string    `json:"output"`
	Sources    []string  `json:"sources"`
	ExportedAt time.Time `json:"exported_at"`
}

// State represents the export state
type State struct {
	Files     map[string]*FileState     `json:"files"`
	Documents map[string]*DocumentState `json:"documents"` // document name -> last export
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files:     make(map[string]*FileState),
		Documents: make(map[string]*DocumentState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}
	if state.Documents == nil {
		state.Documents = make(map[string]*DocumentState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a file has changed since it was last exported
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	fileState, exists := s.Files[path]
	if !exists {
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records the current state of a file
func (s *State) Update(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Files[path] = &FileState{
		MTime: info.ModTime().Unix(),
		Hash:  hash,
	}

	return nil
}

// DocumentChanged reports whether a document needs exporting again: it was never
// exported, its output is gone, or one of the sources it was built from changed.
// A source that no longer exists counts as a change.
func (s *State) DocumentChanged(name string) (bool, error) {
	doc, exists := s.Documents[name]
	if !exists {
		return true, nil
	}
	if _, err := os.Stat(doc.Output); err != nil {
		return true, nil
	}

	for _, src := range doc.Sources {
		changed, err := s.HasChanged(src)
		if os.IsNotExist(err) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if changed {
			return true, nil
		}
	}
	return false, nil
}

// RecordExport stores a finished export and the state of every source it read
func (s *State) RecordExport(name, output string, sources []string) error {
	for _, src := range sources {
		if err := s.Update(src); err != nil {
			return fmt.Errorf("failed to record %s: %w", src, err)
		}
	}
	s.Documents[name] = &DocumentState{
		Output:     output,
		Sources:    append([]string(nil), sources...),
		ExportedAt: time.Now(),
	}
	return nil
}

// GetMTime returns the recorded modification time for a file
func (s *State) GetMTime(path string) time.Time {
	if fileState, exists := s.Files[path]; exists {
		return time.Unix(fileState.MTime, 0)
	}
	return time.Time{}
}
