package search

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes", "Topic.md"))
	writeFile(t, filepath.Join(root, "deep", "nested", "Other.md"))
	writeFile(t, filepath.Join(root, ".trash", "Deleted.md"))
	writeFile(t, filepath.Join(root, "Caps.MD"))

	finder := NewFinder(root, []string{".trash", ".obsidian"})

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "Topic.md", want: filepath.Join(root, "notes", "Topic.md")},
		{name: "Other.md", want: filepath.Join(root, "deep", "nested", "Other.md")},
		{name: "nested/Other.md", want: filepath.Join(root, "deep", "nested", "Other.md")},
		{name: "topic.md", want: filepath.Join(root, "notes", "Topic.md")},
		{name: "caps.md", want: filepath.Join(root, "Caps.MD")},
		{name: "Deleted.md", wantErr: true},
		{name: "Missing.md", wantErr: true},
		{name: "pic.md", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finder.Find(tt.name, "")
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindPrefersExactMatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "note.md"))
	writeFile(t, filepath.Join(root, "b", "Note.md"))

	got, err := NewFinder(root, nil).Find("Note.md", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "b", "Note.md"), got)
}

func TestFindNearDirectoryWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Same.md"))
	writeFile(t, filepath.Join(root, "z", "Same.md"))

	got, err := NewFinder(root, nil).Find("Same.md", filepath.Join(root, "z"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "z", "Same.md"), got)
}

func TestFindUnicodeNormalization(t *testing.T) {
	root := t.TempDir()
	// "é" in decomposed form on disk, composed in the link
	decomposed := "Cafe\u0301.md"
	writeFile(t, filepath.Join(root, decomposed))

	got, err := NewFinder(root, nil).Find("Caf\u00e9.md", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, decomposed), got)
}

func TestFindMissingRoot(t *testing.T) {
	_, err := NewFinder(filepath.Join(t.TempDir(), "nope"), nil).Find("x.md", "")
	assert.Error(t, err)
}
