package diff

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatTerminal renders diffs with glamour (default)
	FormatTerminal Format = iota
	// FormatPlain returns the raw unified diff
	FormatPlain
)

// Unified returns the unified diff turning old into new, or "" when they are equal
func Unified(oldName, newName, old, new string) string {
	if old == new {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), old, new)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, old, edits))
}

// Generate diffs previously exported LaTeX against a fresh render
func Generate(oldName, newName, old, new string, format Format) (string, error) {
	unified := Unified(oldName, newName, old, new)
	if unified == "" {
		return "", nil
	}

	switch format {
	case FormatPlain:
		return unified, nil
	case FormatTerminal:
		return render(unified), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// GenerateFile diffs the file at path against regenerated content. A missing file is
// treated as empty so a first export shows every line as added.
func GenerateFile(path, regenerated string, format Format) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Generate(path, path+" (regenerated)", string(existing), regenerated, format)
}

func render(unified string) string {
	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
