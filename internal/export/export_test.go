package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gerunddev/omd2tex/internal/diff"
	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/logger"
	"github.com/gerunddev/omd2tex/internal/search"
	"github.com/gerunddev/omd2tex/internal/state"
)

func setupVault(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	vault := filepath.Join(tmpDir, "vault")
	for name, content := range files {
		path := filepath.Join(vault, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return vault, filepath.Join(tmpDir, "export")
}

func newExporter(vault, exportDir string, opts Options, st *state.State) *Exporter {
	opts.ExportDir = exportDir
	return NewExporter(search.NewFinder(vault, nil), document.DefaultOptions(), opts, st, nil)
}

func TestExportWritesDocument(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"Report.md": "# Report ^r\nSee [[#^r]]\n",
	})

	var buf bytes.Buffer
	st := state.NewState()
	e := NewExporter(search.NewFinder(vault, nil), document.DefaultOptions(),
		Options{ExportDir: exportDir}, st, logger.New(&buf))

	res, err := e.Export("Report")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if res.Document != "Report" {
		t.Errorf("Expected document name Report, got %s", res.Document)
	}
	want := filepath.Join(exportDir, "Report", MainFile)
	if res.Output != want {
		t.Errorf("Expected output %s, got %s", want, res.Output)
	}

	tex, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("main.tex not written: %v", err)
	}
	if !strings.Contains(string(tex), `\cref{sec:r}`) {
		t.Errorf("Expected cross reference in output, got:\n%s", tex)
	}
	if res.Size != len(tex) {
		t.Errorf("Expected size %d, got %d", len(tex), res.Size)
	}

	if _, err := os.Stat(filepath.Join(exportDir, "Report", "Makefile")); err != nil {
		t.Errorf("Makefile not written: %v", err)
	}
	if _, ok := st.Documents["Report"]; !ok {
		t.Error("Export was not recorded in state")
	}
	if !strings.Contains(buf.String(), "exported") {
		t.Errorf("Expected export to be logged, got: %s", buf.String())
	}
}

func TestExportSkipsUnchanged(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"Note.md":  "text\n![[Child]]\n",
		"Child.md": "child\n",
	})
	st := state.NewState()
	e := newExporter(vault, exportDir, Options{}, st)

	if _, err := e.Export("Note.md"); err != nil {
		t.Fatalf("First export failed: %v", err)
	}
	if len(st.Documents["Note"].Sources) != 2 {
		t.Errorf("Expected root and child as sources, got %v", st.Documents["Note"].Sources)
	}

	res, err := e.Export("Note.md")
	if err != nil {
		t.Fatalf("Second export failed: %v", err)
	}
	if !res.Skipped {
		t.Error("Expected unchanged document to be skipped")
	}

	forced := newExporter(vault, exportDir, Options{Force: true}, st)
	res, err = forced.Export("Note.md")
	if err != nil {
		t.Fatalf("Forced export failed: %v", err)
	}
	if res.Skipped {
		t.Error("Forced export should not be skipped")
	}
}

func TestExportDetectsIncludedFileChange(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"Note.md":  "![[Child]]\n",
		"Child.md": "before\n",
	})
	st := state.NewState()
	e := newExporter(vault, exportDir, Options{}, st)

	if _, err := e.Export("Note"); err != nil {
		t.Fatalf("First export failed: %v", err)
	}

	if err := os.WriteFile(filepath.Join(vault, "Child.md"), []byte("after, with more text\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// make sure the mtime differs from the recorded one
	st.Files[filepath.Join(vault, "Child.md")].MTime = 0

	res, err := e.Export("Note")
	if err != nil {
		t.Fatalf("Second export failed: %v", err)
	}
	if res.Skipped {
		t.Error("Expected change in included file to trigger export")
	}
}

func TestExportDryRun(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"Note.md": "Hello\n",
	})
	e := newExporter(vault, exportDir, Options{DryRun: true, DiffFormat: diff.FormatPlain}, nil)

	res, err := e.Export("Note")
	if err != nil {
		t.Fatalf("Dry run failed: %v", err)
	}

	if !strings.Contains(res.Diff, "+Hello") {
		t.Errorf("Expected diff to add the paragraph, got:\n%s", res.Diff)
	}
	if _, err := os.Stat(res.Output); !os.IsNotExist(err) {
		t.Error("Dry run must not write output")
	}
	if len(e.State().Documents) != 0 {
		t.Error("Dry run must not record state")
	}
}

func TestExportProject(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"Book.md":    "![[Chapter]]\n",
		"Chapter.md": "Chapter body\n",
	})
	e := newExporter(vault, exportDir, Options{Project: true}, nil)

	if _, err := e.Export("Book"); err != nil {
		t.Fatalf("Project export failed: %v", err)
	}

	main, err := os.ReadFile(filepath.Join(exportDir, "Book", MainFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(main), `\input{Chapter}`) {
		t.Errorf("Expected \\input for chapter, got:\n%s", main)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "Book", "Chapter.tex")); err != nil {
		t.Errorf("Chapter.tex not written: %v", err)
	}
}

func TestExportAll(t *testing.T) {
	vault, exportDir := setupVault(t, map[string]string{
		"A.md":    "a\n",
		"Loop.md": "![[Loop]]\n",
	})
	e := newExporter(vault, exportDir, Options{}, nil)

	summary := e.ExportAll([]string{"A", "Loop", "Missing"})

	if summary.Exported() != 1 {
		t.Errorf("Expected 1 exported document, got %d", summary.Exported())
	}
	if len(summary.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d: %v", len(summary.Errors), summary.Errors)
	}
	if !document.IsRecursion(summary.Errors[0]) {
		t.Errorf("Expected recursion error first, got %v", summary.Errors[0])
	}
	if !strings.Contains(summary.String(), "1 documents exported") {
		t.Errorf("Unexpected summary: %s", summary.String())
	}
}
