package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/omd2tex/internal/diff"
	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/logger"
	"github.com/gerunddev/omd2tex/internal/parser"
	"github.com/gerunddev/omd2tex/internal/state"
)

// MainFile is the name of the generated top-level LaTeX file
const MainFile = "main.tex"

// Options controls where and how documents are exported
type Options struct {
	ExportDir string
	// Project writes included notes to separate files next to main.tex
	Project bool
	// Force exports even when no source changed since the last export
	Force bool
	// DryRun renders and diffs without writing anything
	DryRun     bool
	DiffFormat diff.Format
}

// Exporter renders notes and writes them into the export directory
type Exporter struct {
	finder  parser.Finder
	docOpts document.Options
	opts    Options
	state   *state.State
	log     *logger.Logger
}

// NewExporter creates a new exporter instance
func NewExporter(finder parser.Finder, docOpts document.Options, opts Options, st *state.State, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}
	if st == nil {
		st = state.NewState()
	}
	return &Exporter{
		finder:  finder,
		docOpts: docOpts,
		opts:    opts,
		state:   st,
		log:     log,
	}
}

// Result represents the export of one document
type Result struct {
	Document   string
	Output     string
	Size       int
	Skipped    bool
	Diff       string
	Unresolved []string
	Sources    []string
}

// Summary represents the result of exporting several documents
type Summary struct {
	Results   []*Result
	Errors    []error
	StartTime time.Time
	EndTime   time.Time
}

// DocumentName is the export name of a note: its base name without the .md extension
func DocumentName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ".md")
}

// OutputDir is the directory a document is exported into
func (e *Exporter) OutputDir(name string) string {
	return filepath.Join(e.opts.ExportDir, DocumentName(name))
}

// Export renders one note and writes main.tex (and the Makefile) to its output directory
func (e *Exporter) Export(name string) (*Result, error) {
	docName := DocumentName(name)
	outDir := e.OutputDir(name)
	output := filepath.Join(outDir, MainFile)
	result := &Result{Document: docName, Output: output}

	if !e.opts.Force && !e.opts.DryRun {
		changed, err := e.state.DocumentChanged(docName)
		if err != nil {
			e.log.StateError("check", err)
		} else if !changed {
			e.log.Skipped(docName, "unchanged since last export")
			result.Skipped = true
			return result, nil
		}
	}

	opts := e.docOpts
	if e.opts.Project && !e.opts.DryRun {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
		}
		opts.Render.ProjectDir = outDir
	}

	res, err := document.NewRenderer(e.finder, opts, e.log).RenderFile(name)
	if err != nil {
		return nil, err
	}
	result.Size = len(res.Tex)
	result.Unresolved = res.Unresolved
	result.Sources = res.Sources

	if e.opts.DryRun {
		result.Diff, err = diff.GenerateFile(output, res.Tex, e.opts.DiffFormat)
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
	}
	if err := os.WriteFile(output, []byte(res.Tex), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}
	if res.Makefile != "" {
		makefile := filepath.Join(outDir, "Makefile")
		if err := os.WriteFile(makefile, []byte(res.Makefile), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", makefile, err)
		}
	}
	e.log.Exported(docName, output, result.Size)

	if err := e.state.RecordExport(docName, output, res.Sources); err != nil {
		e.log.StateError("record", err)
	}
	return result, nil
}

// ExportAll exports every note, collecting failures instead of stopping at the first
func (e *Exporter) ExportAll(names []string) *Summary {
	summary := &Summary{
		StartTime: time.Now(),
	}

	for _, name := range names {
		res, err := e.Export(name)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Errorf("%s: %w", name, err))
			continue
		}
		summary.Results = append(summary.Results, res)
	}

	summary.EndTime = time.Now()
	return summary
}

// State returns the export state the exporter updates
func (e *Exporter) State() *state.State {
	return e.state
}

// Exported counts the documents that were written
func (s *Summary) Exported() int {
	n := 0
	for _, r := range s.Results {
		if !r.Skipped {
			n++
		}
	}
	return n
}

// String returns a human-readable summary of the export
func (s *Summary) String() string {
	duration := s.EndTime.Sub(s.StartTime)
	return fmt.Sprintf(
		"Export complete: %d documents exported, %d unchanged, %d errors (took %v)",
		s.Exported(),
		len(s.Results)-s.Exported(),
		len(s.Errors),
		duration,
	)
}
