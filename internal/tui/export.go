package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/omd2tex/internal/export"
	"github.com/gerunddev/omd2tex/internal/styles"
)

var (
	spinnerStyle   = styles.SpinnerStyle
	helpStyle      = styles.HelpStyle
	successStyle   = styles.SuccessStyle
	errorStyle     = styles.ErrorStyle
	warningStyle   = styles.WarningStyle
	highlightStyle = styles.HighlightStyle
)

// exportModel is the Bubble Tea model for the export progress display
type exportModel struct {
	spinner  spinner.Model
	status   string
	dryRun   bool
	complete bool
	summary  *export.Summary
	err      error
}

// ExportMsg is sent when an export run completes
type ExportMsg struct {
	Summary *export.Summary
	Err     error
}

// InitExportModel creates a new export progress model
func InitExportModel(documents int, dryRun bool) exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return exportModel{
		spinner: s,
		status:  fmt.Sprintf("Rendering %d document(s)...", documents),
		dryRun:  dryRun,
	}
}

func (m exportModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case ExportMsg:
		m.complete = true
		m.summary = msg.Summary
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m exportModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}
	if m.err != nil {
		return errorStyle.Render("✗ Export failed: "+m.err.Error()) + "\n"
	}
	return SummaryView(m.summary, m.dryRun)
}

// SummaryView renders the per-document outcome of an export run. In a dry run
// documents without a diff match what is already on disk.
func SummaryView(s *export.Summary, dryRun bool) string {
	var out string
	for _, r := range s.Results {
		switch {
		case r.Skipped:
			out += helpStyle.Render("• "+r.Document+" unchanged") + "\n"
		case r.Diff != "":
			out += highlightStyle.Render("● "+r.Document+" would change") + "\n" + r.Diff + "\n"
		case dryRun:
			out += helpStyle.Render("• "+r.Document+" matches "+r.Output) + "\n"
		default:
			line := successStyle.Render(fmt.Sprintf("✓ %s → %s", r.Document, r.Output))
			if r.Size > 0 {
				line += helpStyle.Render(" (" + humanize.Bytes(uint64(r.Size)) + ")")
			}
			out += line + "\n"
		}
		if len(r.Unresolved) > 0 {
			out += warningStyle.Render(fmt.Sprintf("  ⚠ %d unresolved reference(s): %v", len(r.Unresolved), r.Unresolved)) + "\n"
		}
	}
	for _, err := range s.Errors {
		out += errorStyle.Render("✗ "+err.Error()) + "\n"
	}

	duration := s.EndTime.Sub(s.StartTime).Round(time.Millisecond)
	if !dryRun && len(s.Errors) == 0 && s.Exported() == 0 && len(s.Results) > 0 {
		return out + successStyle.Render("✓ Nothing to export") + "\n" +
			helpStyle.Render(fmt.Sprintf("Completed in %v", duration)) + "\n"
	}
	if dryRun {
		changed := 0
		for _, r := range s.Results {
			if r.Diff != "" {
				changed++
			}
		}
		return out + helpStyle.Render(fmt.Sprintf("Dry run: %d document(s) would change, %d errors (took %v)", changed, len(s.Errors), duration)) + "\n"
	}
	return out + helpStyle.Render(s.String()) + "\n"
}
