package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/omd2tex/internal/styles"
)

var (
	titleStyle = styles.TitleStyle
	labelStyle = styles.LabelStyle
	valueStyle = styles.ValueStyle
	tableStyle = styles.TableStyle
)

// StatusData holds all the information for the status display
type StatusData struct {
	SearchDir     string
	ExportDir     string
	DocumentClass string
	TrackedFiles  int
	Documents     []DocumentStatus
}

// DocumentStatus is the export status of one previously exported document
type DocumentStatus struct {
	Name       string
	Output     string
	Sources    int
	ExportedAt time.Time
	Changed    bool
	Err        error
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

type statusModel struct {
	spinner  spinner.Model
	data     *StatusData
	table    table.Model
	err      error
	scanning bool
	ready    bool
	width    int
	height   int
}

// InitStatusModel creates a new status display model
func InitStatusModel() statusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	columns := []table.Column{
		{Title: "Document", Width: 32},
		{Title: "Sources", Width: 8},
		{Title: "Exported", Width: 18},
		{Title: "Status", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color(styles.Background)).
		Background(lipgloss.Color(styles.Yellow)).
		Bold(false)
	t.SetStyles(ts)

	return statusModel{
		spinner:  s,
		scanning: true,
		table:    t,
	}
}

func (m statusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k", "down", "j":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case StatusMsg:
		m.scanning = false
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Documents))
			for _, d := range m.data.Documents {
				rows = append(rows, table.Row{
					d.Name,
					fmt.Sprintf("%d", d.Sources),
					humanize.Time(d.ExportedAt),
					documentState(d),
				})
			}
			m.table.SetRows(rows)
		}
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m statusModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("omd2tex Status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s Checking exported documents...\n", m.spinner.View()))
		return b.String()
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(labelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Search directory: %s\n", valueStyle.Render(m.data.SearchDir)))
	b.WriteString(fmt.Sprintf("  Export directory: %s\n", valueStyle.Render(m.data.ExportDir)))
	b.WriteString(fmt.Sprintf("  Document class:   %s\n", valueStyle.Render(m.data.DocumentClass)))
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Documents"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Exported:      %s\n", valueStyle.Render(fmt.Sprintf("%d", len(m.data.Documents)))))
	b.WriteString(fmt.Sprintf("  Tracked notes: %s\n", valueStyle.Render(fmt.Sprintf("%d", m.data.TrackedFiles))))

	changed := 0
	for _, d := range m.data.Documents {
		if d.Changed || d.Err != nil {
			changed++
		}
	}
	if changed == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", successStyle.Render("✓ All exports up to date")))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", highlightStyle.Render(fmt.Sprintf("● %d document(s) need exporting", changed))))
	}
	b.WriteString("\n")

	if len(m.data.Documents) > 0 {
		b.WriteString(tableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • q quit"))
	} else {
		b.WriteString(helpStyle.Render("No documents exported yet • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func documentState(d DocumentStatus) string {
	switch {
	case d.Err != nil:
		return "⚠ error"
	case d.Changed:
		return "● changed"
	default:
		return "✓ current"
	}
}
