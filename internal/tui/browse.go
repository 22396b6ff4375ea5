package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/omd2tex/internal/document"
	"github.com/gerunddev/omd2tex/internal/styles"
)

// BrowseData holds the flattened element tree of one rendered document
type BrowseData struct {
	Document   string
	Entries    []document.Entry
	References int
	Unresolved []string
}

// BrowseMsg is sent when browse data is ready
type BrowseMsg struct {
	Data *BrowseData
	Err  error
}

type browseModel struct {
	table        table.Model
	viewport     viewport.Model
	data         *BrowseData
	err          error
	ready        bool
	showingLatex bool
	selected     int
	width        int
	height       int
}

// InitBrowseModel creates a new element browser model
func InitBrowseModel() browseModel {
	columns := []table.Column{
		{Title: "Line", Width: 6},
		{Title: "Element", Width: 40},
		{Title: "Reference", Width: 16},
		{Title: "Caption", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
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

	vp := viewport.New(100, 20)
	vp.Style = styles.PreviewStyle

	return browseModel{
		table:    t,
		viewport: vp,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-8, 3)

	case tea.KeyMsg:
		if m.showingLatex {
			switch msg.String() {
			case "q", "esc":
				m.showingLatex = false
				return m, nil
			case "up", "k", "down", "j", "pgup", "pgdown":
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k", "down", "j", "pgup", "pgdown", "home", "end":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "enter", "l":
			if m.data != nil && len(m.data.Entries) > 0 {
				idx := m.table.Cursor()
				if idx >= 0 && idx < len(m.data.Entries) {
					m.selected = idx
					m.showingLatex = true
					m.viewport.SetContent(preview(m.data.Entries[idx]))
					m.viewport.GotoTop()
				}
			}
			return m, nil
		}

	case BrowseMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err

		if m.data != nil {
			rows := make([]table.Row, 0, len(m.data.Entries))
			for _, e := range m.data.Entries {
				rows = append(rows, entryRow(e))
			}
			m.table.SetRows(rows)
		}
		return m, nil
	}

	return m, nil
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("omd2tex Element Browser"))
	b.WriteString("\n\n")

	if m.err != nil {
		return errorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		b.WriteString(helpStyle.Render("Parsing..."))
		b.WriteString("\n")
		return b.String()
	}

	if m.showingLatex {
		e := m.data.Entries[m.selected]
		b.WriteString(labelStyle.Render(fmt.Sprintf("LaTeX: %s at line %d", e.Element.Kind(), e.Element.Line()+1)))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("↑/k up • ↓/j down • esc/q back"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("Document: %s", m.data.Document)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Elements:   %s\n", valueStyle.Render(strconv.Itoa(len(m.data.Entries)))))
	b.WriteString(fmt.Sprintf("  References: %s\n", valueStyle.Render(strconv.Itoa(m.data.References))))
	if len(m.data.Unresolved) > 0 {
		b.WriteString(fmt.Sprintf("  Unresolved: %s\n", errorStyle.Render(strings.Join(m.data.Unresolved, ", "))))
	}
	b.WriteString("\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/k up • ↓/j down • enter/l latex • q quit"))
	b.WriteString("\n")

	return b.String()
}

// entryRow shows one element indented by its nesting depth
func entryRow(e document.Entry) table.Row {
	el := e.Element
	name := strings.Repeat("  ", e.Depth) + el.Kind().String()
	if e.Err != nil {
		name += " ⚠"
	}
	return table.Row{
		strconv.Itoa(el.Line() + 1),
		name,
		el.Ref(),
		el.Caption(),
	}
}

func preview(e document.Entry) string {
	if e.Err != nil {
		return errorStyle.Render("✗ " + e.Err.Error())
	}
	if strings.TrimSpace(e.Latex) == "" {
		return helpStyle.Render("(renders to nothing)")
	}
	return e.Latex
}
