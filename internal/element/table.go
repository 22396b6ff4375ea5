package element

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

var (
	separatorRowPattern = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?\s*$`)
	markupChars         = strings.NewReplacer("*", "", "_", "", "=", "", "~", "", "$", "", "`", "", "\\", "", "[", "", "]", "")
)

// Table is a pipe table. Rows exclude the separator row; Alignments has one entry per
// column ("l", "c" or "r").
type Table struct {
	base
	referenceable
	Rows       [][]string
	Alignments []string
}

// NewTable builds a table from its source lines
func NewTable(lines []string, line int) *Table {
	t := &Table{base: base{line: line}}
	for i, l := range lines {
		cells := splitCells(l)
		if i == 1 && separatorRowPattern.MatchString(l) {
			t.Alignments = parseAlignments(cells)
			continue
		}
		t.Rows = append(t.Rows, cells)
	}

	columns := len(t.Alignments)
	for _, row := range t.Rows {
		columns = max(columns, len(row))
	}
	for len(t.Alignments) < columns {
		t.Alignments = append(t.Alignments, "c")
	}
	for i, row := range t.Rows {
		for len(row) < columns {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
	return t
}

func (t *Table) Kind() Kind { return KindTable }

func (t *Table) Identify(ctx *Context) {
	ctx.Symbols.Register(t.ref, symbols.Tab)
	t.identified = true
}

// Columns returns the number of columns
func (t *Table) Columns() int {
	return len(t.Alignments)
}

// ColumnWidths returns the display width of the widest cell per column, ignoring markup
func (t *Table) ColumnWidths() []int {
	widths := make([]int, t.Columns())
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(markupChars.Replace(cell)))
		}
	}
	return widths
}

// Colspec returns the tabularray column specification. Wide tables use proportional X
// columns, narrow ones natural-width Q columns.
func (t *Table) Colspec() string {
	widths := t.ColumnWidths()
	widest := 0
	for _, w := range widths {
		widest = max(widest, w)
	}

	wide := t.Columns() > 6 || (t.Columns() > 3 && widest > 20) || widest > 30

	var b strings.Builder
	for i, align := range t.Alignments {
		if wide {
			fmt.Fprintf(&b, "X[%d,%s]", max(widths[i], 1), align)
		} else {
			fmt.Fprintf(&b, "Q[%s]", align)
		}
	}
	return b.String()
}

func (t *Table) Latex(ctx *Context) (string, error) {
	if err := t.check(t.Kind(), t.line); err != nil {
		return "", err
	}

	var options []string
	if t.ref != "" {
		options = append(options, "label={"+symbols.Label(symbols.Tab, t.ref)+"}")
	}
	if t.caption != "" {
		options = append(options, "caption={"+ctx.RenderText(t.caption)+"}")
	}
	if len(options) == 0 {
		options = append(options, "entry=none", "label=none")
	}

	var body strings.Builder
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = ctx.RenderText(cell)
		}
		body.WriteString(strings.Join(cells, " & ") + " \\\\\n")
	}

	return fmt.Sprintf("\\begingroup\n\\centering\n\\begin{longtblr}[%s]{colspec={%s}, hlines, vlines}\n%s\\end{longtblr}\n\\endgroup",
		strings.Join(options, ", "), t.Colspec(), body.String()), nil
}

func (t *Table) ProjectLatex(ctx *Context) (string, error) {
	return t.Latex(ctx)
}

// splitCells splits a table row on unescaped pipes
func splitCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

func parseAlignments(cells []string) []string {
	alignments := make([]string, len(cells))
	for i, cell := range cells {
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			alignments[i] = "c"
		case left:
			alignments[i] = "l"
		case right:
			alignments[i] = "r"
		default:
			alignments[i] = "c"
		}
	}
	return alignments
}
