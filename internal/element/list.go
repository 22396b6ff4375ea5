package element

import (
	"fmt"
	"strings"
)

// ListStyle distinguishes the list item variants
type ListStyle int

const (
	Bullet ListStyle = iota
	Enumerate
	Check
)

func (s ListStyle) String() string {
	switch s {
	case Enumerate:
		return "enumerate"
	case Check:
		return "check"
	default:
		return "bullet"
	}
}

var enumCounters = []string{"enumi", "enumii", "enumiii", "enumiv"}

// ListMismatchError is returned when items are grouped or nested against the list
// depth rules.
type ListMismatchError struct {
	Op          string
	Style       ListStyle
	Depth       int
	OtherStyle  ListStyle
	OtherDepth  int
	Requirement string
}

func (e *ListMismatchError) Error() string {
	return fmt.Sprintf("cannot %s %s item at depth %d into %s item at depth %d: %s",
		e.Op, e.OtherStyle, e.OtherDepth, e.Style, e.Depth, e.Requirement)
}

// List is one list item. After grouping, the first item of a run holds the whole run in
// Items and strictly deeper items that follow the run in Merged.
type List struct {
	base
	Style    ListStyle
	Text     string
	Depth    int
	Number   int
	Complete bool

	Items  []*List
	Merged []*List
}

// NewList creates a single list item; its run initially holds only itself
func NewList(style ListStyle, text string, depth int, line int) *List {
	l := &List{base: base{line: line}, Style: style, Text: text, Depth: depth}
	l.Items = []*List{l}
	return l
}

func (l *List) Kind() Kind { return KindList }

// Append adds a sibling of the same style and depth to the run
func (l *List) Append(item *List) error {
	if item.Style != l.Style || item.Depth != l.Depth {
		return &ListMismatchError{
			Op: "append", Style: l.Style, Depth: l.Depth,
			OtherStyle: item.Style, OtherDepth: item.Depth,
			Requirement: "items must share style and depth",
		}
	}
	l.Items = append(l.Items, item)
	return nil
}

// Merge nests a strictly deeper list under this one
func (l *List) Merge(child *List) error {
	if child.Depth <= l.Depth {
		return &ListMismatchError{
			Op: "merge", Style: l.Style, Depth: l.Depth,
			OtherStyle: child.Style, OtherDepth: child.Depth,
			Requirement: "nested items must be deeper",
		}
	}
	l.Merged = append(l.Merged, child)
	return nil
}

// Texts returns the text of every item in the run
func (l *List) Texts() []string {
	texts := make([]string, len(l.Items))
	for i, item := range l.Items {
		texts[i] = item.Text
	}
	return texts
}

func (l *List) Latex(ctx *Context) (string, error) {
	var lines []string
	for _, item := range l.Items {
		lines = append(lines, indent(item.itemLatex(ctx), 1))
	}
	for _, child := range l.Merged {
		nested, err := child.Latex(ctx)
		if err != nil {
			return "", err
		}
		lines = append(lines, indent(nested, 1))
	}

	env := "itemize"
	if l.Style == Enumerate {
		env = "enumerate"
	}
	return fmt.Sprintf("\\begin{%s}\\itemsep%s\n%s\n\\end{%s}", env, ctx.Options.ListItemSep, strings.Join(lines, "\n"), env), nil
}

func (l *List) ProjectLatex(ctx *Context) (string, error) {
	return l.Latex(ctx)
}

func (l *List) itemLatex(ctx *Context) string {
	text := ctx.RenderText(l.Text)
	switch l.Style {
	case Enumerate:
		counter := enumCounters[min(l.Depth, len(enumCounters)-1)]
		return fmt.Sprintf("\\setcounter{%s}{%d}\n\\item %s", counter, l.Number-1, text)
	case Check:
		if l.Complete {
			return `\item[$\boxtimes$] \sout{` + text + `}`
		}
		return `\item[$\square$] ` + text
	default:
		return `\item ` + text
	}
}
