package element

import (
	"fmt"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

var (
	sectionCommands = []string{"section", "subsection", "subsubsection", "paragraph"}
	headingSizes    = []string{`\Large`, `\large`}
)

// Headline is a Markdown heading. Level is zero based: "#" is level 0.
type Headline struct {
	base
	referenceable
	Level int
	Text  string

	aligned int
}

// NewHeadline creates a heading of the given level
func NewHeadline(level int, text string, line int) *Headline {
	return &Headline{base: base{line: line}, Level: level, Text: text, aligned: level}
}

func (h *Headline) Kind() Kind { return KindHeadline }

// AlignedLevel is the level after shifting the shallowest heading of the document to 0.
// It is only meaningful after Identify.
func (h *Headline) AlignedLevel() int {
	return h.aligned
}

// Identify computes the aligned level and registers the reference.
// Headings without numbering have no label and are not registered.
func (h *Headline) Identify(ctx *Context) {
	h.aligned = h.Level
	if ctx.Options.GlobalLevelAlign {
		h.aligned = ctx.Symbols.Align(h.Level)
	}
	if h.ref != "" && ctx.Options.Numeration {
		ctx.Symbols.Register(h.ref, symbols.HeadlineKind(h.aligned))
	}
	h.identified = true
}

func (h *Headline) Latex(ctx *Context) (string, error) {
	if err := h.check(h.Kind(), h.line); err != nil {
		return "", err
	}

	text := h.Text
	if ctx.Options.CleanHighlight {
		text = RemoveHighlight(text)
	}
	if ctx.Options.CleanNumeration {
		text = RemoveNumeration(text)
	}
	text = ctx.RenderText(text)

	if !ctx.Options.Numeration {
		size := `\normalsize`
		if h.aligned < len(headingSizes) {
			size = headingSizes[h.aligned]
		}
		return fmt.Sprintf("\n\\noindent\\textbf{%s %s}\\newline", size, text), nil
	}

	command := "textbf"
	if h.aligned < len(sectionCommands) {
		command = sectionCommands[h.aligned]
	}
	out := fmt.Sprintf(`\%s{%s}`, command, text)
	if h.ref != "" {
		out += `\label{` + symbols.Label(symbols.HeadlineKind(h.aligned), h.ref) + `}`
	}
	return out, nil
}

func (h *Headline) ProjectLatex(ctx *Context) (string, error) {
	return h.Latex(ctx)
}
