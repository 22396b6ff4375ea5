package element

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Quote callout types with dedicated rendering
const (
	QuoteExample  = "example"
	QuoteHidden   = "hidden"
	QuoteText     = "text"
	QuoteTask     = "task"
	QuoteSolution = "solution"
	QuoteCaption  = "caption"
	QuotePause    = "pause"
)

// Quote is a block quote or callout. Its body lines are parsed as an independent
// sub-document into Elements.
type Quote struct {
	base
	Lines    []string
	Type     string
	Heading  string
	Depth    int
	Elements []Element
}

// NewQuote creates a quote. A callout without an explicit heading is titled by its type.
func NewQuote(lines []string, quoteType, heading string, depth, line int) *Quote {
	quoteType = strings.ToLower(strings.TrimSpace(quoteType))
	heading = strings.TrimSpace(heading)
	if heading == "" && quoteType != "" {
		heading = cases.Title(language.Und).String(quoteType)
	}
	return &Quote{base: base{line: line}, Lines: lines, Type: quoteType, Heading: heading, Depth: depth}
}

func (q *Quote) Kind() Kind          { return KindQuote }
func (q *Quote) Children() []Element { return q.Elements }

func (q *Quote) Latex(ctx *Context) (string, error) {
	content, err := RenderAll(ctx, q.Elements, "\n\n")
	if err != nil {
		return "", err
	}
	return q.wrap(ctx, content), nil
}

func (q *Quote) ProjectLatex(ctx *Context) (string, error) {
	content, err := RenderAllProject(ctx, q.Elements, "\n\n")
	if err != nil {
		return "", err
	}
	return q.wrap(ctx, content), nil
}

func (q *Quote) wrap(ctx *Context, content string) string {
	switch q.Type {
	case QuoteHidden, QuoteCaption:
		return ""
	case QuotePause:
		return `\pause`
	case QuoteText, QuoteSolution:
		return content
	case QuoteExample:
		return "\\begin{example}\n" + content + "\n\\end{example}"
	case QuoteTask:
		return "\\begin{breakableframe}\n" + content + "\n\\end{breakableframe}"
	}

	var b strings.Builder
	b.WriteString("\\begin{quote}\\slshape\\noindent\n")
	if q.Heading != "" {
		b.WriteString(`\textbf{` + ctx.RenderText(q.Heading) + "}\\par\n")
	}
	b.WriteString(content)
	b.WriteString("\n\\end{quote}")
	return b.String()
}
