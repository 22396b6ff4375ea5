package element

// Paragraph is a single line of running text
type Paragraph struct {
	base
	Text string
	// Raw paragraphs are emitted verbatim without inline processing
	Raw bool
}

// NewParagraph creates a paragraph for text found on line
func NewParagraph(text string, line int) *Paragraph {
	return &Paragraph{base: base{line: line}, Text: text}
}

func (p *Paragraph) Kind() Kind { return KindParagraph }

func (p *Paragraph) Latex(ctx *Context) (string, error) {
	if p.Raw {
		return p.Text, nil
	}
	return ctx.RenderText(p.Text), nil
}

func (p *Paragraph) ProjectLatex(ctx *Context) (string, error) {
	return p.Latex(ctx)
}
