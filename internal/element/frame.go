package element

import "fmt"

// Frame is one beamer slide built from the elements between two dividers
type Frame struct {
	base
	Title    string
	Elements []Element
}

// NewFrame creates a slide
func NewFrame(title string, elements []Element, line int) *Frame {
	return &Frame{base: base{line: line}, Title: title, Elements: elements}
}

func (f *Frame) Kind() Kind          { return KindFrame }
func (f *Frame) Children() []Element { return f.Elements }

func (f *Frame) Latex(ctx *Context) (string, error) {
	body, err := RenderAll(ctx, f.Elements, "\n")
	if err != nil {
		return "", err
	}
	return f.wrap(ctx, body), nil
}

func (f *Frame) ProjectLatex(ctx *Context) (string, error) {
	body, err := RenderAllProject(ctx, f.Elements, "\n")
	if err != nil {
		return "", err
	}
	return f.wrap(ctx, body), nil
}

func (f *Frame) wrap(ctx *Context, body string) string {
	options := ""
	if f.fragile() {
		options = "[fragile]"
	}
	return fmt.Sprintf("\\begin{frame}%s{%s}\n%s\n\\end{frame}", options, ctx.RenderText(f.Title), body)
}

// fragile reports whether the frame holds verbatim content
func (f *Frame) fragile() bool {
	for _, el := range f.Elements {
		if _, ok := el.(*CodeBlock); ok {
			return true
		}
	}
	return false
}
