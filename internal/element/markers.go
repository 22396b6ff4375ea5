package element

import "fmt"

// Reference is a standalone "^id" line. It names the element before it and is removed
// during normalization.
type Reference struct {
	base
	Name string
}

// NewReference creates a reference marker
func NewReference(name string, line int) *Reference {
	return &Reference{base: base{line: line}, Name: name}
}

func (r *Reference) Kind() Kind                                { return KindReference }
func (r *Reference) Latex(*Context) (string, error)            { return "", nil }
func (r *Reference) ProjectLatex(ctx *Context) (string, error) { return "", nil }

// CaptionMarker carries caption text for the element before it and is removed during
// normalization.
type CaptionMarker struct {
	base
	Text string
}

// NewCaptionMarker creates a caption marker
func NewCaptionMarker(text string, line int) *CaptionMarker {
	return &CaptionMarker{base: base{line: line}, Text: text}
}

func (c *CaptionMarker) Kind() Kind                                { return KindCaption }
func (c *CaptionMarker) Latex(*Context) (string, error)            { return "", nil }
func (c *CaptionMarker) ProjectLatex(ctx *Context) (string, error) { return "", nil }

// Split is a "---" divider. In slide mode it starts a new frame titled by Text.
type Split struct {
	base
	Text string
}

// NewSplit creates a divider with an optional annotation
func NewSplit(text string, line int) *Split {
	return &Split{base: base{line: line}, Text: text}
}

func (s *Split) Kind() Kind { return KindSplit }

func (s *Split) Latex(ctx *Context) (string, error) {
	out := fmt.Sprintf(`\noindent\rule{\textwidth}{%s}`, ctx.Options.SplitLineWidth)
	if s.Text != "" {
		out += " %" + s.Text
	}
	return out, nil
}

func (s *Split) ProjectLatex(ctx *Context) (string, error) {
	return s.Latex(ctx)
}
