package element

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies an element variant
type Kind int

const (
	KindParagraph Kind = iota
	KindHeadline
	KindEquation
	KindTable
	KindImage
	KindCodeBlock
	KindList
	KindQuote
	KindFile
	KindReference
	KindCaption
	KindSplit
	KindFrame
)

var kindNames = map[Kind]string{
	KindParagraph: "paragraph",
	KindHeadline:  "headline",
	KindEquation:  "equation",
	KindTable:     "table",
	KindImage:     "image",
	KindCodeBlock: "codeblock",
	KindList:      "list",
	KindQuote:     "quote",
	KindFile:      "file",
	KindReference: "reference",
	KindCaption:   "caption",
	KindSplit:     "split",
	KindFrame:     "frame",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrNotIdentified is returned when a referenceable element is rendered before
// reference identification ran over it.
var ErrNotIdentified = errors.New("element rendered before reference identification")

// Element is one structural unit of a parsed document.
// The set of implementations is closed: only types in this package satisfy it.
type Element interface {
	Kind() Kind
	// Line is the source line index the element started on
	Line() int
	SetLine(line int)
	Ref() string
	SetRef(ref string)
	Caption() string
	SetCaption(caption string)
	// Latex renders the element for a single-file document
	Latex(ctx *Context) (string, error)
	// ProjectLatex renders the element for a multi-file project export
	ProjectLatex(ctx *Context) (string, error)

	element()
}

// Referenceable elements can be targets of in-text cross-references
type Referenceable interface {
	Element
	// Identify registers the element's reference with the context's symbol table
	Identify(ctx *Context)
	Identified() bool
}

// Container elements own an ordered list of child elements
type Container interface {
	Element
	Children() []Element
}

type base struct {
	line    int
	ref     string
	caption string
}

func (b *base) Line() int                 { return b.line }
func (b *base) SetLine(line int)          { b.line = line }
func (b *base) Ref() string               { return b.ref }
func (b *base) SetRef(ref string)         { b.ref = ref }
func (b *base) Caption() string           { return b.caption }
func (b *base) SetCaption(caption string) { b.caption = caption }
func (b *base) element()                  {}

// referenceable holds the identification state shared by referenceable elements
type referenceable struct {
	identified bool
}

func (r *referenceable) Identified() bool { return r.identified }

func (r *referenceable) check(kind Kind, line int) error {
	if !r.identified {
		return fmt.Errorf("%s at line %d: %w", kind, line, ErrNotIdentified)
	}
	return nil
}

// IsMarker reports whether el is an ephemeral marker removed by normalization
func IsMarker(el Element) bool {
	switch el.(type) {
	case *Reference, *CaptionMarker:
		return true
	}
	return false
}

// RenderAll renders elements in order and joins the non-empty results with sep
func RenderAll(ctx *Context, elements []Element, sep string) (string, error) {
	return renderAll(ctx, elements, sep, false)
}

// RenderAllProject is RenderAll for project exports
func RenderAllProject(ctx *Context, elements []Element, sep string) (string, error) {
	return renderAll(ctx, elements, sep, true)
}

func renderAll(ctx *Context, elements []Element, sep string, project bool) (string, error) {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		var (
			out string
			err error
		)
		if project {
			out, err = el.ProjectLatex(ctx)
		} else {
			out, err = el.Latex(ctx)
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			continue
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, sep), nil
}

// Walk calls fn for every element in the tree rooted at elements, depth first.
// depth is the nesting depth below the given slice.
func Walk(elements []Element, fn func(el Element, depth int)) {
	walk(elements, 0, fn)
}

func walk(elements []Element, depth int, fn func(Element, int)) {
	for _, el := range elements {
		fn(el, depth)
		if c, ok := el.(Container); ok {
			walk(c.Children(), depth+1, fn)
		}
	}
}
