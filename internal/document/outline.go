package document

import (
	"github.com/gerunddev/omd2tex/internal/element"
)

// Entry is one element of a rendered document's tree together with its own LaTeX
type Entry struct {
	Element element.Element
	Depth   int
	Latex   string
	Err     error
}

// outline renders every element of the tree separately. It runs on the render's
// context before it is reset so references still resolve; project output is never
// written from here.
func outline(ctx *element.Context, elements []element.Element) []Entry {
	var entries []Entry
	element.Walk(elements, func(el element.Element, depth int) {
		out, err := el.Latex(ctx)
		entries = append(entries, Entry{
			Element: el,
			Depth:   depth,
			Latex:   out,
			Err:     err,
		})
	})
	return entries
}
