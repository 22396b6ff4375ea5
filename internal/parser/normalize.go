package parser

import (
	"github.com/gerunddev/omd2tex/internal/element"
)

// normalize runs the post-parse passes. Identification and slide splitting only run on
// the top-level document so the whole inclusion tree sees one heading alignment.
func (p *Parser) normalize(elements []element.Element, top bool) ([]element.Element, error) {
	elements = AttachReferences(elements)
	elements = AttachCaptions(elements)

	if p.opts.MergeLists {
		var err error
		if elements, err = GroupLists(elements); err != nil {
			return nil, err
		}
		if elements, err = MergeLists(elements); err != nil {
			return nil, err
		}
	}

	if top {
		Identify(p.ctx, elements)
	}
	if top && p.ctx.Slides() {
		elements = SplitFrames(elements)
	}
	return elements, nil
}

// AttachReferences binds every reference marker to the nearest preceding real element,
// later markers overwriting earlier ones. Markers before any real element bind to the
// next one. The markers are removed.
func AttachReferences(elements []element.Element) []element.Element {
	return attach(elements,
		func(el element.Element) (string, bool) {
			ref, ok := el.(*element.Reference)
			if !ok {
				return "", false
			}
			return ref.Name, true
		},
		element.Element.SetRef,
	)
}

// AttachCaptions binds caption markers the same way AttachReferences binds references
func AttachCaptions(elements []element.Element) []element.Element {
	return attach(elements,
		func(el element.Element) (string, bool) {
			c, ok := el.(*element.CaptionMarker)
			if !ok {
				return "", false
			}
			return c.Text, true
		},
		element.Element.SetCaption,
	)
}

func attach(
	elements []element.Element,
	marker func(element.Element) (string, bool),
	set func(element.Element, string),
) []element.Element {
	out := make([]element.Element, 0, len(elements))
	pending, hasPending := "", false

	for _, el := range elements {
		value, ok := marker(el)
		if !ok {
			if hasPending && !element.IsMarker(el) {
				set(el, pending)
				hasPending = false
			}
			out = append(out, el)
			continue
		}

		if target := lastReal(out); target != nil {
			set(target, value)
		} else {
			pending, hasPending = value, true
		}
	}
	return out
}

func lastReal(elements []element.Element) element.Element {
	for i := len(elements) - 1; i >= 0; i-- {
		if !element.IsMarker(elements[i]) {
			return elements[i]
		}
	}
	return nil
}

// Identify registers every referenceable element in the tree, including the contents of
// included files and quotes. Running it twice yields the same table.
func Identify(ctx *element.Context, elements []element.Element) {
	element.Walk(elements, func(el element.Element, _ int) {
		if r, ok := el.(element.Referenceable); ok {
			r.Identify(ctx)
		}
	})
}

// GroupLists folds maximal runs of list items with the same style and depth into the
// first item of each run
func GroupLists(elements []element.Element) ([]element.Element, error) {
	out := make([]element.Element, 0, len(elements))
	for i := 0; i < len(elements); {
		head, ok := elements[i].(*element.List)
		if !ok {
			out = append(out, elements[i])
			i++
			continue
		}

		j := i + 1
		for ; j < len(elements); j++ {
			next, ok := elements[j].(*element.List)
			if !ok || next.Style != head.Style || next.Depth != head.Depth {
				break
			}
			if err := head.Append(next); err != nil {
				return nil, err
			}
		}
		out = append(out, head)
		i = j
	}
	return out, nil
}

// MergeLists nests list items that are deeper than the list before them
func MergeLists(elements []element.Element) ([]element.Element, error) {
	out := make([]element.Element, 0, len(elements))
	for i := 0; i < len(elements); {
		head, ok := elements[i].(*element.List)
		if !ok {
			out = append(out, elements[i])
			i++
			continue
		}

		next, err := absorb(head, elements, i+1)
		if err != nil {
			return nil, err
		}
		out = append(out, head)
		i = next
	}
	return out, nil
}

// absorb merges the deeper lists starting at elements[j] into parent and returns the
// index of the first element that does not belong to it
func absorb(parent *element.List, elements []element.Element, j int) (int, error) {
	for j < len(elements) {
		child, ok := elements[j].(*element.List)
		if !ok || child.Depth <= parent.Depth {
			break
		}

		next, err := absorb(child, elements, j+1)
		if err != nil {
			return 0, err
		}
		if err := parent.Merge(child); err != nil {
			return 0, err
		}
		j = next
	}
	return j, nil
}

// SplitFrames cuts the document into beamer frames at split markers. A marker's text
// titles the frame that follows it.
func SplitFrames(elements []element.Element) []element.Element {
	var (
		frames  []element.Element
		current []element.Element
		title   string
		line    int
		lineSet bool
	)
	flush := func() {
		if len(current) > 0 {
			frames = append(frames, element.NewFrame(title, current, line))
			current = nil
			lineSet = false
		}
	}

	for _, el := range elements {
		if split, ok := el.(*element.Split); ok {
			flush()
			title = split.Text
			line = split.Line()
			lineSet = true
			continue
		}
		if !lineSet {
			line = el.Line()
			lineSet = true
		}
		current = append(current, el)
	}
	flush()
	return frames
}
