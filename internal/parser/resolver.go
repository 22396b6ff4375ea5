package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/footnote"
	"github.com/gerunddev/omd2tex/internal/search"
)

// includeFile locates, reads and parses an included note one file level deeper.
// It returns nil without error when a missing file is skipped.
func (r *run) includeFile(name string) (*element.File, error) {
	depth := r.src.fileDepth
	if depth >= r.p.opts.MaxFileRecursion {
		return nil, &RecursionError{
			Kind:  FileRecursion,
			Name:  r.src.name,
			Line:  r.line(),
			Depth: depth + 1,
			Limit: r.p.opts.MaxFileRecursion,
		}
	}

	path, err := r.p.finder.Find(name, r.src.dir)
	if err != nil {
		if errors.Is(err, search.ErrNotFound) && r.p.opts.PassIfNotFound {
			r.p.ctx.Log.FileMissing(name, r.src.name, r.line())
			return nil, nil
		}
		return nil, &MissingFileError{Name: name, From: r.src.name, Line: r.line(), Err: err}
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, &MissingFileError{Name: name, From: r.src.name, Line: r.line(), Err: err}
	}
	r.p.ctx.Log.FileIncluded(name, path, depth+1)

	file := element.NewFile(name, depth+1, r.line())
	file.Path = path

	elements, _, err := r.p.parse(&source{
		name:      filepath.Base(path),
		dir:       filepath.Dir(path),
		lines:     lines,
		fileDepth: depth + 1,
		exchange:  footnote.NewExchange(),
	})
	if err != nil {
		return nil, err
	}

	file.Elements, err = r.p.normalize(elements, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return file, nil
}

// includeQuote parses the body of a block quote one quote level deeper.
// A [!caption] callout becomes a caption marker instead of a quote.
func (r *run) includeQuote(body []string, line int) (element.Element, error) {
	depth := r.src.quoteDepth
	if depth >= r.p.opts.MaxQuoteRecursion {
		return nil, &RecursionError{
			Kind:  QuoteRecursion,
			Name:  r.src.name,
			Line:  line,
			Depth: depth + 1,
			Limit: r.p.opts.MaxQuoteRecursion,
		}
	}

	quoteType, heading := "", ""
	offset := line
	if len(body) > 0 {
		if m := calloutPattern.FindStringSubmatch(body[0]); m != nil {
			quoteType, heading = m[1], m[2]
			body = body[1:]
			offset++
		}
	}

	if strings.EqualFold(quoteType, element.QuoteCaption) {
		if !r.p.opts.ParseCaptions {
			return nil, nil
		}
		return element.NewCaptionMarker(joinTrimmed(append([]string{heading}, body...)), line), nil
	}

	quote := element.NewQuote(body, quoteType, heading, depth+1, line)

	elements, _, err := r.p.parse(&source{
		name:       r.src.name,
		dir:        r.src.dir,
		lines:      body,
		fileDepth:  r.src.fileDepth,
		quoteDepth: depth + 1,
		lineOffset: offset,
		exchange:   r.src.exchange,
	})
	if err != nil {
		return nil, err
	}

	quote.Elements, err = r.p.normalize(elements, false)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
