package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/footnote"
)

// Finder locates included files. near is the directory of the including file.
type Finder interface {
	Find(name, near string) (string, error)
}

// Options controls which constructs are recognized and how deep nesting may go
type Options struct {
	MaxFileRecursion  int
	MaxQuoteRecursion int
	// PassIfNotFound skips inclusions of missing files instead of failing
	PassIfNotFound  bool
	MergeLists      bool
	ParseFiles      bool
	ParseImages     bool
	ParseQuotes     bool
	ParseHeadlines  bool
	ParseSplitLines bool
	ParseCaptions   bool
}

// DefaultOptions returns the default parser options
func DefaultOptions() Options {
	return Options{
		MaxFileRecursion:  5,
		MaxQuoteRecursion: 5,
		PassIfNotFound:    true,
		MergeLists:        true,
		ParseFiles:        true,
		ParseImages:       true,
		ParseQuotes:       true,
		ParseHeadlines:    true,
		ParseSplitLines:   true,
		ParseCaptions:     true,
	}
}

// Parser turns dialect Markdown into element trees. All render state it touches lives in
// the element.Context it was created with.
type Parser struct {
	ctx    *element.Context
	finder Finder
	opts   Options
}

// New creates a parser bound to a render context
func New(ctx *element.Context, finder Finder, opts Options) *Parser {
	return &Parser{ctx: ctx, finder: finder, opts: opts}
}

// Result is a parsed top-level document
type Result struct {
	Root        *element.File
	FrontMatter map[string]any
}

// Elements returns the top-level elements of the document
func (r *Result) Elements() []element.Element {
	return r.Root.Elements
}

// ParseFile locates name under the search root and parses it as the top-level document
func (p *Parser) ParseFile(name string) (*Result, error) {
	path, err := p.finder.Find(name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", name, err)
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := p.parseRoot(name, path, lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return res, nil
}

// ParseText parses in-memory text as the top-level document. dir is used to resolve
// relative inclusions and may be empty.
func (p *Parser) ParseText(name, dir, text string) (*Result, error) {
	path := ""
	if dir != "" {
		path = filepath.Join(dir, name)
	}
	res, err := p.parseRoot(name, path, splitLines(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return res, nil
}

func (p *Parser) parseRoot(name, path string, lines []string) (*Result, error) {
	root := element.NewFile(name, 0, 0)
	root.Path = path

	src := &source{
		name:     name,
		dir:      root.Dir(),
		lines:    lines,
		exchange: footnote.NewExchange(),
	}
	elements, fm, err := p.parse(src)
	if err != nil {
		return nil, err
	}

	root.Elements, err = p.normalize(elements, true)
	if err != nil {
		return nil, err
	}
	return &Result{Root: root, FrontMatter: fm}, nil
}

// source is one body of lines being parsed: a file, or the inside of a quote
type source struct {
	name       string
	dir        string
	lines      []string
	fileDepth  int
	quoteDepth int
	// lineOffset maps indices in lines back to the enclosing file
	lineOffset int
	exchange   *footnote.Exchange
}

// parse runs the rule table over src and returns the raw element sequence
func (p *Parser) parse(src *source) ([]element.Element, map[string]any, error) {
	r := &run{
		p:     p,
		src:   src,
		lines: slices.Clone(src.lines),
	}
	if err := r.exec(); err != nil {
		return nil, nil, err
	}
	return r.elements, r.frontMatter, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	return splitLines(string(data)), nil
}

func splitLines(text string) []string {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}
