package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/frontmatter"
	"github.com/gerunddev/omd2tex/internal/logger"
	"github.com/gerunddev/omd2tex/internal/parser"
	"github.com/gerunddev/omd2tex/internal/symbols"
)

// Options controls a whole-document render
type Options struct {
	Parser   parser.Options
	Render   element.Options
	Preamble PreambleOptions
	// ParseFrontMatter lets a note's front matter override the document settings
	ParseFrontMatter bool
	// CreatePreamble wraps the body in a complete document with preamble
	CreatePreamble bool
	Makefile       bool
	// Outline additionally renders every element on its own into Result.Outline
	Outline bool
}

// DefaultOptions returns the default document options
func DefaultOptions() Options {
	return Options{
		Parser:           parser.DefaultOptions(),
		Render:           element.DefaultOptions(),
		Preamble:         DefaultPreambleOptions(),
		ParseFrontMatter: true,
		CreatePreamble:   true,
		Makefile:         true,
	}
}

// Result is one rendered document
type Result struct {
	Name        string
	Tex         string
	Body        string
	Makefile    string
	Elements    []element.Element
	FrontMatter map[string]any
	// References is the symbol table as it stood when rendering finished
	References map[string]symbols.Kind
	Unresolved []string
	Citations  []string
	// Sources lists the root file and every included file
	Sources []string
	Outline []Entry
}

// Renderer renders notes into LaTeX documents
type Renderer struct {
	finder parser.Finder
	opts   Options
	log    *logger.Logger
}

// NewRenderer creates a renderer that resolves notes with finder
func NewRenderer(finder parser.Finder, opts Options, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Discard()
	}
	return &Renderer{finder: finder, opts: opts, log: log}
}

// Options returns the renderer options
func (r *Renderer) Options() Options {
	return r.opts
}

// RenderFile locates name and renders it with its inclusions. A name without an
// extension refers to a Markdown note.
func (r *Renderer) RenderFile(name string) (*Result, error) {
	if filepath.Ext(name) == "" {
		name += ".md"
	}
	path, err := r.finder.Find(name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s: %w", name, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.render(filepath.Base(path), path, string(data))
}

// RenderText renders in-memory note text. Inclusions resolve through the search root.
func (r *Renderer) RenderText(name, text string) (*Result, error) {
	return r.render(name, "", text)
}

func (r *Renderer) render(name, path, text string) (*Result, error) {
	start := time.Now()
	opts := r.opts
	text = strings.TrimPrefix(text, "\ufeff")

	var fm map[string]any
	if opts.ParseFrontMatter {
		var err error
		fm, _, err = frontmatter.Extract(strings.Split(text, "\n"))
		if err != nil {
			r.log.Warn("ignoring malformed front matter", "document", name, "error", err)
		}
		applyFrontMatter(&opts, fm)
	}

	r.log.RenderStarted(name, filepath.Dir(path))

	ctx := element.NewContext(opts.Render, r.log)
	defer ctx.Reset()

	p := parser.New(ctx, r.finder, opts.Parser)
	dir := ""
	if path != "" {
		dir = filepath.Dir(path)
	}
	parsed, err := p.ParseText(name, dir, text)
	if err != nil {
		r.log.FileError(name, err)
		return nil, err
	}
	if !opts.ParseFrontMatter {
		parsed.FrontMatter = nil
	}

	var body string
	if opts.Render.ProjectDir != "" {
		body, err = parsed.Root.ProjectLatex(ctx)
	} else {
		body, err = parsed.Root.Latex(ctx)
	}
	if err != nil {
		r.log.FileError(name, err)
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	res := &Result{
		Name:        strings.TrimSuffix(name, filepath.Ext(name)),
		Body:        body,
		Elements:    parsed.Elements(),
		FrontMatter: parsed.FrontMatter,
		References:  ctx.Symbols.Snapshot(),
		Unresolved:  append([]string(nil), ctx.Unresolved()...),
		Citations:   append([]string(nil), ctx.Citations()...),
		Sources:     sources(path, parsed.Elements()),
	}

	if opts.CreatePreamble {
		res.Tex = assemble(ctx, opts.Preamble, r.bibliography(res.Citations), body)
	} else {
		res.Tex = body
	}
	if opts.Makefile {
		res.Makefile = Makefile(res.Name, len(res.Citations) > 0, len(res.References) > 0)
	}
	if opts.Outline {
		res.Outline = outline(ctx, res.Elements)
	}

	r.log.RenderCompleted(name, len(res.Elements), len(res.References), time.Since(start))
	return res, nil
}

// applyFrontMatter lets a note choose its document class, title block and numbering
func applyFrontMatter(opts *Options, fm map[string]any) {
	if class, ok := frontmatter.String(fm, "documentclass"); ok && class != "" {
		opts.Render.DocumentClass = strings.ToLower(class)
	}
	if title, ok := frontmatter.String(fm, "title"); ok {
		opts.Preamble.Title = title
	}
	if author, ok := frontmatter.String(fm, "author"); ok {
		opts.Preamble.Author = author
	}
	if date, ok := frontmatter.String(fm, "date"); ok {
		opts.Preamble.Date = date
	}
	if numeration, ok := frontmatter.Bool(fm, "numeration"); ok {
		opts.Render.Numeration = numeration
	}
}

func assemble(ctx *element.Context, opts PreambleOptions, bibliography, body string) string {
	var b strings.Builder
	b.WriteString(buildPreamble(ctx, opts))
	if bibliography != "" {
		b.WriteString("\n" + bibliography + "\n")
	}
	b.WriteString("\n\\begin{document}\n")
	if opts.hasTitle() {
		if ctx.Slides() {
			b.WriteString("\\frame{\\titlepage}\n")
		} else {
			b.WriteString("\\maketitle\n")
		}
	}
	b.WriteString("\n" + body + "\n")
	if len(ctx.Citations()) > 0 {
		b.WriteString("\n\\newpage\\printbibliography\n")
	}
	b.WriteString("\n\\end{document}\n")
	return b.String()
}

// sources returns the root path followed by every included file path, without repeats
func sources(root string, elements []element.Element) []string {
	var out []string
	seen := map[string]bool{}
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}
	add(root)
	element.Walk(elements, func(el element.Element, _ int) {
		if f, ok := el.(*element.File); ok {
			add(f.Path)
		}
	})
	return out
}

// IsRecursion reports whether err was caused by exceeding a nesting limit
func IsRecursion(err error) bool {
	return errors.Is(err, parser.ErrRecursion)
}
