package element

import (
	"slices"

	"github.com/gerunddev/omd2tex/internal/footnote"
	"github.com/gerunddev/omd2tex/internal/logger"
	"github.com/gerunddev/omd2tex/internal/symbols"
)

const (
	Article = "article"
	Beamer  = "beamer"
)

// Options controls how elements are rendered
type Options struct {
	DocumentClass    string
	Numeration       bool
	GlobalLevelAlign bool
	CleanHighlight   bool
	CleanNumeration  bool
	ListItemSep      string
	SplitLineWidth   string
	ImageWidth       string
	ImageHeight      string
	AspectBorders    [2]float64
	// ProjectDir is where ProjectLatex writes included files and copies images
	ProjectDir string
}

// DefaultOptions returns the rendering defaults
func DefaultOptions() Options {
	return Options{
		DocumentClass:    Article,
		Numeration:       true,
		GlobalLevelAlign: true,
		ListItemSep:      "0pt",
		SplitLineWidth:   "0.5pt",
		ImageWidth:       "8cm",
		ImageHeight:      "8cm",
		AspectBorders:    [2]float64{0.6, 1.8},
	}
}

// Context carries all mutable state of one render: the symbol table, the footnote
// collection and what rendering collects for the preamble. A Context must not be shared
// between concurrent renders.
type Context struct {
	Symbols   *symbols.Table
	Footnotes *footnote.Collection
	Options   Options
	Log       *logger.Logger

	preamble   []string
	citations  []string
	unresolved []string
	minted     bool
	inFootnote bool
}

// NewContext creates a fresh render context
func NewContext(opts Options, log *logger.Logger) *Context {
	if log == nil {
		log = logger.Discard()
	}
	return &Context{
		Symbols:   symbols.New(),
		Footnotes: footnote.NewCollection(),
		Options:   opts,
		Log:       log,
	}
}

// Slides reports whether the document is rendered as a beamer presentation
func (c *Context) Slides() bool {
	return c.Options.DocumentClass == Beamer
}

// AddPreamble records raw preamble commands collected from the document body
func (c *Context) AddPreamble(commands string) {
	c.preamble = append(c.preamble, commands)
}

// Preamble returns the collected preamble commands in document order
func (c *Context) Preamble() []string {
	return c.preamble
}

// Citations returns the cited keys in first-use order
func (c *Context) Citations() []string {
	return c.citations
}

// Unresolved returns in-text references that had no registered target
func (c *Context) Unresolved() []string {
	return c.unresolved
}

// UsesMinted reports whether a rendered code block needs the minted package
func (c *Context) UsesMinted() bool {
	return c.minted
}

func (c *Context) cite(key string) {
	if !slices.Contains(c.citations, key) {
		c.citations = append(c.citations, key)
	}
}

func (c *Context) unresolvedRef(ref string) {
	c.Log.UnresolvedReference(ref)
	if !slices.Contains(c.unresolved, ref) {
		c.unresolved = append(c.unresolved, ref)
	}
}

// Reset clears all per-render state
func (c *Context) Reset() {
	c.Symbols.Reset()
	c.Footnotes.Reset()
	c.preamble = nil
	c.citations = nil
	c.unresolved = nil
	c.minted = false
	c.inFootnote = false
}
