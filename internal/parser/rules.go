package parser

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gerunddev/omd2tex/internal/element"
	"github.com/gerunddev/omd2tex/internal/footnote"
	"github.com/gerunddev/omd2tex/internal/frontmatter"
)

var (
	singleEquationPattern = regexp.MustCompile(`^\$\$(.*?)\$\$\s*(?:\^([A-Za-z0-9_-]+))?$`)
	closeEquationPattern  = regexp.MustCompile(`^(.*?)\$\$\s*(?:\^([A-Za-z0-9_-]+))?$`)
	splitPattern          = regexp.MustCompile(`^-{3,}\s*(.*)$`)
	listRefPattern        = regexp.MustCompile(`\s*\^([A-Za-z0-9]{6})$`)
	enumeratePattern      = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	checkPattern          = regexp.MustCompile(`^[-*+] \[([ xX])\]\s+(.*)$`)
	bulletPattern         = regexp.MustCompile(`^[-*+]\s+(.+)$`)
	markdownImagePattern  = regexp.MustCompile(`^!\[([^\]]*)\]\(<?([^)>]+?)>?(?:\s+"([^"]*)")?\)(?:\s*\^([A-Za-z0-9_-]+))?$`)
	wikiImagePattern      = regexp.MustCompile(`^!\[\[([^\]]+)\]\](?:\s*\^([A-Za-z0-9_-]+))?$`)
	sizePattern           = regexp.MustCompile(`^(\d+)(?:x(\d+))?$`)
	wikiFilePattern       = regexp.MustCompile(`^!?\[\[([^\]|]*)(?:\|([^\]]*))?\]\]$`)
	markdownFilePattern   = regexp.MustCompile(`^!?\[([^\]]*)\]\(<?([^)>]+)>?\)$`)
	referencePattern      = regexp.MustCompile(`^\^([A-Za-z0-9_-]+)$`)
	calloutPattern        = regexp.MustCompile(`^\[!([^\]]+)\][+-]?\s*(.*)$`)
	headlinePattern       = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	blockIDPattern        = regexp.MustCompile(`^(.*?)\s+\^([A-Za-z0-9_-]+)$`)
)

// documentExtensions are parsed when included; anything without an extension is a note
var documentExtensions = map[string]bool{".md": true, ".tex": true, ".txt": true}

// attachmentExtensions are linked files that cannot be included as text
var attachmentExtensions = map[string]bool{
	".docx": true, ".pdf": true, ".xlsx": true, ".pptx": true,
	".zip": true, ".tar": true, ".gz": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
}

type rule struct {
	name  string
	apply func(line string) (bool, error)
}

// RuleNames returns the parse rules in the order they are tried on each line
func RuleNames() []string {
	var names []string
	for _, rl := range (&run{}).rules() {
		names = append(names, rl.name)
	}
	return names
}

// openBlock accumulates the lines of a fenced code block or display equation
type openBlock struct {
	lang  string
	lines []string
	start int
}

// run is the state of a single pass over one source
type run struct {
	p     *Parser
	src   *source
	lines []string
	pos   int

	elements    []element.Element
	frontMatter map[string]any

	code *openBlock
	math *openBlock
}

func (r *run) rules() []rule {
	return []rule{
		{"frontmatter", r.frontMatterRule},
		{"codeblock", r.codeBlockRule},
		{"equation", r.equationRule},
		{"blank", r.blankRule},
		{"footnote", r.footnoteRule},
		{"split", r.splitRule},
		{"list", r.listRule},
		{"image", r.imageRule},
		{"file", r.fileRule},
		{"reference", r.referenceRule},
		{"table", r.tableRule},
		{"quote", r.quoteRule},
		{"headline", r.headlineRule},
		{"paragraph", r.paragraphRule},
	}
}

func (r *run) exec() error {
	rules := r.rules()
	for r.pos < len(r.lines) {
		handled := false
		for _, rl := range rules {
			ok, err := rl.apply(r.lines[r.pos])
			if err != nil {
				return err
			}
			if ok {
				handled = true
				break
			}
		}
		if !handled {
			r.pos++
		}
	}

	if r.code != nil {
		r.closeCode()
	}
	if r.math != nil {
		r.closeMath("")
	}
	return nil
}

// line is the current position as a line index of the enclosing file
func (r *run) line() int {
	return r.src.lineOffset + r.pos
}

func (r *run) emit(el element.Element) {
	r.elements = append(r.elements, el)
}

func (r *run) frontMatterRule(line string) (bool, error) {
	if r.pos != 0 || r.src.quoteDepth > 0 {
		return false, nil
	}
	fm, end, err := frontmatter.Extract(r.lines)
	if end == 0 {
		return false, nil
	}
	if err != nil {
		r.p.ctx.Log.Warn("ignoring malformed front matter", "file", r.src.name, "error", err)
	}
	r.frontMatter = fm
	r.pos = end
	return true, nil
}

func (r *run) codeBlockRule(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if r.code == nil {
		if !strings.HasPrefix(trimmed, "```") {
			return false, nil
		}
		lang := ""
		if fields := strings.Fields(trimmed[3:]); len(fields) > 0 {
			lang = fields[0]
		}
		r.code = &openBlock{lang: lang, start: r.line()}
		r.pos++
		return true, nil
	}

	if strings.HasPrefix(trimmed, "```") {
		r.closeCode()
	} else {
		r.code.lines = append(r.code.lines, line)
	}
	r.pos++
	return true, nil
}

func (r *run) closeCode() {
	block := r.code
	r.code = nil
	if len(block.lines) == 0 {
		return
	}
	if strings.EqualFold(block.lang, "caption") {
		if r.p.opts.ParseCaptions {
			r.emit(element.NewCaptionMarker(joinTrimmed(block.lines), block.start))
		}
		return
	}
	r.emit(element.NewCodeBlock(block.lang, block.lines, block.start))
}

func (r *run) equationRule(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if r.math == nil {
		if !strings.HasPrefix(trimmed, "$$") {
			return false, nil
		}
		if m := singleEquationPattern.FindStringSubmatch(trimmed); m != nil {
			if strings.TrimSpace(m[1]) == "" {
				r.p.ctx.Log.Skipped(r.src.name+":"+strconv.Itoa(r.line()), "empty equation")
				r.pos++
				return true, nil
			}
			eq := element.NewEquation(m[1], r.line())
			eq.SetRef(m[2])
			r.emit(eq)
			r.pos++
			return true, nil
		}
		r.math = &openBlock{start: r.line()}
		if rest := strings.TrimSpace(trimmed[2:]); rest != "" {
			r.math.lines = append(r.math.lines, rest)
		}
		r.pos++
		return true, nil
	}

	switch {
	case trimmed == "":
		// display math cannot contain paragraph breaks
	case strings.Contains(trimmed, "$$"):
		m := closeEquationPattern.FindStringSubmatch(trimmed)
		if m == nil {
			r.math.lines = append(r.math.lines, line)
			break
		}
		if body := strings.TrimSpace(m[1]); body != "" {
			r.math.lines = append(r.math.lines, body)
		}
		r.closeMath(m[2])
	default:
		r.math.lines = append(r.math.lines, line)
	}
	r.pos++
	return true, nil
}

func (r *run) closeMath(ref string) {
	block := r.math
	r.math = nil
	body := strings.Join(block.lines, "\n")
	if strings.TrimSpace(body) == "" {
		return
	}
	eq := element.NewEquation(body, block.start)
	eq.SetRef(ref)
	r.emit(eq)
}

func (r *run) blankRule(line string) (bool, error) {
	if strings.TrimSpace(line) != "" {
		return false, nil
	}
	r.pos++
	return true, nil
}

func (r *run) footnoteRule(line string) (bool, error) {
	rewritten := r.src.exchange.Rewrite(line)
	r.lines[r.pos] = rewritten

	key, text, ok := footnote.ParseDefinition(rewritten)
	if !ok {
		return false, nil
	}
	r.p.ctx.Footnotes.Add(key, text)
	r.pos++
	return true, nil
}

func (r *run) splitRule(line string) (bool, error) {
	if !r.p.opts.ParseSplitLines {
		return false, nil
	}
	m := splitPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false, nil
	}
	r.emit(element.NewSplit(strings.TrimSpace(m[1]), r.line()))
	r.pos++
	return true, nil
}

func (r *run) listRule(line string) (bool, error) {
	body := strings.TrimSpace(line)
	depth := indentDepth(line)

	ref := ""
	if m := listRefPattern.FindStringSubmatch(body); m != nil {
		ref = m[1]
	}
	strip := func(text string) string {
		if ref == "" {
			return text
		}
		return strings.TrimSpace(listRefPattern.ReplaceAllString(text, ""))
	}

	var item *element.List
	if m := enumeratePattern.FindStringSubmatch(body); m != nil {
		item = element.NewList(element.Enumerate, strip(m[2]), depth, r.line())
		item.Number, _ = strconv.Atoi(m[1])
	} else if m := checkPattern.FindStringSubmatch(body); m != nil {
		item = element.NewList(element.Check, strip(m[2]), depth, r.line())
		item.Complete = m[1] != " "
	} else if m := bulletPattern.FindStringSubmatch(body); m != nil {
		item = element.NewList(element.Bullet, strip(m[1]), depth, r.line())
	} else {
		return false, nil
	}

	item.SetRef(ref)
	r.emit(item)
	r.pos++
	return true, nil
}

func (r *run) imageRule(line string) (bool, error) {
	if !r.p.opts.ParseImages {
		return false, nil
	}
	trimmed := strings.TrimSpace(line)

	var (
		img  *element.Image
		size string
	)
	if m := markdownImagePattern.FindStringSubmatch(trimmed); m != nil {
		target := unescapePath(m[2])
		if !element.IsImageFile(target) {
			return false, nil
		}
		alt := m[1]
		if before, after, ok := strings.Cut(alt, "|"); ok {
			alt, size = before, after
		} else if sizePattern.MatchString(strings.TrimSpace(m[3])) {
			size = m[3]
		}
		img = r.newImage(target)
		img.Alt = strings.TrimSpace(alt)
		img.SetCaption(img.Alt)
		img.SetRef(m[4])
	} else if m := wikiImagePattern.FindStringSubmatch(trimmed); m != nil {
		parts := strings.Split(m[1], "|")
		target := strings.TrimSpace(parts[0])
		if !element.IsImageFile(target) {
			return false, nil
		}
		img = r.newImage(target)
		for _, param := range parts[1:] {
			param = strings.TrimSpace(param)
			switch {
			case size == "" && sizePattern.MatchString(param):
				size = param
			case img.Caption() == "" && param != "":
				img.SetCaption(param)
			}
		}
		img.SetRef(m[2])
	} else {
		return false, nil
	}

	img.Width, img.Height = parseSize(size)
	r.emit(img)
	r.pos++
	return true, nil
}

func (r *run) newImage(target string) *element.Image {
	path, err := r.p.finder.Find(target, r.src.dir)
	if err != nil {
		r.p.ctx.Log.Warn("image not found", "name", target, "from", r.src.name, "line", r.line())
		path = ""
	}
	return element.NewImage(target, path, r.line())
}

func (r *run) fileRule(line string) (bool, error) {
	if !r.p.opts.ParseFiles {
		return false, nil
	}
	trimmed := strings.TrimSpace(line)

	var target string
	if m := wikiFilePattern.FindStringSubmatch(trimmed); m != nil {
		target = m[1]
	} else if m := markdownFilePattern.FindStringSubmatch(trimmed); m != nil {
		target = unescapePath(m[2])
	} else {
		return false, nil
	}

	name, _, _ := strings.Cut(target, "#")
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(name, "@") || strings.Contains(name, "://") || strings.HasPrefix(name, "mailto:") {
		return false, nil
	}

	ext := strings.ToLower(filepath.Ext(name))
	if attachmentExtensions[ext] || element.IsImageFile(name) {
		r.p.ctx.Log.Skipped(name, "attachment cannot be included")
		r.pos++
		return true, nil
	}
	if !documentExtensions[ext] {
		name += ".md"
	}

	file, err := r.includeFile(name)
	if err != nil {
		return false, err
	}
	if file != nil {
		r.emit(file)
	}
	r.pos++
	return true, nil
}

func (r *run) referenceRule(line string) (bool, error) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false, nil
	}
	r.emit(element.NewReference(m[1], r.line()))
	r.pos++
	return true, nil
}

func (r *run) tableRule(line string) (bool, error) {
	if !strings.HasPrefix(strings.TrimSpace(line), "|") {
		return false, nil
	}

	start := r.pos
	for r.pos < len(r.lines) && strings.HasPrefix(strings.TrimSpace(r.lines[r.pos]), "|") {
		r.lines[r.pos] = r.src.exchange.Rewrite(r.lines[r.pos])
		r.pos++
	}
	if r.pos-start < 2 {
		r.p.ctx.Log.Skipped(r.src.name+":"+strconv.Itoa(r.src.lineOffset+start), "table needs at least two rows")
		return true, nil
	}
	r.emit(element.NewTable(r.lines[start:r.pos], r.src.lineOffset+start))
	return true, nil
}

func (r *run) quoteRule(line string) (bool, error) {
	if !r.p.opts.ParseQuotes || !strings.HasPrefix(strings.TrimSpace(line), ">") {
		return false, nil
	}

	start := r.pos
	var body []string
	for r.pos < len(r.lines) && strings.HasPrefix(strings.TrimSpace(r.lines[r.pos]), ">") {
		body = append(body, stripQuoteMarker(r.lines[r.pos]))
		r.pos++
	}

	quote, err := r.includeQuote(body, r.src.lineOffset+start)
	if err != nil {
		return false, err
	}
	if quote != nil {
		r.emit(quote)
	}
	return true, nil
}

func (r *run) headlineRule(line string) (bool, error) {
	if !r.p.opts.ParseHeadlines {
		return false, nil
	}
	m := headlinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false, nil
	}

	text, ref := splitBlockID(strings.TrimSpace(m[2]))
	h := element.NewHeadline(len(m[1])-1, text, r.line())
	h.SetRef(ref)
	r.p.ctx.Symbols.ObserveHeadline(h.Level)
	r.emit(h)
	r.pos++
	return true, nil
}

func (r *run) paragraphRule(line string) (bool, error) {
	text, ref := splitBlockID(strings.TrimSpace(line))
	p := element.NewParagraph(text, r.line())
	p.SetRef(ref)
	r.emit(p)
	r.pos++
	return true, nil
}

// splitBlockID separates a trailing " ^id" block identifier from text.
// Identifiers must contain a letter so that math like "x ^2" is left alone.
func splitBlockID(text string) (string, string) {
	m := blockIDPattern.FindStringSubmatch(text)
	if m == nil || !strings.ContainsFunc(m[2], unicode.IsLetter) {
		return text, ""
	}
	return strings.TrimSpace(m[1]), m[2]
}

// indentDepth counts leading indentation in groups of four spaces; a tab is one group
func indentDepth(line string) int {
	width := 0
	for _, c := range line {
		switch c {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width / 4
		}
	}
	return width / 4
}

// stripQuoteMarker removes the leading ">" and one following space
func stripQuoteMarker(line string) string {
	line = strings.TrimLeft(line, " \t")
	line = strings.TrimPrefix(line, ">")
	return strings.TrimPrefix(line, " ")
}

func parseSize(param string) (int, int) {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(param))
	if m == nil {
		return 0, 0
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	return w, h
}

func unescapePath(p string) string {
	p = strings.TrimSpace(p)
	if unescaped, err := url.PathUnescape(p); err == nil {
		return unescaped
	}
	return p
}

func joinTrimmed(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}
