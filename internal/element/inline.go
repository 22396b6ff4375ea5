package element

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

var (
	inlineCodePattern   = regexp.MustCompile("`([^`]+)`")
	displayMathPattern  = regexp.MustCompile(`\$\$(.+?)\$\$`)
	inlineMathPattern   = regexp.MustCompile(`\$((?:[^$\\]|\\.)+?)\$`)
	referencePattern    = regexp.MustCompile(`!?\[\[(?:([^|\]#]+)?#)?\^([^|\]]+)(?:\|([^\]]+))?\]\]`)
	citationPattern     = regexp.MustCompile(`!?\[\[@([^|\]]+)(?:\|([^\]]+))?\]\]`)
	citeCommandPattern  = regexp.MustCompile(`\\cite\{@([^}]+)\}`)
	footnotePattern     = regexp.MustCompile(`\[\^([^\]]+)\]`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	wikiLinkPattern     = regexp.MustCompile(`!?\[\[([^|\]]+)(?:\|([^\]]+))?\]\]`)
	cyrillicPattern     = regexp.MustCompile(`\p{Cyrillic}+`)
	placeholderPattern  = regexp.MustCompile("\x00([0-9]+)\x00")

	htmlRules = []replacement{
		{regexp.MustCompile(`<sup>(.*?)</sup>`), `$$^{${1}}$$`},
		{regexp.MustCompile(`<sub>(.*?)</sub>`), `$$_{${1}}$$`},
		{regexp.MustCompile(`<u>(.*?)</u>`), `\ul{${1}}`},
	}

	emphasisRules = []replacement{
		{regexp.MustCompile(`\*\*(.+?)\*\*`), `\textbf{${1}}`},
		{regexp.MustCompile(`__(.+?)__`), `\textbf{${1}}`},
		{regexp.MustCompile(`\*(.+?)\*`), `\textit{${1}}`},
		{regexp.MustCompile(`(^|[\s(\[{])_([^_]+?)_`), `${1}\textit{${2}}`},
		{regexp.MustCompile(`==(.+?)==`), `\sethlcolor{mintgreen}\hl{${1}}`},
		{regexp.MustCompile(`~~(.+?)~~`), `\sout{${1}}`},
		{regexp.MustCompile(`(^|\s)#([^\s#]+)`), `${1}\#${2}`},
	}

	highlightMarkers = []replacement{
		{regexp.MustCompile(`\*\*(.+?)\*\*`), `${1}`},
		{regexp.MustCompile(`__(.+?)__`), `${1}`},
		{regexp.MustCompile(`\*(.+?)\*`), `${1}`},
		{regexp.MustCompile(`(^|\s)_([^_]+?)_`), `${1}${2}`},
		{regexp.MustCompile(`==(.+?)==`), `${1}`},
		{regexp.MustCompile(`~~(.+?)~~`), `${1}`},
		{regexp.MustCompile(`<(?:sup|sub|u)>(.*?)</(?:sup|sub|u)>`), `${1}`},
	}

	typographyFixes = strings.NewReplacer("−", "-", "–", "--", "ο", "o")
)

type replacement struct {
	pattern *regexp.Regexp
	repl    string
}

func applyAll(text string, rules []replacement) string {
	for _, r := range rules {
		text = r.pattern.ReplaceAllString(text, r.repl)
	}
	return text
}

// protector swaps fragments that must not be touched by later inline rules for
// opaque placeholders and restores them at the end.
type protector struct {
	saved []string
}

func (p *protector) protect(s string) string {
	p.saved = append(p.saved, s)
	return "\x00" + strconv.Itoa(len(p.saved)-1) + "\x00"
}

func (p *protector) restore(text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		i, err := strconv.Atoi(strings.Trim(m, "\x00"))
		if err != nil || i >= len(p.saved) {
			return m
		}
		return p.saved[i]
	})
}

// RenderText converts one line of dialect inline markup to LaTeX.
// Cross-references resolve against the context's symbol table, so identification
// must have run over the document before rendering.
func (c *Context) RenderText(text string) string {
	p := &protector{}

	text = inlineCodePattern.ReplaceAllStringFunc(text, func(m string) string {
		code := inlineCodePattern.FindStringSubmatch(m)[1]
		return p.protect(`\texttt{` + escapeVerbatim(code) + `}`)
	})
	text = displayMathPattern.ReplaceAllStringFunc(text, func(m string) string {
		return p.protect("$" + MathText(displayMathPattern.FindStringSubmatch(m)[1]) + "$")
	})
	text = inlineMathPattern.ReplaceAllStringFunc(text, func(m string) string {
		return p.protect("$" + MathText(inlineMathPattern.FindStringSubmatch(m)[1]) + "$")
	})

	text = citationPattern.ReplaceAllStringFunc(text, func(m string) string {
		sm := citationPattern.FindStringSubmatch(m)
		key := strings.TrimSpace(sm[1])
		c.cite(key)
		out := `\cite{` + key + `}`
		if alias := strings.TrimSpace(sm[2]); alias != "" {
			return alias + " " + p.protect(out)
		}
		return p.protect(out)
	})
	text = citeCommandPattern.ReplaceAllStringFunc(text, func(m string) string {
		key := strings.TrimSpace(citeCommandPattern.FindStringSubmatch(m)[1])
		c.cite(key)
		return p.protect(`\cite{` + key + `}`)
	})

	text = referencePattern.ReplaceAllStringFunc(text, func(m string) string {
		sm := referencePattern.FindStringSubmatch(m)
		ref, alias := strings.TrimSpace(sm[2]), strings.TrimSpace(sm[3])
		out := ""
		if kind, ok := c.Symbols.Lookup(ref); ok {
			out = p.protect(`\cref{` + symbols.Label(kind, ref) + `}`)
		} else {
			c.unresolvedRef(ref)
		}
		if alias != "" {
			if out == "" {
				return alias
			}
			return alias + " " + out
		}
		return out
	})

	text = footnotePattern.ReplaceAllStringFunc(text, func(m string) string {
		key := footnotePattern.FindStringSubmatch(m)[1]
		return p.protect(c.renderFootnote(key))
	})

	text = markdownLinkPattern.ReplaceAllStringFunc(text, func(m string) string {
		sm := markdownLinkPattern.FindStringSubmatch(m)
		url := strings.ReplaceAll(sm[2], "%", `\%`)
		return p.protect(`\href{`+url+`}{`) + sm[1] + p.protect("}")
	})
	text = wikiLinkPattern.ReplaceAllStringFunc(text, func(m string) string {
		sm := wikiLinkPattern.FindStringSubmatch(m)
		if alias := strings.TrimSpace(sm[2]); alias != "" {
			return alias
		}
		target, _, _ := strings.Cut(sm[1], "#")
		return strings.TrimSuffix(strings.TrimSpace(target), ".md")
	})

	text = applyAll(text, htmlRules)
	text = applyAll(text, emphasisRules)
	text = escapeUnescaped(text, '%')
	text = escapeUnescaped(text, '&')
	text = typographyFixes.Replace(text)

	return p.restore(text)
}

func (c *Context) renderFootnote(key string) string {
	if c.inFootnote {
		return ""
	}
	note, ok := c.Footnotes.Get(key)
	if !ok {
		c.Log.MissingFootnote(key)
		return ""
	}

	c.inFootnote = true
	defer func() { c.inFootnote = false }()
	return `\footnote{` + c.RenderText(note) + `}`
}

// MathText prepares math content for LaTeX: Cyrillic runs are wrapped in \text{}
func MathText(math string) string {
	return cyrillicPattern.ReplaceAllString(math, `\text{$0}`)
}

// RemoveHighlight strips emphasis markup, keeping the text
func RemoveHighlight(text string) string {
	return applyAll(text, highlightMarkers)
}

var numerationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\d+(?:\.\d+)*[.)]\s+`),
	regexp.MustCompile(`^\s*[ivxlcdmIVXLCDM]+[.)]\s+`),
	regexp.MustCompile(`^\s*\p{L}[.)]\s+`),
	regexp.MustCompile(`^\s*[\[({][\p{L}0-9]+[\])}]\s+`),
	regexp.MustCompile(`^\s*[•◦›]\s+`),
	regexp.MustCompile(`^\s*[\[({]\w+(?:[.\-]\w+)*[\])}]\s+`),
}

// RemoveNumeration strips a manual numbering prefix like "1.2. " or "(a) " from a heading
func RemoveNumeration(heading string) string {
	for _, re := range numerationPatterns {
		if loc := re.FindStringIndex(heading); loc != nil {
			return strings.TrimSpace(heading[loc[1]:])
		}
	}
	return heading
}

// escapeUnescaped prefixes every ch not already preceded by a backslash
func escapeUnescaped(text string, ch byte) string {
	if strings.IndexByte(text, ch) < 0 {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == ch && (i == 0 || text[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

func escapeVerbatim(code string) string {
	return strings.NewReplacer(
		`\`, `\textbackslash{}`,
		"#", `\#`,
		"$", `\$`,
		"%", `\%`,
		"&", `\&`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
	).Replace(code)
}

// indent prefixes every non-empty line of text with n levels of four spaces
func indent(text string, n int) string {
	if n <= 0 {
		return text
	}
	prefix := strings.Repeat("    ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func formatScale(f float64) string {
	return fmt.Sprintf("%.3g", f)
}
