package element

import (
	"fmt"
	"strings"
)

// mintedLanguages maps fence languages to minted lexer names
var mintedLanguages = map[string]string{
	"python": "python",
	"c":      "c",
	"cpp":    "cpp",
	"c++":    "cpp",
	"java":   "java",
	"bash":   "bash",
	"go":     "go",
}

// CodeBlock is a fenced block. Lang selects how it renders: a few names are directives
// (hidden, text, pause, example, preamble), known languages use minted, anything else is
// printed verbatim.
type CodeBlock struct {
	base
	Lang  string
	Lines []string
}

// NewCodeBlock creates a fenced block
func NewCodeBlock(lang string, lines []string, line int) *CodeBlock {
	return &CodeBlock{base: base{line: line}, Lang: strings.ToLower(strings.TrimSpace(lang)), Lines: lines}
}

func (c *CodeBlock) Kind() Kind { return KindCodeBlock }

func (c *CodeBlock) Latex(ctx *Context) (string, error) {
	content := strings.Join(c.Lines, "\n")

	switch c.Lang {
	case "hidden", "caption":
		return "", nil
	case "pause":
		return `\pause`, nil
	case "preamble":
		ctx.AddPreamble(content)
		return "", nil
	case "text":
		rendered := make([]string, len(c.Lines))
		for i, line := range c.Lines {
			rendered[i] = ctx.RenderText(line)
		}
		return strings.Join(rendered, "\n"), nil
	case "example":
		return "\\begin{example}\n" + ctx.RenderText(content) + "\n\\end{example}", nil
	}

	if lexer, ok := mintedLanguages[c.Lang]; ok {
		ctx.minted = true
		return fmt.Sprintf("\\begin{minted}[mathescape, linenos, numbersep=5pt, frame=lines, framesep=2mm, breaklines]{%s}\n%s\n\\end{minted}", lexer, content), nil
	}

	options := "colback=gray!20, colframe=gray!50, sharp corners, boxrule=1pt"
	if c.caption != "" {
		options += ", title={" + ctx.RenderText(c.caption) + "}"
	}
	return fmt.Sprintf("\\begin{tcolorbox}[%s]\n\\begin{verbatim}\n%s\n\\end{verbatim}\n\\end{tcolorbox}", options, content), nil
}

func (c *CodeBlock) ProjectLatex(ctx *Context) (string, error) {
	return c.Latex(ctx)
}
