package document

import (
	"fmt"
	"strings"

	"github.com/gerunddev/omd2tex/internal/element"
)

// PreambleOptions configures the generated document preamble
type PreambleOptions struct {
	FontSize   string `json:"font_size"`
	LineSpread string `json:"line_spread"`
	Language   string `json:"language"`
	Left       string `json:"margin_left"`
	Right      string `json:"margin_right"`
	Top        string `json:"margin_top"`
	Bottom     string `json:"margin_bottom"`

	Theme      string `json:"beamer_theme"`
	ColorTheme string `json:"beamer_color_theme"`

	Title     string `json:"title"`
	Author    string `json:"author"`
	Date      string `json:"date"`
	Institute string `json:"institute"`
}

// DefaultPreambleOptions returns the default preamble settings
func DefaultPreambleOptions() PreambleOptions {
	return PreambleOptions{
		FontSize:   "12pt",
		LineSpread: "1",
		Language:   "english",
		Left:       "2cm",
		Right:      "1.5cm",
		Top:        "2cm",
		Bottom:     "2cm",
		Theme:      "Madrid",
		ColorTheme: "default",
	}
}

func (o PreambleOptions) hasTitle() bool {
	return o.Title != ""
}

const commonPackages = `\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{graphicx}
\usepackage{adjustbox}
\usepackage{xcolor}
\usepackage[most]{tcolorbox}
\usepackage{soul}
\usepackage{ulem}
\usepackage{float}
\usepackage{caption}
\captionsetup[figure]{skip=1pt}
\captionsetup[longtblr]{skip=1pt}

\usepackage{tabularray}
\UseTblrLibrary{booktabs}

\definecolor{mintgreen}{RGB}{220,255,220}
\newtcolorbox{breakableframe}{breakable, colback=white, colframe=black!50, boxrule=0.5pt}
`

const crossReferences = `\usepackage[hidelinks]{hyperref}
\usepackage[capitalize]{cleveref}
\crefname{longtblr}{table}{tables}
\Crefname{longtblr}{Table}{Tables}
`

// buildPreamble generates everything before \begin{document}. Packages that only some
// documents need are added when the render used them.
func buildPreamble(ctx *element.Context, opts PreambleOptions) string {
	var b strings.Builder

	if ctx.Slides() {
		fmt.Fprintf(&b, "\\documentclass[%s]{beamer}\n", opts.FontSize)
	} else {
		fmt.Fprintf(&b, "\\documentclass[%s]{%s}\n", opts.FontSize, ctx.Options.DocumentClass)
		fmt.Fprintf(&b, "\\linespread{%s}\n", opts.LineSpread)
	}

	b.WriteString("\n")
	if strings.Contains(opts.Language, "russian") {
		b.WriteString("\\usepackage[T2A]{fontenc}\n")
	} else {
		b.WriteString("\\usepackage[T1]{fontenc}\n")
	}
	b.WriteString("\\usepackage[utf8]{inputenc}\n")
	fmt.Fprintf(&b, "\\usepackage[%s]{babel}\n\n", opts.Language)

	b.WriteString(commonPackages)
	if ctx.UsesMinted() {
		b.WriteString("\\usepackage{minted}\n")
	}
	if len(ctx.Citations()) > 0 {
		b.WriteString("\\usepackage[backend=biber, style=ieee]{biblatex}\n")
	}
	b.WriteString("\n")
	b.WriteString(crossReferences)

	b.WriteString("\n")
	if ctx.Slides() {
		fmt.Fprintf(&b, "\\setbeamersize{text margin left=%s, text margin right=%s}\n", opts.Left, opts.Right)
		fmt.Fprintf(&b, "\\usetheme{%s}\n", opts.Theme)
		fmt.Fprintf(&b, "\\usecolortheme{%s}\n", opts.ColorTheme)
		b.WriteString("\\setbeamertemplate{navigation symbols}{}\n")
		b.WriteString("\\setbeamertemplate{caption}[numbered]\n")
	} else {
		b.WriteString("\\usepackage{geometry}\n")
		fmt.Fprintf(&b, "\\geometry{a4paper, left=%s, right=%s, top=%s, bottom=%s}\n",
			opts.Left, opts.Right, opts.Top, opts.Bottom)
		b.WriteString("\\usepackage{indentfirst}\n")
		b.WriteString("\\newenvironment{example}{\\par\\noindent\\textbf{Example.}\\ }{\\par}\n")
	}

	if opts.Title != "" {
		fmt.Fprintf(&b, "\n\\title{%s}\n", opts.Title)
		if opts.Author != "" {
			fmt.Fprintf(&b, "\\author{%s}\n", opts.Author)
		}
		if opts.Institute != "" && ctx.Slides() {
			fmt.Fprintf(&b, "\\institute{%s}\n", opts.Institute)
		}
		if opts.Date != "" {
			fmt.Fprintf(&b, "\\date{%s}\n", opts.Date)
		} else if ctx.Slides() {
			b.WriteString("\\setbeamertemplate{date}{}\n")
		} else {
			b.WriteString("\\date{}\n")
		}
	}

	if extra := ctx.Preamble(); len(extra) > 0 {
		b.WriteString("\n% from preamble code blocks\n")
		for _, cmd := range extra {
			b.WriteString(cmd + "\n")
		}
	}
	return b.String()
}
