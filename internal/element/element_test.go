package element

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

func TestHeadlineRequiresIdentification(t *testing.T) {
	ctx := newTestContext()
	h := NewHeadline(0, "Title", 4)

	_, err := h.Latex(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotIdentified))
	assert.Contains(t, err.Error(), "line 4")
}

func TestHeadlineLatex(t *testing.T) {
	tests := []struct {
		name     string
		minLevel int
		level    int
		ref      string
		want     string
		kind     symbols.Kind
	}{
		{name: "section with label", minLevel: 0, level: 0, ref: "sec1", want: `\section{Title}\label{sec:sec1}`, kind: symbols.Sec},
		{name: "aligned subsection", minLevel: 1, level: 2, ref: "s", want: `\subsection{Title}\label{subsec:s}`, kind: symbols.Subsec},
		{name: "paragraph level", minLevel: 0, level: 3, want: `\paragraph{Title}`},
		{name: "deep heading is bold", minLevel: 0, level: 5, ref: "deep", want: `\textbf{Title}\label{txt:deep}`, kind: symbols.Txt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			ctx.Symbols.ObserveHeadline(tt.minLevel)

			h := NewHeadline(tt.level, "Title", 0)
			h.SetRef(tt.ref)
			h.Identify(ctx)

			got, err := h.Latex(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if tt.ref != "" {
				kind, ok := ctx.Symbols.Lookup(tt.ref)
				require.True(t, ok)
				assert.Equal(t, tt.kind, kind)
			}
		})
	}
}

func TestHeadlineIdentifyIsIdempotent(t *testing.T) {
	ctx := newTestContext()
	ctx.Symbols.ObserveHeadline(1)

	h := NewHeadline(2, "Title", 0)
	h.Identify(ctx)
	h.Identify(ctx)
	assert.Equal(t, 1, h.AlignedLevel())
}

func TestHeadlineWithoutNumeration(t *testing.T) {
	opts := DefaultOptions()
	opts.Numeration = false
	ctx := NewContext(opts, nil)

	h := NewHeadline(0, "Title", 0)
	h.SetRef("sec1")
	h.Identify(ctx)

	got, err := h.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\n\\noindent\\textbf{\\Large Title}\\newline", got)

	_, ok := ctx.Symbols.Lookup("sec1")
	assert.False(t, ok, "unnumbered headings have no label to reference")
}

func TestHeadlineCleaning(t *testing.T) {
	opts := DefaultOptions()
	opts.CleanHighlight = true
	opts.CleanNumeration = true
	ctx := NewContext(opts, nil)

	h := NewHeadline(0, "1. **Intro**", 0)
	h.Identify(ctx)

	got, err := h.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, `\section{Intro}`, got)
}

func TestEquationLatex(t *testing.T) {
	ctx := newTestContext()

	plain := NewEquation("E=mc^2", 0)
	plain.Identify(ctx)
	got, err := plain.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{equation*}\nE=mc^2\n\\end{equation*}", got)

	labeled := NewEquation("\nE=mc^2\n", 0)
	labeled.SetRef("eq1")
	labeled.Identify(ctx)
	got, err = labeled.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{equation}\nE=mc^2\n\\label{eq:eq1}\n\\end{equation}", got)

	kind, ok := ctx.Symbols.Lookup("eq1")
	require.True(t, ok)
	assert.Equal(t, symbols.Eq, kind)
}

func TestTable(t *testing.T) {
	table := NewTable([]string{"| a | b |", "|:--|--:|", "| 1 | 2 |"}, 0)

	assert.Equal(t, []string{"l", "r"}, table.Alignments)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, table.Rows)
	assert.Equal(t, "Q[l]Q[r]", table.Colspec())

	ctx := newTestContext()
	table.Identify(ctx)
	got, err := table.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\\begingroup\n\\centering\n\\begin{longtblr}[entry=none, label=none]{colspec={Q[l]Q[r]}, hlines, vlines}\na & b \\\\\n1 & 2 \\\\\n\\end{longtblr}\n\\endgroup", got)
}

func TestTableCaptionAndLabel(t *testing.T) {
	table := NewTable([]string{"| a |", "|---|", "| 1 |"}, 0)
	table.SetRef("t1")
	table.SetCaption("Results")

	ctx := newTestContext()
	table.Identify(ctx)
	got, err := table.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "[label={tab:t1}, caption={Results}]")
	assert.Contains(t, got, "colspec={Q[c]}")
}

func TestTableWithoutSeparatorAndRaggedRows(t *testing.T) {
	table := NewTable([]string{"| a | b | c |", "| 1 |"}, 0)

	assert.Equal(t, []string{"c", "c", "c"}, table.Alignments)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "", ""}}, table.Rows)
}

func TestTableWideColumns(t *testing.T) {
	long := "a cell that is clearly longer than thirty characters"
	table := NewTable([]string{"| x | " + long + " |", "|---|---|"}, 0)
	assert.Equal(t, "X[1,c]X[52,c]", table.Colspec())
}

func TestSplitCellsEscapedPipe(t *testing.T) {
	assert.Equal(t, []string{"[[a|b]]", "c"}, splitCells(`| [[a\|b]] | c |`))
}

func TestListAppendAndMerge(t *testing.T) {
	a := NewList(Bullet, "a", 0, 0)
	require.NoError(t, a.Append(NewList(Bullet, "b", 0, 1)))
	assert.Equal(t, []string{"a", "b"}, a.Texts())

	var mismatch *ListMismatchError
	err := a.Append(NewList(Enumerate, "c", 0, 2))
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "append", mismatch.Op)

	err = a.Append(NewList(Bullet, "d", 1, 3))
	assert.True(t, errors.As(err, &mismatch))

	err = a.Merge(NewList(Bullet, "sibling", 0, 4))
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "merge", mismatch.Op)

	require.NoError(t, a.Merge(NewList(Bullet, "child", 1, 5)))
	assert.Len(t, a.Merged, 1)
}

func TestListLatex(t *testing.T) {
	ctx := newTestContext()

	a := NewList(Bullet, "a", 0, 0)
	require.NoError(t, a.Append(NewList(Bullet, "b", 0, 1)))
	require.NoError(t, a.Merge(NewList(Bullet, "d", 1, 2)))

	got, err := a.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{itemize}\\itemsep0pt\n    \\item a\n    \\item b\n    \\begin{itemize}\\itemsep0pt\n        \\item d\n    \\end{itemize}\n\\end{itemize}", got)
}

func TestListItemVariants(t *testing.T) {
	ctx := newTestContext()

	enum := NewList(Enumerate, "third", 0, 0)
	enum.Number = 3
	got, err := enum.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "\\begin{enumerate}")
	assert.Contains(t, got, "    \\setcounter{enumi}{2}\n    \\item third")

	nested := NewList(Enumerate, "inner", 1, 0)
	nested.Number = 1
	got, err = nested.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, `\setcounter{enumii}{0}`)

	done := NewList(Check, "done", 0, 0)
	done.Complete = true
	got, err = done.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, `\item[$\boxtimes$] \sout{done}`)

	open := NewList(Check, "open", 0, 0)
	got, err = open.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, `\item[$\square$] open`)
}

func TestCodeBlockDirectives(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"hidden", ""},
		{"pause", `\pause`},
		{"text", `\textbf{a}` + "\n" + "b"},
		{"example", "\\begin{example}\n\\textbf{a}\nb\n\\end{example}"},
		{"", "\\begin{tcolorbox}[colback=gray!20, colframe=gray!50, sharp corners, boxrule=1pt]\n\\begin{verbatim}\n**a**\nb\n\\end{verbatim}\n\\end{tcolorbox}"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got, err := NewCodeBlock(tt.lang, []string{"**a**", "b"}, 0).Latex(newTestContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCodeBlockMintedAndPreamble(t *testing.T) {
	ctx := newTestContext()

	got, err := NewCodeBlock("C++", []string{"int x;"}, 0).Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "breaklines]{cpp}\nint x;\n\\end{minted}")
	assert.True(t, ctx.UsesMinted())

	got, err = NewCodeBlock("preamble", []string{`\usepackage{siunitx}`}, 0).Latex(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []string{`\usepackage{siunitx}`}, ctx.Preamble())
}

func TestQuoteTypes(t *testing.T) {
	body := []Element{NewParagraph("hi", 0)}

	tests := []struct {
		quoteType string
		heading   string
		want      string
	}{
		{"", "", "\\begin{quote}\\slshape\\noindent\nhi\n\\end{quote}"},
		{"note", "", "\\begin{quote}\\slshape\\noindent\n\\textbf{Note}\\par\nhi\n\\end{quote}"},
		{"warning", "Careful", "\\begin{quote}\\slshape\\noindent\n\\textbf{Careful}\\par\nhi\n\\end{quote}"},
		{"task", "", "\\begin{breakableframe}\nhi\n\\end{breakableframe}"},
		{"example", "", "\\begin{example}\nhi\n\\end{example}"},
		{"solution", "", "hi"},
		{"text", "", "hi"},
		{"hidden", "", ""},
		{"pause", "", `\pause`},
	}

	for _, tt := range tests {
		t.Run(tt.quoteType, func(t *testing.T) {
			q := NewQuote(nil, tt.quoteType, tt.heading, 1, 0)
			q.Elements = body

			got, err := q.Latex(newTestContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitAndFrame(t *testing.T) {
	ctx := newTestContext()

	got, err := NewSplit("Intro", 0).Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, `\noindent\rule{\textwidth}{0.5pt} %Intro`, got)

	frame := NewFrame("Intro", []Element{NewParagraph("a", 0), NewCodeBlock("", []string{"x"}, 1)}, 0)
	got, err = frame.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "\\begin{frame}[fragile]{Intro}\na\n")
	assert.Contains(t, got, "\\end{frame}")
}

func TestMarkersRenderEmpty(t *testing.T) {
	ctx := newTestContext()
	for _, el := range []Element{NewReference("x", 0), NewCaptionMarker("cap", 0)} {
		got, err := el.Latex(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.True(t, IsMarker(el))
	}
	assert.False(t, IsMarker(NewParagraph("x", 0)))
}

func TestFileProjectLatex(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.ProjectDir = dir
	ctx := NewContext(opts, nil)

	f := NewFile("Sub Note.md", 1, 0)
	f.Elements = []Element{NewParagraph("x", 0), NewParagraph("y", 1)}

	got, err := f.ProjectLatex(ctx)
	require.NoError(t, err)
	assert.Equal(t, `\input{Sub_Note}`, got)

	data, err := os.ReadFile(filepath.Join(dir, "Sub_Note.tex"))
	require.NoError(t, err)
	assert.Equal(t, "x\n\ny\n", string(data))

	inline, err := f.Latex(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x\n\ny", inline)
}

func TestFileWrapsChildErrors(t *testing.T) {
	f := NewFile("Child.md", 1, 0)
	f.Elements = []Element{NewHeadline(0, "Never identified", 3)}

	_, err := f.Latex(newTestContext())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotIdentified))
	assert.Contains(t, err.Error(), "Child.md")
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, w, h))))
}

func TestImageSizing(t *testing.T) {
	dir := t.TempDir()
	tall := filepath.Join(dir, "tall.png")
	square := filepath.Join(dir, "square.png")
	wide := filepath.Join(dir, "wide.png")
	writePNG(t, tall, 100, 300)
	writePNG(t, square, 200, 200)
	writePNG(t, wide, 400, 100)

	tests := []struct {
		name  string
		path  string
		width int
		want  string
	}{
		{"tall", tall, 0, `\includegraphics[height=\textheight, keepaspectratio]{` + filepath.ToSlash(tall) + `}`},
		{"square", square, 0, `\includegraphics[height=8cm, keepaspectratio]{` + filepath.ToSlash(square) + `}`},
		{"wide", wide, 0, `\includegraphics[width=\textwidth, keepaspectratio]{` + filepath.ToSlash(wide) + `}`},
		{"explicit width", wide, 200, `\includegraphics[scale={0.5}, keepaspectratio]{` + filepath.ToSlash(wide) + `}`},
		{"missing file", "", 0, `\includegraphics[width=8cm, keepaspectratio]{pic.png}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext()
			img := NewImage("pic.png", tt.path, 0)
			img.Width = tt.width
			img.Identify(ctx)

			got, err := img.Latex(ctx)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestImageCaptionLabelAndProject(t *testing.T) {
	src := filepath.Join(t.TempDir(), "plot.png")
	writePNG(t, src, 10, 10)

	project := t.TempDir()
	opts := DefaultOptions()
	opts.ProjectDir = project
	ctx := NewContext(opts, nil)

	img := NewImage("plot.png", src, 0)
	img.SetRef("fig1")
	img.SetCaption("A *plot*")
	img.Identify(ctx)

	got, err := img.ProjectLatex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "{images/plot.png}")
	assert.Contains(t, got, `\caption{A \textit{plot}}`)
	assert.Contains(t, got, `\label{fig:fig1}`)
	assert.FileExists(t, filepath.Join(project, "images", "plot.png"))

	kind, ok := ctx.Symbols.Lookup("fig1")
	require.True(t, ok)
	assert.Equal(t, symbols.Fig, kind)
}

func TestImageSlides(t *testing.T) {
	opts := DefaultOptions()
	opts.DocumentClass = Beamer
	ctx := NewContext(opts, nil)

	img := NewImage("pic.png", "", 0)
	img.Identify(ctx)
	got, err := img.Latex(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, `\adjustbox{`)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.PNG"))
	assert.True(t, IsImageFile("dir/b.webp"))
	assert.False(t, IsImageFile("note.md"))
	assert.False(t, IsImageFile("archive.zip"))
}

func TestWalk(t *testing.T) {
	inner := NewQuote(nil, "", "", 1, 0)
	inner.Elements = []Element{NewParagraph("q", 0)}
	file := NewFile("a.md", 1, 0)
	file.Elements = []Element{inner}

	var kinds []Kind
	var depths []int
	Walk([]Element{file, NewParagraph("p", 1)}, func(el Element, depth int) {
		kinds = append(kinds, el.Kind())
		depths = append(depths, depth)
	})

	assert.Equal(t, []Kind{KindFile, KindQuote, KindParagraph, KindParagraph}, kinds)
	assert.Equal(t, []int{0, 1, 2, 0}, depths)
	assert.Equal(t, "quote", KindQuote.String())
}
