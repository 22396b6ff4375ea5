package document

import (
	"fmt"
	"strings"
)

const auxFiles = "*.bib *.bbl *.blg *.aux *.log *.out *.toc *.bcf *.run.xml"

// Makefile generates the build script for an exported document. Cross references need a
// second LaTeX pass; citations add a biber run and two more passes.
func Makefile(name string, citations, references bool) string {
	const compile = "\tpdflatex -shell-escape main.tex\n"

	passes := compile
	switch {
	case citations:
		passes += "\tbiber main\n" + compile + compile
	case references:
		passes += compile
	}

	var b strings.Builder
	b.WriteString("all: compile\n\n")
	b.WriteString("compile:\n")
	fmt.Fprintf(&b, "\trm -f %s\n", auxFiles)
	b.WriteString(passes)
	b.WriteString("\trm -rf _minted*\n")
	fmt.Fprintf(&b, "\trm -f %s\n", auxFiles)
	fmt.Fprintf(&b, "\tmv main.pdf %q\n", name+".pdf")
	b.WriteString("\nopen:\n")
	fmt.Fprintf(&b, "\txdg-open %q\n", name+".pdf")
	b.WriteString("\nclean:\n")
	fmt.Fprintf(&b, "\trm -f %q main.pdf %s\n", name+".pdf", auxFiles)
	b.WriteString("\trm -rf _minted*\n")
	b.WriteString("\n.PHONY: all compile open clean\n")
	return b.String()
}
