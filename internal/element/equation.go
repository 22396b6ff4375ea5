package element

import (
	"strings"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

// Equation is a display math block
type Equation struct {
	base
	referenceable
	Body string
}

// NewEquation creates a display equation
func NewEquation(body string, line int) *Equation {
	return &Equation{base: base{line: line}, Body: strings.Trim(body, "\n")}
}

func (e *Equation) Kind() Kind { return KindEquation }

func (e *Equation) Identify(ctx *Context) {
	ctx.Symbols.Register(e.ref, symbols.Eq)
	e.identified = true
}

func (e *Equation) Latex(ctx *Context) (string, error) {
	if err := e.check(e.Kind(), e.line); err != nil {
		return "", err
	}

	body := MathText(strings.TrimSpace(e.Body))
	if e.ref != "" {
		return "\\begin{equation}\n" + body + "\n\\label{" + symbols.Label(symbols.Eq, e.ref) + "}\n\\end{equation}", nil
	}
	return "\\begin{equation*}\n" + body + "\n\\end{equation*}", nil
}

func (e *Equation) ProjectLatex(ctx *Context) (string, error) {
	return e.Latex(ctx)
}
