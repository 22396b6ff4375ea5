package element

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is an included document. Elements holds its parsed content.
type File struct {
	base
	Name     string
	Path     string
	Depth    int
	Elements []Element
}

// NewFile creates an inclusion node for name found at depth
func NewFile(name string, depth, line int) *File {
	return &File{base: base{line: line}, Name: name, Depth: depth}
}

func (f *File) Kind() Kind          { return KindFile }
func (f *File) Children() []Element { return f.Elements }

// Dir is the directory of the resolved file, used to locate its own inclusions
func (f *File) Dir() string {
	if f.Path == "" {
		return ""
	}
	return filepath.Dir(f.Path)
}

func (f *File) Latex(ctx *Context) (string, error) {
	out, err := RenderAll(ctx, f.Elements, "\n\n")
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Name, err)
	}
	return out, nil
}

// ProjectLatex writes an included file to its own .tex file in the project directory
// and returns the \input command for it. The root file renders inline.
func (f *File) ProjectLatex(ctx *Context) (string, error) {
	out, err := RenderAllProject(ctx, f.Elements, "\n\n")
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Name, err)
	}
	if f.Depth == 0 || ctx.Options.ProjectDir == "" {
		return out, nil
	}

	slug := Slug(f.Name)
	path := filepath.Join(ctx.Options.ProjectDir, slug+".tex")
	if err := os.WriteFile(path, []byte(out+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return `\input{` + slug + `}`, nil
}

// Slug turns a note name into a file name safe for \input
func Slug(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '#', '%', '&', '{', '}', '$', '~', '^', '\\':
			return '_'
		}
		return r
	}, name)
}
