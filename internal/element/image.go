package element

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gerunddev/omd2tex/internal/symbols"
)

// ImageExtensions are the file extensions recognized as embeddable images
var ImageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".svg": true, ".webp": true, ".tiff": true,
}

// IsImageFile reports whether name has an image extension
func IsImageFile(name string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Image is an embedded picture. Width and Height are requested pixel sizes, 0 if unset.
type Image struct {
	base
	referenceable
	Name   string
	Path   string
	Alt    string
	Width  int
	Height int
}

// NewImage creates an image embed. path is the located file, or empty if unknown.
func NewImage(name, path string, line int) *Image {
	return &Image{base: base{line: line}, Name: name, Path: path}
}

func (i *Image) Kind() Kind { return KindImage }

func (i *Image) Identify(ctx *Context) {
	ctx.Symbols.Register(i.ref, symbols.Fig)
	i.identified = true
}

// Dimensions reads the pixel size of the image file
func (i *Image) Dimensions() (int, int, bool) {
	if i.Path == "" {
		return 0, 0, false
	}
	f, err := os.Open(i.Path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

func (i *Image) Latex(ctx *Context) (string, error) {
	return i.render(ctx, i.source())
}

// ProjectLatex copies the image into the project's images directory and references it
// by relative path.
func (i *Image) ProjectLatex(ctx *Context) (string, error) {
	if ctx.Options.ProjectDir == "" || i.Path == "" {
		return i.Latex(ctx)
	}

	rel := filepath.ToSlash(filepath.Join("images", filepath.Base(i.Path)))
	if err := copyFile(i.Path, filepath.Join(ctx.Options.ProjectDir, rel)); err != nil {
		return "", fmt.Errorf("failed to copy image %s: %w", i.Name, err)
	}
	return i.render(ctx, rel)
}

func (i *Image) source() string {
	if i.Path != "" {
		return filepath.ToSlash(i.Path)
	}
	return i.Name
}

func (i *Image) render(ctx *Context, src string) (string, error) {
	if err := i.check(i.Kind(), i.line); err != nil {
		return "", err
	}

	include := i.include(ctx, src)

	var b strings.Builder
	b.WriteString("\\begin{figure}[H]\n\\centering\n")
	b.WriteString(include + "\n")
	if i.caption != "" {
		b.WriteString(`\caption{` + ctx.RenderText(i.caption) + "}\n")
	}
	if i.ref != "" {
		b.WriteString(`\label{` + symbols.Label(symbols.Fig, i.ref) + "}\n")
	}
	b.WriteString(`\end{figure}`)
	return b.String(), nil
}

func (i *Image) include(ctx *Context, src string) string {
	if ctx.Slides() {
		return fmt.Sprintf(`\adjustbox{max width=\textwidth, max height=\textheight, keepaspectratio}{\includegraphics[height=\textheight/(3/2), keepaspectratio]{%s}}`, src)
	}

	w, h, ok := i.Dimensions()
	if !ok {
		return fmt.Sprintf(`\includegraphics[width=%s, keepaspectratio]{%s}`, ctx.Options.ImageWidth, src)
	}

	if i.Width > 0 {
		if i.Height > 0 {
			return fmt.Sprintf(`\includegraphics[width={%s}\textwidth, height={%s}\textheight]{%s}`,
				formatScale(float64(i.Width)/float64(w)), formatScale(float64(i.Height)/float64(h)), src)
		}
		return fmt.Sprintf(`\includegraphics[scale={%s}, keepaspectratio]{%s}`, formatScale(float64(i.Width)/float64(w)), src)
	}

	ratio := float64(w) / float64(h)
	borders := ctx.Options.AspectBorders
	switch {
	case ratio < borders[0]:
		return fmt.Sprintf(`\includegraphics[height=\textheight, keepaspectratio]{%s}`, src)
	case ratio < borders[1]:
		if w < h {
			return fmt.Sprintf(`\includegraphics[width=%s, keepaspectratio]{%s}`, ctx.Options.ImageWidth, src)
		}
		return fmt.Sprintf(`\includegraphics[height=%s, keepaspectratio]{%s}`, ctx.Options.ImageHeight, src)
	default:
		return fmt.Sprintf(`\includegraphics[width=\textwidth, keepaspectratio]{%s}`, src)
	}
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
