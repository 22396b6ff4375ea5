package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/omd2tex/internal/element"
)

// Monokai Pro color palette
const (
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	Red     = "#FF6188" // Errors, unresolved references
	Orange  = "#FC9867" // Warnings, skipped documents
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // Math
	Blue    = "#AB9DF2" // Links, inclusions
	Magenta = "#FF6188" // Titles

	Comment = "#727072"
	Border  = "#5B595C"
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	SpinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Magenta))
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	LabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	ValueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Foreground))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border))

	PreviewStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(Border)).
			Padding(1)
)

// kindColors colors element kinds in listings. Kinds not listed use the foreground.
var kindColors = map[element.Kind]string{
	element.KindHeadline: Yellow,
	element.KindEquation: Cyan,
	element.KindFile:     Blue,
	element.KindQuote:    Green,
	element.KindFrame:    Magenta,
	element.KindImage:    Orange,
	element.KindTable:    Orange,
}

// Kind renders an element kind name in its listing color
func Kind(k element.Kind) string {
	color, ok := kindColors[k]
	if !ok {
		color = Foreground
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(k.String())
}
