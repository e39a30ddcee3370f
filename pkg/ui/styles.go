package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// StyleSet provides pre-configured lipgloss styles for diagnostics.
type StyleSet struct {
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Heading lipgloss.Style
}

// NewStyleSet returns colored styles, or plain ones when color is false.
func NewStyleSet(color bool) *StyleSet {
	if !color {
		plain := lipgloss.NewStyle()
		return &StyleSet{Warning: plain, Error: plain, Info: plain, Muted: plain, Heading: plain}
	}

	return &StyleSet{
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00AFFF")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Heading: lipgloss.NewStyle().Bold(true),
	}
}

// ColorEnabled reports whether stderr should be colored.
// mode is "auto", "always" or "never"; NO_COLOR and --no-color win over auto.
func ColorEnabled(mode string, noColor bool) bool {
	if noColor {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}
