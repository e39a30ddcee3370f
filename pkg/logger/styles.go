package logger

import (
	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

// logStyles returns four-character level badges so columns stay aligned.
func logStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	badge := func(label, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(label).
			Bold(true).
			Foreground(lipgloss.Color(color))
	}

	styles.Levels[TraceLevel] = badge("TRCE", "#808080")
	styles.Levels[charm.DebugLevel] = badge("DEBU", "#5F87FF")
	styles.Levels[charm.InfoLevel] = badge("INFO", "#00AF87")
	styles.Levels[charm.WarnLevel] = badge("WARN", "#FFAF00")
	styles.Levels[charm.ErrorLevel] = badge("EROR", "#FF0000")
	styles.Levels[charm.FatalLevel] = badge("FATA", "#FF0000")

	return styles
}
