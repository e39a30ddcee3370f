package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

const (
	// DefaultMaxLineLength is the default maximum line length before wrapping.
	DefaultMaxLineLength = 80

	// ErrorPrefix starts every formatted error message.
	ErrorPrefix = "ERROR! "

	newline = "\n"
)

// FormatterConfig controls error formatting behavior.
type FormatterConfig struct {
	// Verbose adds the context table and the full stack trace.
	Verbose bool

	// Color controls color output: "auto", "always", or "never".
	Color string

	// MaxLineLength is the maximum length before wrapping (default: 80).
	MaxLineLength int
}

// DefaultFormatterConfig returns default formatting configuration.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Verbose:       false,
		Color:         "auto",
		MaxLineLength: DefaultMaxLineLength,
	}
}

// Format formats an error for display on stderr.
func Format(err error, config FormatterConfig) string {
	if err == nil {
		return ""
	}

	useColor := shouldUseColor(config.Color)

	errorStyle := lipgloss.NewStyle()
	hintStyle := lipgloss.NewStyle()
	if useColor {
		errorStyle = errorStyle.Foreground(lipgloss.Color("#FF0000"))
		hintStyle = hintStyle.Foreground(lipgloss.Color("#00BFFF"))
	}

	var output strings.Builder

	mainMsg := ErrorPrefix + err.Error()
	if len(mainMsg) > config.MaxLineLength && !config.Verbose {
		mainMsg = wrapText(mainMsg, config.MaxLineLength)
	}
	output.WriteString(errorStyle.Render(mainMsg))

	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		output.WriteString(newline)
		for _, hint := range hints {
			output.WriteString(hintStyle.Render("    hint: " + hint))
			output.WriteString(newline)
		}
	}

	if config.Verbose {
		if contextTable := formatContextTable(err, useColor); contextTable != "" {
			output.WriteString(contextTable)
			output.WriteString(newline)
		}
		output.WriteString(newline)
		output.WriteString(formatStackTrace(err, useColor))
	}

	return output.String()
}

// formatContextTable renders the safe details attached with WithContext as a
// two-column table.
func formatContextTable(err error, useColor bool) string {
	details := errors.GetSafeDetails(err)
	if len(details.SafeDetails) == 0 {
		return ""
	}

	var rows [][]string
	for _, detail := range details.SafeDetails {
		for _, pair := range strings.Split(fmt.Sprintf("%v", detail), " ") {
			if key, value, ok := strings.Cut(pair, "="); ok {
				rows = append(rows, []string{key, value})
			}
		}
	}
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Context", "Value").
		Rows(rows...)

	if useColor {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == -1 {
				// Header row.
				return style.Bold(true)
			}
			if col == 0 {
				return style.Foreground(lipgloss.Color("#808080"))
			}
			return style
		})
	}

	return newline + t.String()
}

// shouldUseColor determines if color output should be used.
func shouldUseColor(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = DefaultMaxLineLength
	}
	return wordwrap.WrapString(strings.Join(strings.Fields(text), " "), uint(width))
}

// formatStackTrace formats the full error chain with stack traces.
func formatStackTrace(err error, useColor bool) string {
	style := lipgloss.NewStyle()
	if useColor {
		style = style.Foreground(lipgloss.Color("#808080"))
	}
	return style.Render(fmt.Sprintf("%+v", err))
}
