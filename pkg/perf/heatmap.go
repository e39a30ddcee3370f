package perf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	hotStyle    = cellStyle.Foreground(lipgloss.Color("#FF5F5F"))
)

// WriteHeatmap prints the collected timings as a table. The slowest row is
// highlighted when color is true.
func WriteHeatmap(w io.Writer, color bool) error {
	results := Snapshot()
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No performance data collected.")
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.Name,
			strconv.FormatInt(r.Count, 10),
			formatDuration(r.Total),
			formatDuration(r.Mean),
			formatDuration(r.P95),
			formatDuration(r.Max),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Function", "Count", "Total", "Mean", "P95", "Max").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == 0 && color:
				return hotStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
}
