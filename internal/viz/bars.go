package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algoviz/internal/trace"
)

var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderBars draws arr as vertical bars height rows tall, colWidth cells per
// element, each coloured by its role under h.
func RenderBars(arr []float64, h trace.Highlight, height, colWidth int, theme Theme) string {
	if len(arr) == 0 || height <= 0 {
		return ""
	}
	colWidth = max(colWidth, 1)
	if h == nil {
		h = trace.None{}
	}

	lo, hi := arr[0], arr[0]
	for _, v := range arr {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	base := min(0, lo)
	span := hi - base
	if span == 0 {
		span = 1
	}

	levels := make([]int, len(arr))
	colors := make([]lipgloss.Color, len(arr))
	for i, v := range arr {
		levels[i] = max(1, int((v-base)/span*float64(height*8)+0.5))
		colors[i] = theme.RoleColor(trace.RoleOf(h, i))
	}

	var b strings.Builder
	for row := height - 1; row >= 0; row-- {
		var run strings.Builder
		runColor := colors[0]
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
				run.Reset()
			}
		}
		for i := range arr {
			if colors[i] != runColor {
				flush()
				runColor = colors[i]
			}
			fill := max(0, min(levels[i]-row*8, 8))
			run.WriteString(strings.Repeat(string(eighths[fill]), colWidth))
		}
		flush()
		if row > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Legend lists the bar colours.
func Legend(theme Theme) string {
	item := func(c lipgloss.Color, label string) string {
		return lipgloss.NewStyle().Foreground(c).Render("█") + " " + subtle.Render(label)
	}
	return strings.Join([]string{
		item(theme.Bar, "unsorted"),
		item(theme.Compare, "comparing"),
		item(theme.Swap, "swap"),
		item(theme.Region, "active region"),
		item(theme.Pivot, "pivot"),
		item(theme.Sorted, "sorted"),
	}, "  ")
}
