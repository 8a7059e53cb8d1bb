package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/algoviz/internal/trace"
)

// BarColors maps highlight roles to SVG fill colours.
var BarColors = map[trace.Role]string{
	trace.RoleDefault:   "#4ea3ff",
	trace.RoleRegion:    "rgba(0,150,255,0.25)",
	trace.RoleCompare:   "yellow",
	trace.RoleSwap:      "red",
	trace.RoleReadLeft:  "yellow",
	trace.RoleReadRight: "orange",
	trace.RoleWrite:     "red",
	trace.RolePivot:     "#c678dd",
	trace.RoleProbe:     "yellow",
	trace.RoleExchange:  "red",
	trace.RoleSorted:    "green",
}

// FrameToSVG draws a frame as a bar chart, one bar per element, coloured by
// the frame's highlight.
func FrameToSVG(f trace.Frame, width, height int) string {
	n := len(f.Array)
	if n == 0 || width <= 0 || height <= 0 {
		return ""
	}

	maxVal := f.Array[0]
	minVal := f.Array[0]
	for _, v := range f.Array {
		maxVal = max(maxVal, v)
		minVal = min(minVal, v)
	}
	// bars start at zero unless there are negatives
	base := min(0, minVal)
	span := maxVal - base
	if span == 0 {
		span = 1
	}

	const gap = 2.0
	barWidth := max(1, float64(width)/float64(n)-gap)
	slot := float64(width) / float64(n)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, v := range f.Array {
		h := (v - base) / span * float64(height)
		if h < 1 {
			h = 1
		}
		x := float64(i) * slot
		y := float64(height) - h

		role := trace.RoleDefault
		if f.Highlight != nil {
			role = trace.RoleOf(f.Highlight, i)
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" data-role="%s"/>
`, x, y, barWidth, h, BarColors[role], role))
	}

	sb.WriteString(fmt.Sprintf(`<text x="4" y="14" fill="#aaaaaa" font-family="monospace" font-size="12">comparisons %d  swaps %d</text>
`, f.Comparisons, f.Swaps))
	sb.WriteString("</svg>")
	return sb.String()
}

// CountersToSVG plots comparisons and swaps against frame index.
func CountersToSVG(frames []trace.Frame, width, height int) string {
	if len(frames) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	last := frames[len(frames)-1]
	top := float64(max(last.Comparisons, last.Swaps, 1))
	stepX := float64(width) / float64(len(frames)-1)

	path := func(value func(trace.Frame) int) string {
		var sb strings.Builder
		for i, f := range frames {
			x := float64(i) * stepX
			y := float64(height) - float64(value(f))/top*float64(height)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("M%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		return sb.String()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="yellow" stroke-width="1.5" d="%s"/>
`, path(func(f trace.Frame) int { return f.Comparisons })))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="red" stroke-width="1.5" d="%s"/>
`, path(func(f trace.Frame) int { return f.Swaps })))
	sb.WriteString("</svg>")
	return sb.String()
}
