// Package export renders stored trajectories for use outside the terminal.
package export

import (
	"fmt"
	"strings"
)

var palette = []string{"#00ff88", "#ff6b6b", "#4dabf7", "#ffd43b", "#cc5de8", "#ff922b"}

// SeriesSVG draws each series as a polyline against the shared times axis.
// The y axis is fixed to [0, 1] when every value lies in it, which suits
// populations; otherwise it spans the data.
func SeriesSVG(times []float64, series [][]float64, width, height int) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := 0.0, 1.0
	for _, s := range series {
		for _, v := range s {
			if v < minY {
				minY = v
			}
			if v > maxY {
				maxY = v
			}
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	minY -= rangeY * 0.05
	maxY += rangeY * 0.05
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, s := range series {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, palette[k%len(palette)])
		n := min(len(s), len(times))
		for i := 0; i < n; i++ {
			x := (times[i] - minX) / rangeX * float64(width)
			y := float64(height) - (s[i]-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
