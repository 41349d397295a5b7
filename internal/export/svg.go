// Package export renders run artifacts to standalone files.
package export

import (
	"fmt"
	"math"
	"strings"
)

// EnergyTraceSVG renders an energy trace as an SVG polyline, dark
// themed to match the terminal plots. Returns "" for traces too short
// to draw.
func EnergyTraceSVG(energies []float64, width, height int) string {
	if len(energies) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	lo, hi := energies[0], energies[0]
	for _, e := range energies {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	const margin = 10.0
	w := float64(width)
	h := float64(height)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<polyline fill="none" stroke="#00ff88" stroke-width="1.5" points="`, width, height, width, height))

	for i, e := range energies {
		x := margin + (w-2*margin)*float64(i)/float64(len(energies)-1)
		y := h - margin - (h-2*margin)*(e-lo)/span
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}

	sb.WriteString(fmt.Sprintf(`"/>
<text x="%.0f" y="%.0f" fill="#666688" font-family="monospace" font-size="10">min %.4f</text>
<text x="%.0f" y="%.0f" fill="#666688" font-family="monospace" font-size="10">max %.4f</text>
</svg>
`, margin, h-2, lo, margin, margin, hi))

	return sb.String()
}
