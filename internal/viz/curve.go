package viz

import "github.com/guptarohit/asciigraph"

// Curve renders a line chart for sweep results and history sparklines.
func Curve(ys []float64, caption string) string {
	if len(ys) < 2 {
		return ""
	}
	return asciigraph.Plot(ys,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
}
