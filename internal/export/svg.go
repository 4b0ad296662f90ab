package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomas-hradek/ecolab/internal/report"
)

const (
	svgWidth   = 640
	rowHeight  = 32
	labelX     = 16
	barX       = 160
	barMaxW    = 420
	barHeight  = 18
	titleSpace = 48
)

type barRow struct {
	label string
	value float64
}

// ReportSVG renders market penetration by consumer as a standalone SVG bar
// chart, ascending by value with the overall figure last.
func ReportSVG(rep *report.Report) string {
	names := make([]string, 0, len(rep.PenetrationByConsumer))
	for name := range rep.PenetrationByConsumer {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := rep.PenetrationByConsumer[names[i]], rep.PenetrationByConsumer[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})

	rows := make([]barRow, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, barRow{report.Title(name), rep.PenetrationByConsumer[name]})
	}
	rows = append(rows, barRow{"Overall", rep.MarketPenetration})

	height := titleSpace + rowHeight*len(rows) + 16

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%d" y="28" fill="#cccccc" font-family="monospace" font-size="16">Market Penetration by Consumer</text>
`, svgWidth, height, svgWidth, height, labelX))

	for i, row := range rows {
		y := titleSpace + i*rowHeight
		frac := row.value
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		w := frac * barMaxW

		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" fill="#cccccc" font-family="monospace" font-size="13">%s</text>
`, labelX, y+barHeight-4, row.label))
		sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%.1f" height="%d" fill="#00ff00"/>
`, barX, y, w, barHeight))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" fill="#00ff00" font-family="monospace" font-size="13">%.1f%%</text>
`, float64(barX)+w+8, y+barHeight-4, row.value*100))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
