package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomas-hradek/ecolab/internal/report"
)

const (
	barWidth   = 40
	labelWidth = 14
)

// OverallKey labels the aggregate row appended to chart data.
const OverallKey = "overall"

// PenetrationChart renders market penetration by consumer as horizontal
// percent bars, ascending by value with the overall figure last.
func PenetrationChart(rep *report.Report) string {
	rows := sortedByValue(rep.PenetrationByConsumer)
	rows = append(rows, OverallKey)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("MARKET PENETRATION BY CONSUMER") + "\n")
	for _, name := range rows {
		v := rep.PenetrationByConsumer[name]
		if name == OverallKey {
			v = rep.MarketPenetration
		}
		sb.WriteString(barLine(name, v) + "\n")
	}
	return sb.String()
}

// UtilizationChart renders supply utilization grouped by supply or by
// consumer; any other grouping is an error.
func UtilizationChart(rep *report.Report, by string) (string, error) {
	var sb strings.Builder
	switch by {
	case "supply":
		sb.WriteString(headerStyle.Render("SUPPLY UTILIZATION BY SUPPLY") + "\n")
		for _, name := range sortedByValue(rep.UtilizationBySupply) {
			sb.WriteString(barLine(name, rep.UtilizationBySupply[name]) + "\n")
		}
		sb.WriteString(barLine(OverallKey, rep.SupplyUtilization) + "\n")
	case "consumer":
		sb.WriteString(headerStyle.Render("SUPPLY UTILIZATION BY CONSUMER") + "\n")
		for _, name := range sortedByValue(rep.UtilizationByConsumer) {
			sb.WriteString(barLine(name, rep.UtilizationByConsumer[name]) + "\n")
		}
	default:
		return "", fmt.Errorf(`viz: grouping must be "supply" or "consumer", got %q`, by)
	}
	return sb.String(), nil
}

func barLine(label string, frac float64) string {
	clamped := frac
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 1 {
		clamped = 1
	}
	filled := int(clamped*barWidth + 0.5)
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)

	return fmt.Sprintf("%s [%s] %s",
		labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, report.Title(label))),
		barStyle(clamped).Render(bar),
		valueStyle.Render(fmt.Sprintf("%.1f%%", frac*100)))
}

// sortedByValue orders names ascending by value, ties broken by name, so the
// tallest bar lands at the bottom of the chart.
func sortedByValue(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m[names[i]] != m[names[j]] {
			return m[names[i]] < m[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
