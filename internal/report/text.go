package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// Render writes the solution report: market penetration with counts, then
// supply utilization by supply and by consumer, all sorted by name.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintln(w, "-- SOLUTION --")
	fmt.Fprintf(w, "Market penetration: %s (%.0f/%.0f)\n",
		percent(r.MarketPenetration), r.TotalCaptured, r.MarketSize)

	fmt.Fprintln(w, "By consumer:")
	for _, consumer := range sortedNames(r.PenetrationByConsumer) {
		fmt.Fprintf(w, " - %s: %s (%.0f/%.0f)\n",
			Title(consumer),
			percent(r.PenetrationByConsumer[consumer]),
			r.MarketCaptures[consumer],
			r.MarketCaps[consumer])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Supply utilization: %s (%.0f/%.0f)\n",
		percent(r.SupplyUtilization), r.SupplyUtilization*r.ConstrainedSupply, r.ConstrainedSupply)

	fmt.Fprintln(w, "By supply:")
	for _, resource := range sortedNames(r.UtilizationBySupply) {
		supply := 0.0
		for _, v := range r.CapturesBySupply[resource] {
			supply += v
		}
		u := r.UtilizationBySupply[resource]
		fmt.Fprintf(w, " - %s: %s (%.0f/%.0f)\n", Title(resource), percent(u), u*supply, supply)
	}

	fmt.Fprintln(w, "By consumer:")
	for _, consumer := range sortedNames(r.UtilizationByConsumer) {
		fmt.Fprintf(w, " - %s: %s\n", Title(consumer), percent(r.UtilizationByConsumer[consumer]))
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Title capitalizes each space- or underscore-separated word.
func Title(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '_' })
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
