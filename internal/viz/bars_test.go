package viz

import (
	"strings"
	"testing"

	"github.com/tomas-hradek/ecolab/internal/report"
)

func chartReport() *report.Report {
	return &report.Report{
		MarketPenetration:     0.8,
		PenetrationByConsumer: map[string]float64{"frogs": 1.0, "toads": 0.5},
		SupplyUtilization:     0.9,
		UtilizationBySupply:   map[string]float64{"flies": 0.9, "worms": 1.0},
		UtilizationByConsumer: map[string]float64{"frogs": 0.6, "toads": 0.3, report.UnusedKey: 0.1},
	}
}

func TestPenetrationChart(t *testing.T) {
	out := PenetrationChart(chartReport())

	for _, want := range []string{"MARKET PENETRATION", "Frogs", "Toads", "Overall", "100.0%", "80.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	// Ascending by value, overall last.
	if strings.Index(out, "Toads") > strings.Index(out, "Frogs") {
		t.Error("expected toads (50%) before frogs (100%)")
	}
	if strings.Index(out, "Overall") < strings.Index(out, "Frogs") {
		t.Error("expected the overall row last")
	}
}

func TestUtilizationChart_BySupply(t *testing.T) {
	out, err := UtilizationChart(chartReport(), "supply")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"BY SUPPLY", "Flies", "Worms", "Overall", "90.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
}

func TestUtilizationChart_ByConsumer(t *testing.T) {
	out, err := UtilizationChart(chartReport(), "consumer")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"BY CONSUMER", "Frogs", "Unused"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Overall") {
		t.Error("per-consumer chart should not carry an overall row")
	}
}

func TestUtilizationChart_BadGrouping(t *testing.T) {
	if _, err := UtilizationChart(chartReport(), "habitat"); err == nil {
		t.Error("expected error for unknown grouping")
	}
}

func TestBarLine_Clamping(t *testing.T) {
	over := barLine("x", 1.5)
	if !strings.Contains(over, strings.Repeat("=", barWidth)) {
		t.Error("expected a full bar for values above 1")
	}
	if !strings.Contains(over, "150.0%") {
		t.Error("expected the raw percentage to survive clamping")
	}

	under := barLine("x", -0.2)
	if !strings.Contains(under, strings.Repeat("-", barWidth)) {
		t.Error("expected an empty bar for negative values")
	}
}

func TestSortedByValue(t *testing.T) {
	got := sortedByValue(map[string]float64{"b": 0.5, "a": 0.5, "c": 0.1})
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
