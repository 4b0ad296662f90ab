package export

import (
	"strings"
	"testing"

	"github.com/tomas-hradek/ecolab/internal/report"
)

func TestReportSVG(t *testing.T) {
	rep := &report.Report{
		MarketPenetration:     0.75,
		PenetrationByConsumer: map[string]float64{"frogs": 1.0, "toads": 0.5},
	}

	out := ReportSVG(rep)

	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Error("expected an XML declaration")
	}
	if !strings.Contains(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Error("expected a complete svg document")
	}

	// One background rect plus one bar per consumer and the overall row.
	if got := strings.Count(out, "<rect"); got != 4 {
		t.Errorf("expected 4 rects, got %d", got)
	}

	for _, want := range []string{"Frogs", "Toads", "Overall", "75.0%", "100.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	// Ascending by value, overall last.
	if strings.Index(out, "Toads") > strings.Index(out, "Frogs") {
		t.Error("expected toads (50%) drawn before frogs (100%)")
	}
}

func TestReportSVG_ClampsBarWidth(t *testing.T) {
	rep := &report.Report{
		MarketPenetration:     1.3,
		PenetrationByConsumer: map[string]float64{"frogs": 1.3},
	}

	out := ReportSVG(rep)
	if !strings.Contains(out, `width="420.0"`) {
		t.Error("expected over-full bars clamped to the maximum width")
	}
	if !strings.Contains(out, "130.0%") {
		t.Error("expected the raw percentage label to survive clamping")
	}
}
