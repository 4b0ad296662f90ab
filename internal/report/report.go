package report

import (
	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

// UnusedKey labels the residual entry in per-consumer and per-supply
// capture breakdowns.
const UnusedKey = "unused"

// Report holds the analytics derived from a solved allocation: how much of
// the market was captured and how completely the supplies are used.
type Report struct {
	MarketSize            float64
	TotalCaptured         float64
	MarketPenetration     float64
	MarketCaps            map[string]float64
	MarketCaptures        map[string]float64
	PenetrationByConsumer map[string]float64

	// SupplySize sums every supplied quantity, demanded or not.
	SupplySize float64
	// ConstrainedSupply sums the demanded quantities only.
	ConstrainedSupply float64
	// CapturesBySupply breaks each demanded resource down by consumer,
	// with an "unused" entry for the slack.
	CapturesBySupply    map[string]map[string]float64
	UtilizationBySupply map[string]float64
	// SupplyUtilization covers the demanded resources only.
	SupplyUtilization     float64
	UtilizationByConsumer map[string]float64
}

// Build derives the report. Ratios with a zero denominator report as zero.
func Build(def *ecosystem.Definition, sol *solver.Solution) *Report {
	r := &Report{
		MarketCaps:            make(map[string]float64, len(def.Market)),
		MarketCaptures:        make(map[string]float64, len(def.Market)),
		PenetrationByConsumer: make(map[string]float64, len(def.Market)),
		CapturesBySupply:      make(map[string]map[string]float64),
		UtilizationBySupply:   make(map[string]float64),
		UtilizationByConsumer: make(map[string]float64, len(def.Market)+1),
	}

	consumers := def.Consumers()
	for _, consumer := range consumers {
		cap := def.Market[consumer]
		captured := sol.Captures[consumer]
		r.MarketSize += cap
		r.TotalCaptured += captured
		r.MarketCaps[consumer] = cap
		r.MarketCaptures[consumer] = captured
		r.PenetrationByConsumer[consumer] = ratio(captured, cap)
	}
	r.MarketPenetration = ratio(r.TotalCaptured, r.MarketSize)

	for _, resource := range def.Resources() {
		r.SupplySize += def.Supply[resource]
	}

	var totalUnused, totalConstrained float64
	for _, resource := range def.DemandedResources() {
		supply := def.Supply[resource]
		row := make(map[string]float64, len(consumers)+1)
		used := 0.0
		for _, consumer := range consumers {
			draw := def.Coefficient(consumer, resource) * sol.Captures[consumer]
			row[consumer] = draw
			used += draw
		}
		row[UnusedKey] = supply - used
		r.CapturesBySupply[resource] = row
		r.UtilizationBySupply[resource] = ratio(used, supply)
		totalUnused += supply - used
		totalConstrained += supply
	}
	r.ConstrainedSupply = totalConstrained
	if totalConstrained > 0 {
		r.SupplyUtilization = 1 - totalUnused/totalConstrained
	}

	accounted := 0.0
	for _, consumer := range consumers {
		draw := 0.0
		for _, row := range r.CapturesBySupply {
			draw += row[consumer]
		}
		u := ratio(draw, r.SupplySize)
		r.UtilizationByConsumer[consumer] = u
		accounted += u
	}
	r.UtilizationByConsumer[UnusedKey] = 1 - accounted

	return r
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
