package sweep

import (
	"context"
	"math"
	"testing"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

func lineDefinition() *ecosystem.Definition {
	return &ecosystem.Definition{
		Market: map[string]float64{"a": 10},
		Supply: map[string]float64{"r": 5},
		Demand: map[string]map[string]float64{"a": {"r": 1}},
	}
}

func TestRun_SupplyAxis(t *testing.T) {
	axis := Axis{Kind: Supply, Name: "r", From: 0, To: 10, Steps: 6}

	points, err := Run(context.Background(), lineDefinition(), solver.DefaultOptions(), axis, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}

	// Captures track the supply up to the cap, so penetration is v/10.
	for i, p := range points {
		if p.Err != nil {
			t.Fatalf("point %d failed: %v", i, p.Err)
		}
		wantValue := float64(i) * 2
		if math.Abs(p.Value-wantValue) > 1e-9 {
			t.Errorf("point %d: expected value %g, got %g", i, wantValue, p.Value)
		}
		if math.Abs(p.Penetration-wantValue/10) > 1e-6 {
			t.Errorf("point %d: expected penetration %g, got %g", i, wantValue/10, p.Penetration)
		}
	}

	best, ok := Best(points)
	if !ok {
		t.Fatal("expected a best point")
	}
	if best.Value != 10 {
		t.Errorf("expected best at supply 10, got %g", best.Value)
	}
}

func TestRun_MarketAxis(t *testing.T) {
	axis := Axis{Kind: Market, Name: "a", From: 2, To: 4, Steps: 3}

	points, err := Run(context.Background(), lineDefinition(), solver.DefaultOptions(), axis, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Supply allows 5 individuals; caps below that bind.
	wantObjective := []float64{2, 3, 4}
	for i, p := range points {
		if p.Err != nil {
			t.Fatalf("point %d failed: %v", i, p.Err)
		}
		if math.Abs(p.Objective-wantObjective[i]) > 1e-6 {
			t.Errorf("point %d: expected objective %g, got %g", i, wantObjective[i], p.Objective)
		}
	}
}

func TestRun_DoesNotMutateDefinition(t *testing.T) {
	def := lineDefinition()
	axis := Axis{Kind: Supply, Name: "r", From: 0, To: 100, Steps: 5}

	if _, err := Run(context.Background(), def, solver.DefaultOptions(), axis, 1); err != nil {
		t.Fatal(err)
	}
	if def.Supply["r"] != 5 {
		t.Errorf("sweep mutated the definition: supply r = %g", def.Supply["r"])
	}
}

func TestRun_InvalidAxis(t *testing.T) {
	tests := []struct {
		name string
		axis Axis
	}{
		{"too few steps", Axis{Kind: Supply, Name: "r", Steps: 1}},
		{"unknown resource", Axis{Kind: Supply, Name: "kelp", Steps: 5}},
		{"unknown consumer", Axis{Kind: Market, Name: "herons", Steps: 5}},
		{"bad kind", Axis{Kind: "habitat", Name: "r", Steps: 5}},
	}
	for _, tt := range tests {
		if _, err := Run(context.Background(), lineDefinition(), solver.DefaultOptions(), tt.axis, 1); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	axis := Axis{Kind: Supply, Name: "r", From: 0, To: 10, Steps: 5}
	if _, err := Run(ctx, lineDefinition(), solver.DefaultOptions(), axis, 1); err == nil {
		t.Error("expected error from canceled context")
	}
}

func TestBest_AllFailed(t *testing.T) {
	points := []Point{{Err: context.Canceled}, {Err: context.Canceled}}
	if _, ok := Best(points); ok {
		t.Error("expected no best point when every sample failed")
	}
}
