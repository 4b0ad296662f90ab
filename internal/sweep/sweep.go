package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
	"github.com/tomas-hradek/ecolab/internal/report"
	"github.com/tomas-hradek/ecolab/internal/solver"
)

// Kind selects which side of the model an axis varies.
type Kind string

const (
	Supply Kind = "supply"
	Market Kind = "market"
)

// Axis describes a one-dimensional sensitivity sweep: one supply quantity or
// market cap varied over an inclusive range.
type Axis struct {
	Kind  Kind
	Name  string
	From  float64
	To    float64
	Steps int
}

func (a Axis) validate(def *ecosystem.Definition) error {
	if a.Steps < 2 {
		return fmt.Errorf("sweep: need at least 2 steps, got %d", a.Steps)
	}
	switch a.Kind {
	case Supply:
		if _, ok := def.Supply[a.Name]; !ok {
			return fmt.Errorf("sweep: %s is not a supplied resource", a.Name)
		}
	case Market:
		if _, ok := def.Market[a.Name]; !ok {
			return fmt.Errorf("sweep: %s is not a market consumer", a.Name)
		}
	default:
		return fmt.Errorf("sweep: axis kind must be supply or market, got %q", a.Kind)
	}
	return nil
}

// value returns the i-th evenly spaced axis value.
func (a Axis) value(i int) float64 {
	return a.From + (a.To-a.From)*float64(i)/float64(a.Steps-1)
}

// Point is one solved sample along the axis. A failing sample records its
// error and leaves the remaining samples untouched.
type Point struct {
	Value       float64
	Objective   float64
	Penetration float64
	Utilization float64
	Err         error
}

// Run solves the definition once per axis value using a bounded worker pool.
// Results come back in axis order.
func Run(ctx context.Context, def *ecosystem.Definition, opts solver.Options, axis Axis, workers int) ([]Point, error) {
	if err := axis.validate(def); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > axis.Steps {
		workers = axis.Steps
	}

	points := make([]Point, axis.Steps)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				points[i] = solveAt(def, opts, axis, i)
			}
		}()
	}

	var canceled error
feed:
	for i := 0; i < axis.Steps; i++ {
		if err := ctx.Err(); err != nil {
			canceled = err
			break
		}
		select {
		case <-ctx.Done():
			canceled = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if canceled != nil {
		return nil, canceled
	}
	return points, nil
}

func solveAt(def *ecosystem.Definition, opts solver.Options, axis Axis, i int) Point {
	p := Point{Value: axis.value(i)}

	trial := def.Clone()
	switch axis.Kind {
	case Supply:
		trial.Supply[axis.Name] = p.Value
	case Market:
		trial.Market[axis.Name] = p.Value
	}

	prob, err := solver.Build(trial)
	if err != nil {
		p.Err = err
		return p
	}
	sol, err := prob.Solve(opts)
	if err != nil {
		p.Err = err
		return p
	}

	rep := report.Build(trial, sol)
	p.Objective = sol.Objective
	p.Penetration = rep.MarketPenetration
	p.Utilization = rep.SupplyUtilization
	return p
}

// Best returns the point with the highest penetration, skipping failed
// samples. The second return is false when every sample failed.
func Best(points []Point) (Point, bool) {
	best := Point{}
	found := false
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if !found || p.Penetration > best.Penetration {
			best = p
			found = true
		}
	}
	return best, found
}
