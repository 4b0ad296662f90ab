package solver

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/tomas-hradek/ecolab/internal/ecosystem"
)

// simplexTol is the pivot tolerance handed to the simplex routine.
const simplexTol = 1e-7

// Problem is the assembled allocation model: maximize the weighted number of
// captured consumers subject to resource supplies and market caps.
type Problem struct {
	Consumers []string
	// Resources holds the demanded resources, one constraint row each.
	// Supplied resources nobody demands never enter the model.
	Resources []string
	Weights   []float64
	Caps      []float64
	Supply    []float64
	// Demand is len(Resources) x len(Consumers), nil when no resource is
	// demanded.
	Demand *mat.Dense
}

// Build validates the definition and assembles its allocation problem with
// deterministic (sorted) variable and constraint order.
func Build(def *ecosystem.Definition) (Problem, error) {
	if err := def.Validate(); err != nil {
		return Problem{}, err
	}

	consumers := def.Consumers()
	resources := def.DemandedResources()

	p := Problem{
		Consumers: consumers,
		Resources: resources,
		Weights:   make([]float64, len(consumers)),
		Caps:      make([]float64, len(consumers)),
		Supply:    make([]float64, len(resources)),
	}
	for j, consumer := range consumers {
		p.Weights[j] = def.Weight(consumer)
		p.Caps[j] = def.Market[consumer]
	}
	for i, resource := range resources {
		p.Supply[i] = def.Supply[resource]
	}
	if len(resources) > 0 {
		p.Demand = mat.NewDense(len(resources), len(consumers), nil)
		for i, resource := range resources {
			for j, consumer := range consumers {
				p.Demand.Set(i, j, def.Coefficient(consumer, resource))
			}
		}
	}
	return p, nil
}

// solveBounded solves the continuous relaxation with per-variable bounds.
// Lower bounds are shifted out of the variables so the model stays in the
// standard form the simplex routine expects: one slack per resource row and
// one per cap row.
func (p Problem) solveBounded(lower, upper []float64) (float64, []float64, error) {
	n := len(p.Consumers)
	mr := len(p.Resources)
	m := mr + n
	nv := n + m

	c := make([]float64, nv)
	for j := range p.Consumers {
		c[j] = -p.Weights[j]
	}

	a := mat.NewDense(m, nv, nil)
	b := make([]float64, m)

	for i := 0; i < mr; i++ {
		shifted := p.Supply[i]
		for j := 0; j < n; j++ {
			d := p.Demand.At(i, j)
			a.Set(i, j, d)
			shifted -= d * lower[j]
		}
		a.Set(i, n+i, 1)
		b[i] = shifted
	}
	for j := 0; j < n; j++ {
		row := mr + j
		span := upper[j] - lower[j]
		if span < 0 {
			return 0, nil, ErrInfeasible
		}
		a.Set(row, j, 1)
		a.Set(row, n+row, 1)
		b[row] = span
	}

	opt, sol, err := lp.Simplex(c, a, b, simplexTol, nil)
	if err != nil {
		switch {
		case errors.Is(err, lp.ErrInfeasible):
			return 0, nil, ErrInfeasible
		case errors.Is(err, lp.ErrUnbounded):
			return 0, nil, ErrUnbounded
		default:
			return 0, nil, err
		}
	}

	obj := -opt
	x := make([]float64, n)
	for j := 0; j < n; j++ {
		obj += p.Weights[j] * lower[j]
		v := sol[j] + lower[j]
		// Guard against solver noise outside the bounds.
		if v < 0 {
			v = 0
		}
		if v > p.Caps[j] {
			v = p.Caps[j]
		}
		x[j] = v
	}
	return obj, x, nil
}

// solution packages a variable vector as a per-consumer capture map.
func (p Problem) solution(x []float64, integer bool, nodes int) *Solution {
	s := &Solution{
		Captures: make(map[string]float64, len(p.Consumers)),
		Nodes:    nodes,
	}
	for j, consumer := range p.Consumers {
		v := x[j]
		if integer {
			v = math.Round(v)
		}
		if v < 0 {
			v = 0
		}
		if v > p.Caps[j] {
			v = p.Caps[j]
		}
		s.Captures[consumer] = v
		s.Total += v
		s.Objective += p.Weights[j] * v
	}
	return s
}
