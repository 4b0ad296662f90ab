package solver

import (
	"errors"
	"math"
)

const (
	// DefaultTol is the integrality tolerance.
	DefaultTol = 1e-6
	// DefaultMaxNodes bounds the branch-and-bound search.
	DefaultMaxNodes = 10000
	// boundEps guards pruning against simplex round-off.
	boundEps = 1e-9
)

// Options control a solve. The zero value of Tol and MaxNodes means the
// package defaults; Integer allocates whole individuals instead of the
// continuous relaxation.
type Options struct {
	Integer  bool
	Tol      float64
	MaxNodes int
}

func DefaultOptions() Options {
	return Options{Integer: true, Tol: DefaultTol, MaxNodes: DefaultMaxNodes}
}

// Solution is an optimal allocation.
type Solution struct {
	// Objective is the weighted objective value.
	Objective float64
	// Total is the unweighted number of captured individuals.
	Total float64
	// Captures maps each consumer to its allocated population.
	Captures map[string]float64
	// Nodes counts the relaxations solved (1 for a continuous solve).
	Nodes int
}

// Solve optimizes the problem. The continuous path is a single simplex call;
// the integer path searches over per-variable bound splits, each node a
// fresh simplex call. All linear programming happens inside the library.
func (p Problem) Solve(opts Options) (*Solution, error) {
	if len(p.Consumers) == 0 {
		return nil, ErrEmptyModel
	}
	if opts.Tol <= 0 {
		opts.Tol = DefaultTol
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}

	lower := make([]float64, len(p.Consumers))
	upper := append([]float64(nil), p.Caps...)

	if !opts.Integer {
		_, x, err := p.solveBounded(lower, upper)
		if err != nil {
			return nil, err
		}
		return p.solution(x, false, 1), nil
	}
	return p.branchAndBound(lower, upper, opts)
}

type node struct {
	lower []float64
	upper []float64
}

func (p Problem) branchAndBound(lower, upper []float64, opts Options) (*Solution, error) {
	var best *Solution
	bestObj := math.Inf(-1)

	stack := []node{{lower: lower, upper: upper}}
	nodes := 0

	for len(stack) > 0 {
		if nodes >= opts.MaxNodes {
			if best != nil {
				best.Nodes = nodes
				return best, nil
			}
			return nil, ErrNodeLimit
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		obj, x, err := p.solveBounded(nd.lower, nd.upper)
		if errors.Is(err, ErrInfeasible) {
			continue
		}
		if err != nil {
			return nil, &NodeError{Node: nodes, Wrapped: err}
		}
		// The relaxation bounds every integer point below this node.
		if best != nil && obj <= bestObj+boundEps {
			continue
		}

		j := mostFractional(x, opts.Tol)
		if j < 0 {
			sol := p.solution(x, true, nodes)
			if best == nil || sol.Objective > bestObj {
				best = sol
				bestObj = sol.Objective
			}
			continue
		}

		floor := math.Floor(x[j])
		up := node{lower: clone(nd.lower), upper: clone(nd.upper)}
		up.lower[j] = floor + 1
		down := node{lower: clone(nd.lower), upper: clone(nd.upper)}
		down.upper[j] = floor
		// Explore the rounded-down branch first.
		stack = append(stack, up, down)
	}

	if best == nil {
		return nil, ErrInfeasible
	}
	best.Nodes = nodes
	return best, nil
}

// mostFractional picks the variable farthest from integrality, or -1 when
// the vector is integral within tol.
func mostFractional(x []float64, tol float64) int {
	best := -1
	bestFrac := tol
	for j, v := range x {
		f := math.Abs(v - math.Round(v))
		if f > bestFrac {
			bestFrac = f
			best = j
		}
	}
	return best
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
