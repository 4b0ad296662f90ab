package solver

import (
	"errors"
	"fmt"
)

// Domain errors for solve operations.
var (
	// ErrEmptyModel indicates a definition with no consumers to allocate.
	ErrEmptyModel = errors.New("solver: model has no consumers")

	// ErrInfeasible indicates no allocation satisfies the constraints.
	ErrInfeasible = errors.New("solver: no feasible allocation exists")

	// ErrUnbounded indicates the objective can grow without limit.
	ErrUnbounded = errors.New("solver: objective is unbounded")

	// ErrNodeLimit indicates the integrality search exhausted its node
	// budget before finding any integer allocation.
	ErrNodeLimit = errors.New("solver: branch and bound node limit reached")
)

// NodeError wraps a solver failure with the search node it occurred in.
type NodeError struct {
	Node    int
	Wrapped error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("solver: node %d: %v", e.Node, e.Wrapped)
}

func (e *NodeError) Unwrap() error {
	return e.Wrapped
}
