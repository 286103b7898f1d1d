// Package solver defines the backend abstraction that the settlement and
// QUMO formulations solve against. Concrete backends live in
// sibling packages; this package only fixes the contract.
package solver

import (
	"context"

	"github.com/aristath/qumo-reducer/qumo/model"
)

// Status is a solver termination status.
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnbounded  Status = "UNBOUNDED"
	StatusError      Status = "ERROR"
)

// Backend is the capability a settlement or QUMO formulation solves
// against: set the optimizer, optionally silence it, run optimize, then
// read back the termination status and variable values.
type Backend interface {
	// SetOptimizer selects the underlying solver implementation by name
	// (e.g. "highs"). Backends with a single implementation may ignore it.
	SetOptimizer(name string) error
	// SetSilent toggles solver-internal logging.
	SetSilent(silent bool)
	// Optimize solves m and records the outcome for TerminationStatus/Value.
	Optimize(ctx context.Context, m *model.Model) error
	// TerminationStatus reports the outcome of the most recent Optimize call.
	TerminationStatus() Status
	// Value returns the optimal value assigned to v by the most recent
	// successful Optimize call.
	Value(v model.VarID) float64
}

// Solve runs backend against m and extracts the result: if every variable
// is binary, the sorted indices of variables set to 1; otherwise that list
// plus a name->value map for the remaining variables.
func Solve(ctx context.Context, backend Backend, m *model.Model) (*Result, error) {
	if err := backend.Optimize(ctx, m); err != nil {
		return nil, err
	}
	if status := backend.TerminationStatus(); status != StatusOptimal {
		return nil, &OptimizeFailure{Status: status}
	}

	res := &Result{}
	allBinary := true
	m.Variables(func(v model.Variable) {
		if !v.IsBinary() {
			allBinary = false
		}
	})

	m.Variables(func(v model.Variable) {
		val := backend.Value(v.ID())
		if v.IsBinary() {
			if val > 0.5 {
				res.SelectedIndices = append(res.SelectedIndices, int(v.ID()))
			}
			return
		}
		if !allBinary {
			if res.ContinuousValues == nil {
				res.ContinuousValues = make(map[string]float64)
			}
			res.ContinuousValues[v.Name()] = val
		}
	})
	return res, nil
}

// Result is the extracted outcome of a Solve call.
type Result struct {
	SelectedIndices  []int
	ContinuousValues map[string]float64
}

// OptimizeFailure reports a non-optimal termination status.
type OptimizeFailure struct {
	Status Status
}

func (e *OptimizeFailure) Error() string {
	return "solver: non-optimal termination status " + string(e.Status)
}
