// Package reference implements an in-process solver.Backend good enough to
// exercise the settlement and QUMO formulations end to end without a real
// HiGHS binary. It solves pure-binary models by exhaustive enumeration and
// reports an error for anything with a continuous variable, since the
// formulations this module builds are binary-only.
package reference

import (
	"context"
	"fmt"
	"math"

	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/qumo/model"
)

// Backend is a brute-force reference solver. It is deliberately simple:
// correctness over speed, intended for tests and small scenarios, not
// production-scale instances.
type Backend struct {
	silent bool

	status Status
	values map[model.VarID]float64
}

// Status is an alias kept local so callers don't need to import the
// parent package just to read a result; it mirrors solver.Status exactly.
type Status = solver.Status

// New returns a ready-to-use reference backend.
func New() *Backend {
	return &Backend{status: solver.StatusError, values: make(map[model.VarID]float64)}
}

// SetOptimizer accepts "" or "reference" (the backend has only one
// algorithm) and rejects any other name.
func (b *Backend) SetOptimizer(name string) error {
	if name != "" && name != "reference" {
		return fmt.Errorf("reference backend: unsupported optimizer %q", name)
	}
	return nil
}

// SetSilent toggles whether Optimize logs progress. The reference backend
// never logs regardless; the flag is stored for interface compliance.
func (b *Backend) SetSilent(silent bool) { b.silent = silent }

// Optimize exhaustively searches every assignment of the model's binary
// variables, keeping the best feasible one according to the model's sense.
// Continuous, non-fixed variables are rejected: the reference backend has
// no LP relaxation step.
func (b *Backend) Optimize(ctx context.Context, m *model.Model) error {
	assignment := make(map[model.VarID]float64)
	var freeBinaries []model.VarID
	var unsupported error
	m.Variables(func(v model.Variable) {
		switch {
		case v.IsFixed():
			assignment[v.ID()] = v.FixValue()
		case v.IsBinary():
			freeBinaries = append(freeBinaries, v.ID())
		default:
			unsupported = fmt.Errorf("reference backend: variable %q is not binary or fixed; no LP relaxation available", v.Name())
		}
	})
	if unsupported != nil {
		b.status = solver.StatusError
		return unsupported
	}

	if len(freeBinaries) > 24 {
		b.status = solver.StatusError
		return fmt.Errorf("reference backend: %d free binary variables exceeds the exhaustive-search limit", len(freeBinaries))
	}

	bestFeasible := false
	var bestValue float64
	bestAssignment := make(map[model.VarID]float64)

	total := 1 << uint(len(freeBinaries))
	for mask := 0; mask < total; mask++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		for i, id := range freeBinaries {
			if mask&(1<<uint(i)) != 0 {
				assignment[id] = 1
			} else {
				assignment[id] = 0
			}
		}

		if !feasible(m, assignment) {
			continue
		}
		value := objectiveValue(m, assignment)

		better := !bestFeasible
		if bestFeasible {
			if m.Sense() == model.Maximize {
				better = value > bestValue
			} else {
				better = value < bestValue
			}
		}
		if better {
			bestFeasible = true
			bestValue = value
			for k, v := range assignment {
				bestAssignment[k] = v
			}
		}
	}

	if !bestFeasible {
		b.status = solver.StatusInfeasible
		return nil
	}
	b.status = solver.StatusOptimal
	b.values = bestAssignment
	return nil
}

// TerminationStatus reports the outcome of the most recent Optimize call.
func (b *Backend) TerminationStatus() solver.Status { return b.status }

// Value returns the optimal value assigned to v.
func (b *Backend) Value(v model.VarID) float64 { return b.values[v] }

func feasible(m *model.Model, assignment map[model.VarID]float64) bool {
	ok := true
	m.Constraints(func(_ model.ConstraintHandle, c *model.Constraint) {
		if !ok {
			return
		}
		val := evalAff(c.Func, assignment)
		switch c.Set.Kind {
		case model.SetGreaterThan:
			ok = val >= c.Set.Lo-1e-9
		case model.SetLessThan:
			ok = val <= c.Set.Hi+1e-9
		case model.SetEqualTo:
			ok = math.Abs(val-c.Set.Lo) <= 1e-9
		case model.SetInterval:
			ok = val >= c.Set.Lo-1e-9 && val <= c.Set.Hi+1e-9
		default:
			ok = false
		}
	})
	return ok
}

func evalAff(f *model.Aff, assignment map[model.VarID]float64) float64 {
	v := f.Constant
	f.Terms(func(id model.VarID, coef float64) {
		v += coef * assignment[id]
	})
	return v
}

func objectiveValue(m *model.Model, assignment map[model.VarID]float64) float64 {
	obj := m.Objective()
	v := evalAff(obj.Affine, assignment)
	obj.QuadTerms(func(p model.VarPair, coef float64) {
		v += coef * assignment[p.I] * assignment[p.J]
	})
	return v
}
