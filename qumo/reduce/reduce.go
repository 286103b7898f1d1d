// Package reduce wires the full QUMO reduction pipeline:
// boxify -> to-equations -> to-penalties -> extract.
package reduce

import (
	"github.com/aristath/qumo-reducer/qumo/boxify"
	"github.com/aristath/qumo-reducer/qumo/equation"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/penalty"
	"github.com/aristath/qumo-reducer/qumo/qumo"
)

// Options configures a Reduce call.
type Options struct {
	// PenaltyWeight is the lambda passed to the penalty substitutor.
	PenaltyWeight float64
}

// Outcome carries the produced instance plus advisory information the
// caller may want to log.
type Outcome struct {
	Instance          *qumo.Instance
	ZeroWeightWarning bool
}

// Reduce runs the pipeline on m in place and returns the resulting QUMO
// instance. See ReduceClone for the non-mutating variant.
func Reduce(m *model.Model, opts Options) (*Outcome, error) {
	return reduce(m, opts)
}

// ReduceClone deep-copies m, runs the pipeline on the copy, and returns
// the resulting instance without mutating m.
func ReduceClone(m *model.Model, opts Options) (*Outcome, error) {
	c := m.Clone()
	return reduce(c, opts)
}

func reduce(m *model.Model, opts Options) (*Outcome, error) {
	if err := boxify.Boxify(m); err != nil {
		return nil, err
	}
	if err := equation.ToEquations(m); err != nil {
		return nil, err
	}
	penaltyRes, err := penalty.Substitute(m, opts.PenaltyWeight)
	if err != nil {
		return nil, err
	}
	inst := qumo.Extract(m)
	return &Outcome{Instance: inst, ZeroWeightWarning: penaltyRes.ZeroWeightWarning}, nil
}
