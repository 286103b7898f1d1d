// Package limits computes the feasible range of an affine expression from
// per-variable bounds, fixes, and binary flags.
package limits

import (
	"github.com/aristath/qumo-reducer/qumo/envelope"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/qerr"
)

// Infer computes a Box envelope for f over the variable bounds recorded in
// m. It never collapses the result to Constant or Infeasible itself —
// that is the job of a downstream envelope.Merge — it only ever returns a
// Box or an error.
func Infer(f *model.Aff, m *model.Model) (envelope.Envelope, error) {
	min, max := f.Constant, f.Constant

	var firstErr error
	f.Terms(func(vid model.VarID, coef float64) {
		if firstErr != nil || coef == 0 {
			return
		}
		v := m.Variable(vid)

		switch {
		case v.IsFixed():
			c := coef * v.FixValue()
			min += c
			max += c
		case v.IsBinary():
			if coef > 0 {
				max += coef
			} else {
				min += coef
			}
		case v.HasLowerBound() && v.HasUpperBound():
			lo := coef * v.LowerBound()
			hi := coef * v.UpperBound()
			if lo > hi {
				lo, hi = hi, lo
			}
			min += lo
			max += hi
		default:
			firstErr = &qerr.UnboundedExpression{VarName: v.Name(), VarID: vid}
		}
	})

	if firstErr != nil {
		return envelope.Envelope{}, firstErr
	}
	return envelope.Box(min, max), nil
}
