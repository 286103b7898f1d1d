// Package penalty replaces every remaining equality constraint with a
// squared-residual penalty term folded into the objective.
package penalty

import (
	"github.com/aristath/qumo-reducer/internal/numeric"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/qerr"
)

// Result carries the outcome of a Substitute call beyond the mutated
// model: whether the zero-weight warning path was taken, for the caller
// to log.
type Result struct {
	ZeroWeightWarning bool
}

// Substitute folds every EqualTo constraint's penalty term into m's
// objective and deletes the constraint table. lambda must be >= 0.
//
// Precondition: every remaining constraint in m is EqualTo (the shape
// qumo/equation produces). Any other shape is an UnsupportedConstraint
// error, since reaching this stage with an un-equation-ed constraint is a
// pipeline misuse, not a modeling error.
func Substitute(m *model.Model, lambda float64) (*Result, error) {
	return substitute(m, lambda)
}

// SubstituteClone deep-copies m, substitutes in the copy, and returns it.
func SubstituteClone(m *model.Model, lambda float64) (*model.Model, *Result, error) {
	c := m.Clone()
	res, err := substitute(c, lambda)
	if err != nil {
		return nil, nil, err
	}
	return c, res, nil
}

func substitute(m *model.Model, lambda float64) (*Result, error) {
	if lambda < 0 {
		return nil, &qerr.InvalidPenalty{Value: lambda}
	}

	var firstErr error
	m.Constraints(func(_ model.ConstraintHandle, c *model.Constraint) {
		if firstErr != nil {
			return
		}
		if c.Set.Kind != model.SetEqualTo {
			firstErr = &qerr.UnsupportedConstraint{Kind: c.Set.Kind, ConstraintName: c.Name}
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	var allHandles []model.ConstraintHandle
	m.Constraints(func(h model.ConstraintHandle, _ *model.Constraint) {
		allHandles = append(allHandles, h)
	})

	if numeric.IsZero(lambda) {
		for _, h := range allHandles {
			m.DeleteConstraint(h)
		}
		return &Result{ZeroWeightWarning: true}, nil
	}

	signed := lambda
	if m.Sense() == model.Maximize {
		signed = -lambda
	}

	obj := m.Objective()
	// Fold left over the model's constraint iteration order so the result
	// is deterministic across runs.
	m.Constraints(func(_ model.ConstraintHandle, c *model.Constraint) {
		addSquaredResidual(obj, c.Func, c.Set.Lo, signed)
	})

	for _, h := range allHandles {
		m.DeleteConstraint(h)
	}
	return &Result{}, nil
}

// addSquaredResidual accumulates weight * (f - rhs)^2 into obj. Expanding:
// weight*(f.Constant - rhs)^2
//   + 2*weight*(f.Constant - rhs) * sum_i coef_i x_i
//   + weight * sum_{i,j} coef_i coef_j x_i x_j
func addSquaredResidual(obj *model.Quad, f *model.Aff, rhs, weight float64) {
	shift := f.Constant - rhs
	obj.Affine.Constant += weight * shift * shift

	f.Terms(func(v model.VarID, coef float64) {
		obj.Affine.AddTerm(v, 2*weight*shift*coef)
	})

	// (sum_i c_i x_i)^2 = sum_i c_i^2 x_i^2 + 2*sum_{i<j} c_i c_j x_i x_j.
	// The diagonal term's coefficient is the coefficient of x_i^2
	// directly; the off-diagonal term's coefficient is the coefficient
	// of x_i*x_j directly (doubled relative to the naive product,
	// since both (i,j) and (j,i) contribute). Insertion-order double
	// loop over the constraint's own terms keeps the accumulation
	// deterministic, matching the Aff term order qumo/model guarantees.
	var vars []model.VarID
	coefs := map[model.VarID]float64{}
	f.Terms(func(v model.VarID, coef float64) {
		vars = append(vars, v)
		coefs[v] = coef
	})
	for ii, vi := range vars {
		obj.AddQuadTerm(vi, vi, weight*coefs[vi]*coefs[vi])
		for jj := ii + 1; jj < len(vars); jj++ {
			vj := vars[jj]
			obj.AddQuadTerm(vi, vj, 2*weight*coefs[vi]*coefs[vj])
		}
	}
}
