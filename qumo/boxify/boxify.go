// Package boxify rewrites every linear constraint in a model into the
// canonical form l <= f(x) <= u with u-l == 1 and f constant-free,
// the shape the equation converter (qumo/equation) requires.
package boxify

import (
	"github.com/aristath/qumo-reducer/qumo/envelope"
	"github.com/aristath/qumo-reducer/qumo/limits"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/qerr"
)

func toEnvelopeSet(s model.Set) (envelope.Set, error) {
	switch s.Kind {
	case model.SetGreaterThan:
		return envelope.GreaterThan(s.Lo), nil
	case model.SetLessThan:
		return envelope.LessThan(s.Hi), nil
	case model.SetEqualTo:
		return envelope.EqualTo(s.Lo), nil
	case model.SetInterval:
		return envelope.Interval(s.Lo, s.Hi), nil
	default:
		return envelope.Set{}, &qerr.UnsupportedConstraint{Kind: s.Kind}
	}
}

// Boxify rewrites m's constraints in place. See BoxifyClone for the
// cloning variant.
func Boxify(m *model.Model) error {
	return boxify(m)
}

// BoxifyClone deep-copies m, rewrites the copy's constraints, and returns
// the copy, leaving m untouched.
func BoxifyClone(m *model.Model) (*model.Model, error) {
	c := m.Clone()
	if err := boxify(c); err != nil {
		return nil, err
	}
	return c, nil
}

func boxify(m *model.Model) error {
	type rewrite struct {
		old  model.ConstraintHandle
		name string
		fn   *model.Aff
		set  model.Set
	}

	var toDelete []model.ConstraintHandle
	var toAdd []rewrite

	var firstErr error
	m.Constraints(func(h model.ConstraintHandle, c *model.Constraint) {
		if firstErr != nil {
			return
		}
		if c.Set.Kind == model.SetSemiinteger || c.Set.Kind == model.SetSemicontinuous {
			firstErr = &qerr.UnsupportedConstraint{Kind: c.Set.Kind, ConstraintName: c.Name}
			return
		}

		envSet, err := toEnvelopeSet(c.Set)
		if err != nil {
			firstErr = err
			return
		}

		limitBox, err := limits.Infer(c.Func, m)
		if err != nil {
			firstErr = err
			return
		}
		e := envelope.Merge(limitBox, envSet)

		switch e.Kind() {
		case envelope.KindInfeasible:
			firstErr = &qerr.ModelInfeasible{ConstraintName: c.Name, Handle: h}
			return

		case envelope.KindConstant:
			v, _ := e.Value()
			newFn := c.Func.Clone()
			rhs := v - newFn.Constant
			newFn.Constant = 0
			toDelete = append(toDelete, h)
			toAdd = append(toAdd, rewrite{old: h, name: c.Name, fn: newFn, set: model.EqualTo(rhs)})

		case envelope.KindBox:
			lo, hi, _ := e.Bounds()
			loShift := lo - c.Func.Constant
			hiShift := hi - c.Func.Constant
			r := hiShift - loShift
			if r <= 0 {
				// r==0 reduces to the Constant case and must never
				// reach here; r<0 would violate the Box invariant
				// lo<=hi already checked by Merge. Both indicate a
				// programming error upstream, not user
				// input, so this is an assertion rather than a typed
				// error.
				panic("boxify: non-positive range on a Box constraint")
			}

			newFn := c.Func.Clone()
			newFn.Constant = 0
			newFn.ScaleTermsInPlace(1 / r)
			newLo := loShift / r
			newHi := hiShift / r

			toDelete = append(toDelete, h)
			toAdd = append(toAdd, rewrite{old: h, name: c.Name, fn: newFn, set: model.Interval(newLo, newHi)})
		}
	})
	if firstErr != nil {
		return firstErr
	}

	for _, h := range toDelete {
		m.DeleteConstraint(h)
	}
	for _, rw := range toAdd {
		m.AddConstraint(rw.name, rw.fn, rw.set)
	}
	return nil
}
