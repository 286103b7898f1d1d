// Package equation collapses each boxified Interval constraint into a
// single equality by introducing one slack variable per constraint.
// EqualTo constraints, such as those boxify emits for
// provably-constant expressions, pass through unchanged.
package equation

import (
	"fmt"

	"github.com/aristath/qumo-reducer/internal/numeric"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/qerr"
)

// ToEquations rewrites m's constraints in place. See ToEquationsClone for
// the cloning variant.
func ToEquations(m *model.Model) error {
	return toEquations(m)
}

// ToEquationsClone deep-copies m, rewrites the copy, and returns it.
func ToEquationsClone(m *model.Model) (*model.Model, error) {
	c := m.Clone()
	if err := toEquations(c); err != nil {
		return nil, err
	}
	return c, nil
}

func toEquations(m *model.Model) error {
	type rewrite struct {
		name string
		fn   *model.Aff
		rhs  float64
	}

	var toDelete []model.ConstraintHandle
	var toAdd []rewrite
	slackIdx := 0

	var firstErr error
	m.Constraints(func(h model.ConstraintHandle, c *model.Constraint) {
		if firstErr != nil {
			return
		}
		switch c.Set.Kind {
		case model.SetEqualTo:
			// Pass through unchanged.
			return
		case model.SetInterval:
			if !numeric.EqualApprox(c.Set.Hi-c.Set.Lo, 1) {
				firstErr = &qerr.UnsupportedConstraint{Kind: c.Set.Kind, ConstraintName: c.Name}
				return
			}
			slackName := fmt.Sprintf("slack[%d]", slackIdx)
			slackIdx++
			slackID := m.AddSlackVariable(slackName)

			fn := c.Func.Clone()
			fn.AddTerm(slackID, 1)

			toDelete = append(toDelete, h)
			toAdd = append(toAdd, rewrite{name: c.Name, fn: fn, rhs: c.Set.Hi})
		default:
			firstErr = &qerr.UnsupportedConstraint{Kind: c.Set.Kind, ConstraintName: c.Name}
		}
	})
	if firstErr != nil {
		return firstErr
	}

	for _, h := range toDelete {
		m.DeleteConstraint(h)
	}
	for _, rw := range toAdd {
		m.AddConstraint(rw.name, rw.fn, model.EqualTo(rw.rhs))
	}
	return nil
}
