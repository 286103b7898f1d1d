package penalty

import (
	"testing"

	"github.com/aristath/qumo-reducer/qumo/model"
)

func TestSubstituteNegativeLambdaFails(t *testing.T) {
	m := model.New(model.Minimize)
	if _, err := Substitute(m, -1); err == nil {
		t.Fatal("expected InvalidPenalty error for negative lambda")
	}
}

func TestSubstituteZeroLambdaDeletesConstraintsAndWarns(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.EqualTo(0.5))

	res, err := Substitute(m, 0)
	if err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	if !res.ZeroWeightWarning {
		t.Fatal("expected ZeroWeightWarning for lambda == 0")
	}
	if m.NumConstraints() != 0 {
		t.Fatalf("NumConstraints() = %d, want 0", m.NumConstraints())
	}
	if m.Objective().Affine.Constant != 0 {
		t.Fatalf("objective should be untouched when lambda == 0")
	}
}

func TestSubstituteMinimizeUsesPositiveWeight(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.EqualTo(1))

	if _, err := Substitute(m, 2); err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	// lambda*(x-1)^2 = lambda*x^2 - 2*lambda*x + lambda.
	obj := m.Objective()
	if obj.Affine.Constant != 2 {
		t.Fatalf("objective constant = %v, want 2", obj.Affine.Constant)
	}
	if obj.Affine.Coef(x) != -4 {
		t.Fatalf("objective linear coef = %v, want -4", obj.Affine.Coef(x))
	}
	var quadCoef float64
	obj.QuadTerms(func(p model.VarPair, c float64) { quadCoef = c })
	if quadCoef != 2 {
		t.Fatalf("objective quad coef = %v, want 2", quadCoef)
	}
	if m.NumConstraints() != 0 {
		t.Fatalf("NumConstraints() = %d, want 0", m.NumConstraints())
	}
}

func TestSubstituteMaximizeNegatesWeight(t *testing.T) {
	m := model.New(model.Maximize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.EqualTo(1))

	if _, err := Substitute(m, 2); err != nil {
		t.Fatalf("Substitute() error = %v", err)
	}
	obj := m.Objective()
	if obj.Affine.Constant != -2 {
		t.Fatalf("objective constant = %v, want -2", obj.Affine.Constant)
	}
}

func TestSubstituteRejectsNonEqualTo(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.Interval(0, 1))

	if _, err := Substitute(m, 1); err == nil {
		t.Fatal("expected UnsupportedConstraint error for a non-EqualTo constraint")
	}
}

func TestSubstituteCloneLeavesOriginalUntouched(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.EqualTo(1))

	clone, _, err := SubstituteClone(m, 2)
	if err != nil {
		t.Fatalf("SubstituteClone() error = %v", err)
	}
	if m.NumConstraints() != 1 {
		t.Fatalf("original model was mutated: NumConstraints() = %d", m.NumConstraints())
	}
	if clone.NumConstraints() != 0 {
		t.Fatalf("clone should have folded its constraint: NumConstraints() = %d", clone.NumConstraints())
	}
}
