package reduce

import (
	"math"
	"testing"

	"github.com/aristath/qumo-reducer/qumo/model"
)

func TestReduceEndToEnd(t *testing.T) {
	// x + y == 1, x,y in [0,1], minimize x.
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	y := m.AddVariable("y", 0, 1)

	f := model.NewAff(0)
	f.AddTerm(x, 1)
	f.AddTerm(y, 1)
	m.AddConstraint("sum_to_one", f, model.EqualTo(1))

	obj := model.NewQuad(0)
	obj.Affine.AddTerm(x, 1)
	m.SetObjective(obj)

	out, err := Reduce(m, Options{PenaltyWeight: 10})
	if err != nil {
		t.Fatalf("Reduce() error = %v", err)
	}
	if out.Instance == nil {
		t.Fatal("expected a non-nil instance")
	}
	if m.NumConstraints() != 0 {
		t.Fatalf("NumConstraints() = %d, want 0 after reduction", m.NumConstraints())
	}

	// The penalised objective should agree with x at a feasible point,
	// up to the penalty term which vanishes there.
	got := out.Instance.Evaluate([]float64{1, 0})
	if math.Abs(got-1) > 1e-6 {
		t.Fatalf("Evaluate(feasible point) = %v, want 1", got)
	}
}

func TestReduceCloneLeavesOriginalUntouched(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.EqualTo(0.5))

	if _, err := ReduceClone(m, Options{PenaltyWeight: 1}); err != nil {
		t.Fatalf("ReduceClone() error = %v", err)
	}
	if m.NumConstraints() != 1 {
		t.Fatalf("original model was mutated: NumConstraints() = %d", m.NumConstraints())
	}
}

func TestReducePropagatesInfeasibility(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 1)
	f := model.NewAff(0)
	f.AddTerm(x, 1)
	m.AddConstraint("c1", f, model.GreaterThan(2))

	if _, err := Reduce(m, Options{PenaltyWeight: 1}); err == nil {
		t.Fatal("expected ModelInfeasible to propagate from boxify")
	}
}
