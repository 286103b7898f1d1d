package limits

import (
	"errors"
	"math"
	"testing"

	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/qumo/qerr"
)

func TestInferBoundedExpression(t *testing.T) {
	// x in [0,10], y in [-2,4], f = 2x - y + 1.
	m := model.New(model.Minimize)
	x := m.AddVariable("x", 0, 10)
	y := m.AddVariable("y", -2, 4)

	f := model.NewAff(1)
	f.AddTerm(x, 2)
	f.AddTerm(y, -1)

	e, err := Infer(f, m)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	lo, hi, ok := e.Bounds()
	if !ok || lo != -3 || hi != 23 {
		t.Fatalf("Infer() = %v, want Box(-3, 23)", e)
	}
}

func TestInferFixedVariable(t *testing.T) {
	m := model.New(model.Minimize)
	x := m.AddFixedVariable("x", 3)

	f := model.NewAff(0)
	f.AddTerm(x, 5)

	e, err := Infer(f, m)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	lo, hi, ok := e.Bounds()
	if !ok || lo != 15 || hi != 15 {
		t.Fatalf("Infer() = %v, want Box(15,15)", e)
	}
}

func TestInferBinaryVariable(t *testing.T) {
	m := model.New(model.Minimize)
	pos := m.AddBinaryVariable("b_pos")
	neg := m.AddBinaryVariable("b_neg")

	f := model.NewAff(0)
	f.AddTerm(pos, 3)
	f.AddTerm(neg, -3)

	e, err := Infer(f, m)
	if err != nil {
		t.Fatalf("Infer() error = %v", err)
	}
	lo, hi, ok := e.Bounds()
	if !ok || lo != -3 || hi != 3 {
		t.Fatalf("Infer() = %v, want Box(-3,3)", e)
	}
}

func TestInferUnboundedFails(t *testing.T) {
	m := model.New(model.Minimize)
	free := m.AddVariable("free", math.Inf(-1), math.Inf(1))

	f := model.NewAff(0)
	f.AddTerm(free, 1)

	_, err := Infer(f, m)
	if err == nil {
		t.Fatal("expected UnboundedExpression error")
	}
	var target *qerr.UnboundedExpression
	if !errors.As(err, &target) {
		t.Fatalf("error = %v, want *qerr.UnboundedExpression", err)
	}
}

func TestInferOneSidedBoundUnbounded(t *testing.T) {
	m := model.New(model.Minimize)
	halfOpen := m.AddVariable("half_open", 0, math.Inf(1))

	f := model.NewAff(0)
	f.AddTerm(halfOpen, 1)

	_, err := Infer(f, m)
	if err == nil {
		t.Fatal("expected UnboundedExpression error for a one-sided bound")
	}
}
