package envelope

import "testing"

func TestArithmeticRingAxioms(t *testing.T) {
	tests := []struct {
		name string
		e    Envelope
	}{
		{"box", Box(-2, 4)},
		{"constant", Constant(3)},
		{"infeasible", Infeasible()},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/add associativity", func(t *testing.T) {
			got := tt.e.Add(2).Add(5)
			want := tt.e.Add(7)
			if !envelopesEqual(got, want) {
				t.Errorf("(e+2)+5 = %v, want e+7 = %v", got, want)
			}
		})
		t.Run(tt.name+"/mul associativity", func(t *testing.T) {
			got := tt.e.Mul(2).Mul(5)
			want := tt.e.Mul(10)
			if !envelopesEqual(got, want) {
				t.Errorf("(e*2)*5 = %v, want e*10 = %v", got, want)
			}
		})
		t.Run(tt.name+"/mul zero collapses to Constant(0)", func(t *testing.T) {
			got := tt.e.Mul(0)
			if tt.e.IsInfeasible() {
				if !got.IsInfeasible() {
					t.Errorf("Infeasible*0 = %v, want Infeasible", got)
				}
				return
			}
			if v, ok := got.Value(); !ok || v != 0 {
				t.Errorf("e*0 = %v, want Constant(0)", got)
			}
		})
	}
}

func TestMulNegativeSwapsBounds(t *testing.T) {
	e := Box(-2, 4)
	got := e.Mul(-1)
	lo, hi, ok := got.Bounds()
	if !ok || lo != -4 || hi != 2 {
		t.Errorf("Box(-2,4)*-1 = %v, want Box(-4,2)", got)
	}
}

func TestDivByZeroIsError(t *testing.T) {
	_, err := Box(0, 1).Div(0)
	if err == nil {
		t.Fatal("expected error dividing by zero")
	}
}

func TestMergeMonotonicityAndIdempotence(t *testing.T) {
	e := Box(-10, 10)
	s := Interval(-3, 3)

	once := Merge(e, s)
	twice := Merge(once, s)
	if !envelopesEqual(once, twice) {
		t.Errorf("merge is not idempotent: once=%v twice=%v", once, twice)
	}

	lo, hi, ok := once.Bounds()
	if !ok || lo < -3 || hi > 3 {
		t.Errorf("merge admitted points outside the refining set: %v", once)
	}
}

func TestMergeConcreteScenario(t *testing.T) {
	// infer_limits(2x - y + 1) with x in [0,10], y in [-2,4] = Box(-3, 23);
	// merged with LessThan(5) -> Box(-3, 5).
	e := Box(-3, 23)
	got := Merge(e, LessThan(5))
	lo, hi, ok := got.Bounds()
	if !ok || lo != -3 || hi != 5 {
		t.Fatalf("Merge(Box(-3,23), LessThan(5)) = %v, want Box(-3,5)", got)
	}
}

func TestMergeInfeasibleDetection(t *testing.T) {
	e := Box(0, 1)
	got := Merge(e, GreaterThan(2))
	if !got.IsInfeasible() {
		t.Fatalf("Merge(Box(0,1), GreaterThan(2)) = %v, want Infeasible", got)
	}
}

func TestMergeLessThanUsesUpperNotLower(t *testing.T) {
	// The LessThan branch over a Constant must compare against the set's
	// upper bound, not an undefined lower bound.
	got := Merge(Constant(4), LessThan(5))
	if v, ok := got.Value(); !ok || v != 4 {
		t.Fatalf("Merge(Constant(4), LessThan(5)) = %v, want Constant(4)", got)
	}
	got = Merge(Constant(6), LessThan(5))
	if !got.IsInfeasible() {
		t.Fatalf("Merge(Constant(6), LessThan(5)) = %v, want Infeasible", got)
	}
}

func TestInfeasibleIsAbsorbing(t *testing.T) {
	e := Infeasible()
	ops := []Envelope{
		e.Add(5),
		e.Sub(5),
		e.Mul(5),
		Merge(e, Interval(0, 1)),
	}
	for _, got := range ops {
		if !got.IsInfeasible() {
			t.Errorf("expected Infeasible to absorb operation, got %v", got)
		}
	}
}

func envelopesEqual(a, b Envelope) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindConstant:
		av, _ := a.Value()
		bv, _ := b.Value()
		return approxEqual(av, bv)
	case KindBox:
		alo, ahi, _ := a.Bounds()
		blo, bhi, _ := b.Bounds()
		return approxEqual(alo, blo) && approxEqual(ahi, bhi)
	default:
		return true
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
