// Package envelope implements three-valued interval arithmetic over affine
// expressions: a value is either provably infeasible, pinned to a single
// constant, or known only to lie within a closed box. Every arithmetic and
// constraint-refinement rule funnels through this package so the
// "Infeasible absorbs everything" invariant lives in one place.
package envelope

import (
	"fmt"

	"github.com/aristath/qumo-reducer/internal/numeric"
)

// Kind discriminates the three Envelope shapes.
type Kind int

const (
	// KindInfeasible marks an expression with no admissible value.
	KindInfeasible Kind = iota
	// KindConstant marks an expression pinned to exactly one value.
	KindConstant
	// KindBox marks an expression known to lie in a closed interval.
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindInfeasible:
		return "Infeasible"
	case KindConstant:
		return "Constant"
	case KindBox:
		return "Box"
	default:
		return "Unknown"
	}
}

// Envelope is a tagged union over {Infeasible, Constant(v), Box(l,u)}.
// The zero value is not meaningful; construct one with Infeasible,
// Constant, or Box.
type Envelope struct {
	kind  Kind
	value float64 // valid when kind == KindConstant
	lo    float64 // valid when kind == KindBox
	hi    float64 // valid when kind == KindBox
}

// Infeasible returns the absorbing infeasible envelope.
func Infeasible() Envelope {
	return Envelope{kind: KindInfeasible}
}

// Constant returns an envelope pinned to v.
func Constant(v float64) Envelope {
	return Envelope{kind: KindConstant, value: v}
}

// Box returns an envelope bounded by [lo, hi]. It panics if lo > hi, since
// every caller in this codebase is expected to have already checked
// feasibility before constructing a Box; a violated invariant here is a
// programming error, not user input.
func Box(lo, hi float64) Envelope {
	if lo > hi && !numeric.EqualApprox(lo, hi) {
		panic(fmt.Sprintf("envelope: invalid box [%v, %v]: lo > hi", lo, hi))
	}
	return Envelope{kind: KindBox, lo: lo, hi: hi}
}

// Kind reports which shape the envelope holds.
func (e Envelope) Kind() Kind { return e.kind }

// IsInfeasible reports whether e is the infeasible envelope.
func (e Envelope) IsInfeasible() bool { return e.kind == KindInfeasible }

// Value returns the pinned value and true when e is a Constant.
func (e Envelope) Value() (float64, bool) {
	if e.kind != KindConstant {
		return 0, false
	}
	return e.value, true
}

// Bounds returns the [lo, hi] bounds and true when e is a Box.
func (e Envelope) Bounds() (lo, hi float64, ok bool) {
	if e.kind != KindBox {
		return 0, 0, false
	}
	return e.lo, e.hi, true
}

// Add returns e + s.
func (e Envelope) Add(s float64) Envelope {
	switch e.kind {
	case KindInfeasible:
		return e
	case KindConstant:
		return Constant(e.value + s)
	default:
		return Box(e.lo+s, e.hi+s)
	}
}

// Sub returns e - s.
func (e Envelope) Sub(s float64) Envelope {
	return e.Add(-s)
}

// Mul returns e * s.
func (e Envelope) Mul(s float64) Envelope {
	switch e.kind {
	case KindInfeasible:
		return e
	case KindConstant:
		if numeric.IsZero(s) {
			return Constant(0)
		}
		return Constant(e.value * s)
	default:
		if numeric.IsZero(s) {
			return Constant(0)
		}
		lo, hi := e.lo*s, e.hi*s
		if s < 0 {
			lo, hi = hi, lo
		}
		return Box(lo, hi)
	}
}

// Div returns e / s. Division by (approximately) zero is a checked error.
func (e Envelope) Div(s float64) (Envelope, error) {
	if numeric.IsZero(s) {
		return Envelope{}, fmt.Errorf("envelope: division by zero")
	}
	return e.Mul(1 / s), nil
}

// Set is a constraint set against which an envelope can be refined.
type Set struct {
	kind constraintKind
	a, b float64 // meaning depends on kind
}

type constraintKind int

const (
	setGreaterThan constraintKind = iota
	setLessThan
	setEqualTo
	setInterval
)

// GreaterThan builds the set { x : x >= a }.
func GreaterThan(a float64) Set { return Set{kind: setGreaterThan, a: a} }

// LessThan builds the set { x : x <= b }.
func LessThan(b float64) Set { return Set{kind: setLessThan, a: b} }

// EqualTo builds the set { x : x == c }.
func EqualTo(c float64) Set { return Set{kind: setEqualTo, a: c} }

// Interval builds the set { x : a <= x <= b }. It panics if a > b.
func Interval(a, b float64) Set {
	if a > b && !numeric.EqualApprox(a, b) {
		panic(fmt.Sprintf("envelope: invalid interval [%v, %v]: lo > hi", a, b))
	}
	return Set{kind: setInterval, a: a, b: b}
}

// Merge refines e by the constraint set, returning the smallest envelope
// consistent with both. Merge never admits a point not already in e: for
// any S, Merge(e, S) is a subset of e, and merging twice with the same S is
// idempotent.
func Merge(e Envelope, s Set) Envelope {
	switch e.kind {
	case KindInfeasible:
		return e
	case KindConstant:
		return mergeConstant(e.value, s)
	default:
		return mergeBox(e.lo, e.hi, s)
	}
}

func mergeConstant(v float64, s Set) Envelope {
	switch s.kind {
	case setGreaterThan:
		if numeric.GreaterOrEqual(v, s.a) {
			return Constant(v)
		}
		return Infeasible()
	case setLessThan:
		// The LessThan branch historically referenced an undefined
		// `lower` bound when handling Constant(v); the correct check
		// compares against the upper bound `s.a` (named `b` in spec
		// §4.1). We use s.a directly and never reintroduce `lower`.
		if numeric.LessOrEqual(v, s.a) {
			return Constant(v)
		}
		return Infeasible()
	case setEqualTo:
		if numeric.EqualApprox(v, s.a) {
			return Constant(v)
		}
		return Infeasible()
	case setInterval:
		if numeric.GreaterOrEqual(v, s.a) && numeric.LessOrEqual(v, s.b) {
			return Constant(v)
		}
		return Infeasible()
	default:
		return Infeasible()
	}
}

func mergeBox(lo, hi float64, s Set) Envelope {
	switch s.kind {
	case setGreaterThan:
		a := s.a
		if lo > a && !numeric.EqualApprox(lo, a) {
			return Box(lo, hi)
		}
		if hi < a && !numeric.EqualApprox(hi, a) {
			return Infeasible()
		}
		return Box(a, hi)
	case setLessThan:
		b := s.a
		if hi <= b || numeric.EqualApprox(hi, b) {
			return Box(lo, hi)
		}
		if b < lo && !numeric.EqualApprox(b, lo) {
			return Infeasible()
		}
		return Box(lo, b)
	case setEqualTo:
		c := s.a
		if numeric.GreaterOrEqual(c, lo) && numeric.LessOrEqual(c, hi) {
			return Constant(c)
		}
		return Infeasible()
	case setInterval:
		a, b := s.a, s.b
		if numeric.GreaterOrEqual(lo, a) && numeric.LessOrEqual(hi, b) {
			return Box(lo, hi)
		}
		newLo, newHi := maxF(lo, a), minF(hi, b)
		if newLo > newHi && !numeric.EqualApprox(newLo, newHi) {
			return Infeasible()
		}
		return Box(newLo, newHi)
	default:
		return Infeasible()
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
