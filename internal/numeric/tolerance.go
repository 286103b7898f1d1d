// Package numeric centralises the floating-point tolerance rules used
// throughout the reducer and the settlement formulation, so every "is this
// zero" or "are these equal" check in the codebase goes through one place.
package numeric

import "gonum.org/v1/gonum/floats/scalar"

// AbsTol and RelTol bound the "approximately equal" relation used for
// envelope merges, penalty weight checks, and settlement balance checks.
// 1e-9 absolute plus 1e-9 relative is tight enough to distinguish genuine
// infeasibilities from rounding noise accumulated over a handful of linear
// passes.
const (
	AbsTol = 1e-9
	RelTol = 1e-9
)

// EqualApprox reports whether a and b are equal up to AbsTol/RelTol.
func EqualApprox(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, AbsTol, RelTol)
}

// IsZero reports whether v is approximately zero.
func IsZero(v float64) bool {
	return EqualApprox(v, 0)
}

// LessOrEqual reports whether a <= b, tolerating rounding noise at the
// boundary (a may exceed b by up to the tolerance and still count as
// "less or equal").
func LessOrEqual(a, b float64) bool {
	return a <= b || EqualApprox(a, b)
}

// GreaterOrEqual reports whether a >= b within tolerance.
func GreaterOrEqual(a, b float64) bool {
	return a >= b || EqualApprox(a, b)
}
