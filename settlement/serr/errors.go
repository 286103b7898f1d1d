// Package serr defines the settlement-side error taxonomy:
// scenario validation failures and solver-status failures.
package serr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrSolverFailure   = errors.New("solver failure")
)

// InvalidScenario reports a DvP invariant, positivity constraint, or
// duplicate-id violation found while validating a Scenario.
type InvalidScenario struct {
	Detail string
}

func (e *InvalidScenario) Error() string {
	return fmt.Sprintf("invalid scenario: %s", e.Detail)
}

func (e *InvalidScenario) Unwrap() error { return ErrInvalidScenario }

// SolverFailure reports a non-optimal termination status from the backend.
type SolverFailure struct {
	Status string
}

func (e *SolverFailure) Error() string {
	return fmt.Sprintf("solver failure: termination status %q", e.Status)
}

func (e *SolverFailure) Unwrap() error { return ErrSolverFailure }
