// Package qerr defines the typed error taxonomy the reducer pipeline
// raises. Each error type carries the context a caller needs
// to report the failure without re-deriving it, and exposes a sentinel so
// callers can classify failures with errors.Is without string-matching.
package qerr

import (
	"errors"
	"fmt"

	"github.com/aristath/qumo-reducer/qumo/model"
)

// Sentinels for errors.Is classification. Each concrete error type below
// wraps the matching sentinel.
var (
	ErrInfeasible          = errors.New("model is infeasible")
	ErrUnboundedExpression = errors.New("expression is unbounded")
	ErrInvalidPenalty      = errors.New("invalid penalty weight")
	ErrUnsupportedSet      = errors.New("unsupported constraint set")
)

// ModelInfeasible reports that an envelope collapsed to Infeasible while
// processing the named constraint.
type ModelInfeasible struct {
	ConstraintName string
	Handle         model.ConstraintHandle
}

func (e *ModelInfeasible) Error() string {
	return fmt.Sprintf("model infeasible: constraint %q (handle %d)", e.ConstraintName, e.Handle)
}

func (e *ModelInfeasible) Unwrap() error { return ErrInfeasible }

// UnboundedExpression reports that limit inference reached a variable with
// neither a fix, a binary flag, nor two finite bounds.
type UnboundedExpression struct {
	VarName string
	VarID   model.VarID
}

func (e *UnboundedExpression) Error() string {
	return fmt.Sprintf("unbounded expression: variable %q (id %d) has no fix, binary flag, or two-sided bounds", e.VarName, e.VarID)
}

func (e *UnboundedExpression) Unwrap() error { return ErrUnboundedExpression }

// InvalidPenalty reports a negative penalty weight passed to the penalty
// substitutor.
type InvalidPenalty struct {
	Value float64
}

func (e *InvalidPenalty) Error() string {
	return fmt.Sprintf("invalid penalty weight %v: must be >= 0", e.Value)
}

func (e *InvalidPenalty) Unwrap() error { return ErrInvalidPenalty }

// UnsupportedConstraint reports a constraint set kind the pipeline cannot
// process at the stage it was encountered: Semiinteger/Semicontinuous
// sets, or any shape other than Box(l, u=l+1)/EqualTo reaching the
// equation converter.
type UnsupportedConstraint struct {
	Kind           model.SetKind
	ConstraintName string
}

func (e *UnsupportedConstraint) Error() string {
	return fmt.Sprintf("unsupported constraint set (kind %d) on constraint %q", e.Kind, e.ConstraintName)
}

func (e *UnsupportedConstraint) Unwrap() error { return ErrUnsupportedSet }
