// Package validate checks a proposed settlement solution for feasibility
// and maximality: negative-balance detection and the
// admissibility check that catches non-maximal solutions.
package validate

import (
	"fmt"

	"github.com/aristath/qumo-reducer/internal/numeric"
	"github.com/aristath/qumo-reducer/settlement/assembler"
	"github.com/aristath/qumo-reducer/settlement/execute"
)

// Violation names an out-of-bounds participant after execution.
type Violation struct {
	Party   int
	Reason  string
}

func (v Violation) String() string {
	return fmt.Sprintf("party %d: %s", v.Party, v.Reason)
}

// Result is the outcome of Validate.
type Result struct {
	State      *execute.State
	Violations []Violation
}

// Feasible reports whether the validated solution had no violations.
func (r *Result) Feasible() bool { return len(r.Violations) == 0 }

// Validate executes txIndices against mkt and checks that every
// participant ends with security >= 0 and conversion-augmented wealth
// >= 0, collecting any violations rather than failing fast.
func Validate(mkt *assembler.Market, txIndices []int) (*Result, error) {
	state, err := execute.Execute(mkt, txIndices)
	if err != nil {
		return nil, err
	}

	res := &Result{State: state}
	for p := 0; p < mkt.Transactions.NumParties; p++ {
		if !numeric.GreaterOrEqual(state.Security[p], 0) {
			res.Violations = append(res.Violations, Violation{Party: p, Reason: "negative security balance"})
		}
		if !numeric.GreaterOrEqual(state.AfterConversion[p], 0) {
			res.Violations = append(res.Violations, Violation{Party: p, Reason: "negative conversion-augmented wealth"})
		}
	}
	return res, nil
}

// Admissible reports whether applying transaction txIndex's delta to an
// already-executed state would keep every participant's security balance
// and conversion-augmented wealth non-negative. A correct maximal solution
// has no admissible transaction outside the selected set.
func Admissible(mkt *assembler.Market, state *execute.State, txIndex int) bool {
	security := append([]float64(nil), state.Security...)
	currency := append([]float64(nil), state.Currency...)

	for _, nz := range mkt.Transactions.Security {
		if nz.Transaction == txIndex {
			security[nz.Party] += nz.Value
		}
	}
	for _, nz := range mkt.Transactions.Currency {
		if nz.Transaction == txIndex {
			currency[nz.Party] += nz.Value
		}
	}

	for p := 0; p < mkt.Transactions.NumParties; p++ {
		if !numeric.GreaterOrEqual(security[p], 0) {
			return false
		}
		afterConversion := currency[p] + mkt.Setup.Conversion[p]*security[p]
		if !numeric.GreaterOrEqual(afterConversion, 0) {
			return false
		}
	}
	return true
}

// AdmissibleSet returns the 0-based indices of every transaction not in
// selected that is admissible against state. A non-empty result means
// selected is not maximal.
func AdmissibleSet(mkt *assembler.Market, state *execute.State, selected []int) []int {
	inSelected := make(map[int]bool, len(selected))
	for _, t := range selected {
		inSelected[t] = true
	}

	var out []int
	for t := 0; t < mkt.Transactions.NumTransactions; t++ {
		if inSelected[t] {
			continue
		}
		if Admissible(mkt, state, t) {
			out = append(out, t)
		}
	}
	return out
}
