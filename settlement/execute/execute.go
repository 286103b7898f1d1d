// Package execute applies a settled sequence of transactions to a market's
// initial state and checks the conservation-of-totals invariant.
package execute

import (
	"fmt"

	"github.com/aristath/qumo-reducer/internal/numeric"
	"github.com/aristath/qumo-reducer/settlement/assembler"
)

// State is the post-execution per-participant snapshot.
type State struct {
	Currency       []float64
	Security       []float64
	AfterConversion []float64
}

// Execute applies the deltas of the transactions named by txIndices, in
// order, to copies of mkt's initial balances, and returns the resulting
// State. txIndices are 0-based transaction positions.
func Execute(mkt *assembler.Market, txIndices []int) (*State, error) {
	np := mkt.Transactions.NumParties
	currency := append([]float64(nil), mkt.Setup.Currency...)
	security := append([]float64(nil), mkt.Setup.Security...)

	for _, t := range txIndices {
		if t < 0 || t >= mkt.Transactions.NumTransactions {
			return nil, fmt.Errorf("execute: transaction index %d out of range [0,%d)", t, mkt.Transactions.NumTransactions)
		}
		for _, nz := range mkt.Transactions.Security {
			if nz.Transaction == t {
				security[nz.Party] += nz.Value
			}
		}
		for _, nz := range mkt.Transactions.Currency {
			if nz.Transaction == t {
				currency[nz.Party] += nz.Value
			}
		}
	}

	state := &State{
		Currency:        currency,
		Security:        security,
		AfterConversion: make([]float64, np),
	}
	for p := 0; p < np; p++ {
		state.AfterConversion[p] = currency[p] + mkt.Setup.Conversion[p]*security[p]
	}

	if err := checkConservation(mkt, state); err != nil {
		return nil, err
	}
	return state, nil
}

func checkConservation(mkt *assembler.Market, state *State) error {
	var wantCurrency, gotCurrency, wantSecurity, gotSecurity float64
	for _, v := range mkt.Setup.Currency {
		wantCurrency += v
	}
	for _, v := range mkt.Setup.Security {
		wantSecurity += v
	}
	for _, v := range state.Currency {
		gotCurrency += v
	}
	for _, v := range state.Security {
		gotSecurity += v
	}
	if !numeric.EqualApprox(gotCurrency, wantCurrency) {
		return fmt.Errorf("execute: currency conservation violated: got total %v, want %v", gotCurrency, wantCurrency)
	}
	if !numeric.EqualApprox(gotSecurity, wantSecurity) {
		return fmt.Errorf("execute: security conservation violated: got total %v, want %v", gotSecurity, wantSecurity)
	}
	return nil
}
