// Package assembler builds the sparse participant x transaction matrices
// that the settlement formulation consumes from a validated market.Scenario.
package assembler

import (
	"fmt"

	"github.com/aristath/qumo-reducer/settlement/market"
	"github.com/aristath/qumo-reducer/settlement/serr"
)

// Nonzero is one sparse matrix entry, 0-based row/col.
type Nonzero struct {
	Party       int
	Transaction int
	Value       float64
}

// Setup holds the per-participant initial state, 0-based and dense.
type Setup struct {
	Currency   []float64
	Security   []float64
	Conversion []float64
}

// Transactions holds the two sparse participant x transaction matrices.
type Transactions struct {
	NumParties      int
	NumTransactions int
	Currency        []Nonzero
	Security        []Nonzero
}

// Market is the assembled input to the settlement formulation: a dense
// per-participant setup plus sparse per-transaction deltas.
type Market struct {
	Setup        Setup
	Transactions Transactions
}

// Assemble validates s and builds its Market. Party and transaction
// indices in the returned Market are 0-based and follow s.Parties /
// s.Transactions order.
func Assemble(s market.Scenario) (*Market, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	np := len(s.Parties)
	nt := len(s.Transactions)

	setup := Setup{
		Currency:   make([]float64, np),
		Security:   make([]float64, np),
		Conversion: make([]float64, np),
	}
	for i, p := range s.Parties {
		setup.Currency[i] = p.CurrencyBalance
		setup.Security[i] = p.SecurityBalance
		if p.ExchangeFactor != nil {
			setup.Conversion[i] = p.ExchangeFactor.Ratio()
		}
	}

	txs := Transactions{NumParties: np, NumTransactions: nt}
	for t, tx := range s.Transactions {
		sf, ok := s.PartyIndex(tx.SecurityFrom)
		if !ok {
			return nil, &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: unknown party %s", tx.ID, tx.SecurityFrom)}
		}
		st, ok := s.PartyIndex(tx.SecurityTo)
		if !ok {
			return nil, &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: unknown party %s", tx.ID, tx.SecurityTo)}
		}
		cf, ok := s.PartyIndex(tx.CashFrom)
		if !ok {
			return nil, &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: unknown party %s", tx.ID, tx.CashFrom)}
		}
		ct, ok := s.PartyIndex(tx.CashTo)
		if !ok {
			return nil, &serr.InvalidScenario{Detail: fmt.Sprintf("transaction %s: unknown party %s", tx.ID, tx.CashTo)}
		}

		txs.Security = append(txs.Security,
			Nonzero{Party: sf, Transaction: t, Value: -tx.SecurityAmount},
			Nonzero{Party: st, Transaction: t, Value: tx.SecurityAmount},
		)
		txs.Currency = append(txs.Currency,
			Nonzero{Party: cf, Transaction: t, Value: -tx.CashAmount},
			Nonzero{Party: ct, Transaction: t, Value: tx.CashAmount},
		)
	}

	if len(setup.Currency) != np || txs.NumParties != np || txs.NumTransactions != nt {
		return nil, fmt.Errorf("assembler: dimension mismatch assembling market for %d parties, %d transactions", np, nt)
	}

	return &Market{Setup: setup, Transactions: txs}, nil
}

// SecurityRow returns the sparse (transaction -> delta) entries touching
// party p's security balance.
func (t Transactions) SecurityRow(p int) []Nonzero {
	return rowFor(t.Security, p)
}

// CurrencyRow returns the sparse (transaction -> delta) entries touching
// party p's currency balance.
func (t Transactions) CurrencyRow(p int) []Nonzero {
	return rowFor(t.Currency, p)
}

func rowFor(entries []Nonzero, p int) []Nonzero {
	var out []Nonzero
	for _, e := range entries {
		if e.Party == p {
			out = append(out, e)
		}
	}
	return out
}
