// Package formulation builds the maximum-throughput integer program for a
// settlement market and exposes a Solve entry point against a solver
// backend.
package formulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/aristath/qumo-reducer/internal/solver"
	"github.com/aristath/qumo-reducer/qumo/model"
	"github.com/aristath/qumo-reducer/settlement/assembler"
	"github.com/aristath/qumo-reducer/settlement/serr"
)

// VarIndex maps a settlement transaction's 0-based position to the
// model.VarID of its decision variable x_t.
type VarIndex []model.VarID

// Build constructs the IP model for mkt: one binary decision variable per
// transaction, the security[p] and currency[p] constraints, and the
// throughput-maximizing objective max sum(x_t).
func Build(mkt *assembler.Market) (*model.Model, VarIndex) {
	m := model.New(model.Maximize)

	idx := make(VarIndex, mkt.Transactions.NumTransactions)
	for t := 0; t < mkt.Transactions.NumTransactions; t++ {
		idx[t] = m.AddBinaryVariable(fmt.Sprintf("x[T%d]", t+1))
	}

	obj := model.NewQuad(0)
	for _, v := range idx {
		obj.Affine.AddTerm(v, 1)
	}
	m.SetObjective(obj)

	buildSecurityConstraints(m, mkt, idx)
	buildCurrencyConstraints(m, mkt, idx)

	return m, idx
}

func buildSecurityConstraints(m *model.Model, mkt *assembler.Market, idx VarIndex) {
	np := mkt.Transactions.NumParties
	for p := 0; p < np; p++ {
		f := model.NewAff(mkt.Setup.Security[p])
		for _, nz := range mkt.Transactions.SecurityRow(p) {
			f.AddTerm(idx[nz.Transaction], nz.Value)
		}
		m.AddConstraint(fmt.Sprintf("security[P%d]", p+1), f, model.GreaterThan(0))
	}
}

// buildCurrencyConstraints builds the conversion-augmented wealth
// constraint: currency0[p] + sum(currency[p,t]*x_t)
// + conversion[p]*(security0[p] + sum(security[p,t]*x_t)) >= 0.
func buildCurrencyConstraints(m *model.Model, mkt *assembler.Market, idx VarIndex) {
	np := mkt.Transactions.NumParties
	for p := 0; p < np; p++ {
		conv := mkt.Setup.Conversion[p]
		constant := mkt.Setup.Currency[p] + conv*mkt.Setup.Security[p]
		f := model.NewAff(constant)
		for _, nz := range mkt.Transactions.CurrencyRow(p) {
			f.AddTerm(idx[nz.Transaction], nz.Value)
		}
		if conv != 0 {
			for _, nz := range mkt.Transactions.SecurityRow(p) {
				f.AddTerm(idx[nz.Transaction], conv*nz.Value)
			}
		}
		m.AddConstraint(fmt.Sprintf("currency[P%d]", p+1), f, model.GreaterThan(0))
	}
}

// Solve builds mkt's formulation and solves it against backend, returning
// the sorted 0-based indices of the transactions selected for execution.
func Solve(ctx context.Context, backend solver.Backend, mkt *assembler.Market) ([]int, error) {
	m, idx := Build(mkt)
	res, err := solver.Solve(ctx, backend, m)
	if err != nil {
		var of *solver.OptimizeFailure
		if errors.As(err, &of) {
			return nil, &serr.SolverFailure{Status: string(of.Status)}
		}
		return nil, err
	}

	selected := make(map[model.VarID]bool, len(res.SelectedIndices))
	for _, i := range res.SelectedIndices {
		selected[model.VarID(i)] = true
	}

	var out []int
	for t, v := range idx {
		if selected[v] {
			out = append(out, t)
		}
	}
	return out, nil
}
