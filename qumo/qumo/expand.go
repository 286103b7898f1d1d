package qumo

import "gonum.org/v1/gonum/mat"

// Dense assembles inst's sparse Q into a dense n×n gonum matrix, summing
// duplicate coordinates. Used by Evaluate, which the "QUMO recovery"
// property check relies on.
func (inst *Instance) Dense() *mat.Dense {
	n := len(inst.Names)
	q := mat.NewDense(n, n, nil)
	for _, t := range inst.Q {
		q.Set(t.I, t.J, q.At(t.I, t.J)+t.V)
	}
	return q
}

// Evaluate computes ½xᵀQx + cᵀx + k at x, the canonical QUMO objective
// value.
func (inst *Instance) Evaluate(x []float64) float64 {
	n := len(inst.Names)
	xv := mat.NewVecDense(n, x)
	q := inst.Dense()

	var qx mat.VecDense
	qx.MulVec(q, xv)

	quad := mat.Dot(xv, &qx)

	var linear float64
	for i, ci := range inst.C {
		linear += ci * x[i]
	}
	return 0.5*quad + linear + inst.K
}
