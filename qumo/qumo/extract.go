package qumo

import (
	"sort"

	"github.com/aristath/qumo-reducer/qumo/model"
)

// Extract lowers m's (now unconstrained) quadratic objective into the
// canonical QUMO tuple. m must have no remaining constraints — the
// penalty substitutor is expected to have folded them all into the
// objective already.
func Extract(m *model.Model) *Instance {
	n := m.NumVars()
	c := make([]float64, n)
	names := make([]string, n)
	m.Variables(func(v model.Variable) {
		names[v.ID()-1] = v.Name()
	})

	var binaries []int
	m.Variables(func(v model.Variable) {
		if v.IsBinary() {
			binaries = append(binaries, int(v.ID())-1)
		}
	})
	sort.Ints(binaries)

	obj := m.Objective()
	obj.Affine.Terms(func(v model.VarID, a float64) {
		c[v-1] += a
	})

	coo := newCOOAccumulator()
	obj.QuadTerms(func(p model.VarPair, q float64) {
		i, j := int(p.I)-1, int(p.J)-1
		if p.I == p.J && m.Variable(p.I).IsBinary() {
			// x^2 == x for binary x: the term is linear, not
			// quadratic.
			c[i] += q
			return
		}
		coo.add(i, j, q)
		coo.add(j, i, q)
	})

	return &Instance{
		Q:        coo.triples(),
		C:        c,
		K:        obj.Affine.Constant,
		Binaries: binaries,
		Names:    names,
	}
}

// cooAccumulator sums duplicate (i,j) triples before emitting them, since
// penalty folding and the two-triples-per-term rule both routinely
// produce repeated coordinates.
type cooAccumulator struct {
	order []cooKey
	sum   map[cooKey]float64
}

type cooKey struct{ i, j int }

func newCOOAccumulator() *cooAccumulator {
	return &cooAccumulator{sum: make(map[cooKey]float64)}
}

func (c *cooAccumulator) add(i, j int, v float64) {
	k := cooKey{i, j}
	if _, seen := c.sum[k]; !seen {
		c.order = append(c.order, k)
	}
	c.sum[k] += v
}

func (c *cooAccumulator) triples() []Triple {
	out := make([]Triple, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Triple{I: k.i, J: k.j, V: c.sum[k]})
	}
	return out
}
