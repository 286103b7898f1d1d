package model

// Aff is an affine expression: a constant plus a coefficient per variable.
// Terms are insertion-ordered so that iteration is deterministic across the
// whole pipeline (slack numbering, penalty folding, c-vector assembly all
// depend on this).
type Aff struct {
	Constant float64
	order    []VarID
	coef     map[VarID]float64
}

// NewAff creates an affine expression with the given constant term.
func NewAff(constant float64) *Aff {
	return &Aff{Constant: constant, coef: make(map[VarID]float64)}
}

// Coef returns the coefficient of v (zero if absent).
func (a *Aff) Coef(v VarID) float64 {
	return a.coef[v]
}

// AddTerm adds coef to the term for v, inserting v into the iteration order
// the first time it's seen. Adding a zero coefficient to a fresh variable
// still records the term, matching "absent keys have coefficient zero"
// without pruning terms a caller explicitly added.
func (a *Aff) AddTerm(v VarID, coef float64) {
	if _, seen := a.coef[v]; !seen {
		a.order = append(a.order, v)
	}
	a.coef[v] += coef
}

// SetTerm overwrites the coefficient of v, preserving its position in the
// iteration order if already present.
func (a *Aff) SetTerm(v VarID, coef float64) {
	if _, seen := a.coef[v]; !seen {
		a.order = append(a.order, v)
	}
	a.coef[v] = coef
}

// Terms calls fn for each (variable, coefficient) pair in insertion order.
func (a *Aff) Terms(fn func(v VarID, coef float64)) {
	for _, v := range a.order {
		fn(v, a.coef[v])
	}
}

// Len returns the number of distinct variables with a recorded term.
func (a *Aff) Len() int { return len(a.order) }

// Clone returns a deep copy of a.
func (a *Aff) Clone() *Aff {
	c := NewAff(a.Constant)
	a.Terms(func(v VarID, coef float64) {
		c.AddTerm(v, coef)
	})
	return c
}

// ScaleTermsInPlace multiplies every term's coefficient by s, leaving the
// constant untouched. Used by the boxifier, which scales coefficients but
// manages the constant separately.
func (a *Aff) ScaleTermsInPlace(s float64) {
	for _, v := range a.order {
		a.coef[v] *= s
	}
}

// VarPair is an unordered pair of variable indices, canonicalised so that
// {i,j} and {j,i} hash identically. i == j is permitted (a diagonal term).
type VarPair struct {
	I, J VarID
}

func newVarPair(i, j VarID) VarPair {
	if i <= j {
		return VarPair{I: i, J: j}
	}
	return VarPair{I: j, J: i}
}

// Quad is a quadratic expression: an affine part plus a coefficient per
// unordered variable pair. Pair iteration order is insertion order, same
// rationale as Aff.
type Quad struct {
	Affine *Aff
	order  []VarPair
	coef   map[VarPair]float64
}

// NewQuad creates a quadratic expression with the given constant term and
// no quadratic terms yet.
func NewQuad(constant float64) *Quad {
	return &Quad{Affine: NewAff(constant), coef: make(map[VarPair]float64)}
}

// AddQuadTerm adds coef to the term for the unordered pair {i,j}.
func (q *Quad) AddQuadTerm(i, j VarID, coef float64) {
	p := newVarPair(i, j)
	if _, seen := q.coef[p]; !seen {
		q.order = append(q.order, p)
	}
	q.coef[p] += coef
}

// QuadTerms calls fn for each (pair, coefficient) in insertion order.
func (q *Quad) QuadTerms(fn func(p VarPair, coef float64)) {
	for _, p := range q.order {
		fn(p, q.coef[p])
	}
}

// Clone returns a deep copy of q.
func (q *Quad) Clone() *Quad {
	c := NewQuad(q.Affine.Constant)
	q.Affine.Terms(func(v VarID, coef float64) { c.Affine.AddTerm(v, coef) })
	q.QuadTerms(func(p VarPair, coef float64) { c.AddQuadTerm(p.I, p.J, coef) })
	return c
}
