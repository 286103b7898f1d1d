package model

// Sense is the optimization direction of a Model's objective.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Model owns a variable table, a constraint table, and an objective. All
// iteration (variables, constraints, terms) is insertion-ordered, which the
// transforms in sibling packages rely on for deterministic output.
type Model struct {
	sense Sense

	vars     []Variable
	varNames map[string]VarID

	constraintOrder []ConstraintHandle
	constraints     map[ConstraintHandle]*Constraint
	nextHandle      ConstraintHandle

	objective *Quad
}

// New creates an empty model with the given optimization sense.
func New(sense Sense) *Model {
	return &Model{
		sense:       sense,
		varNames:    make(map[string]VarID),
		constraints: make(map[ConstraintHandle]*Constraint),
		objective:   NewQuad(0),
	}
}

// Sense returns the model's optimization direction.
func (m *Model) Sense() Sense { return m.sense }

// AddVariable appends a new continuous variable with the given bounds and
// returns its VarID. Use AddBinaryVariable / AddFixedVariable for the other
// shapes.
func (m *Model) AddVariable(name string, lower, upper float64) VarID {
	id := VarID(len(m.vars) + 1)
	m.vars = append(m.vars, NewContinuous(id, name, lower, upper))
	m.varNames[name] = id
	return id
}

// AddBinaryVariable appends a new binary variable and returns its VarID.
func (m *Model) AddBinaryVariable(name string) VarID {
	id := VarID(len(m.vars) + 1)
	m.vars = append(m.vars, NewBinary(id, name))
	m.varNames[name] = id
	return id
}

// AddFixedVariable appends a new variable pinned to value and returns its
// VarID.
func (m *Model) AddFixedVariable(name string, value float64) VarID {
	id := VarID(len(m.vars) + 1)
	m.vars = append(m.vars, NewFixed(id, name, value))
	m.varNames[name] = id
	return id
}

// AddSlackVariable appends a fresh slack variable bounded to [0,1] under the
// given name and returns its VarID. Used by the equation
// converter.
func (m *Model) AddSlackVariable(name string) VarID {
	return m.AddVariable(name, 0, 1)
}

// NumVars returns the number of variables in the table.
func (m *Model) NumVars() int { return len(m.vars) }

// Variable returns the variable at the given ID. IDs are 1-based.
func (m *Model) Variable(id VarID) Variable {
	return m.vars[id-1]
}

// VariableByName looks up a variable's ID by name.
func (m *Model) VariableByName(name string) (VarID, bool) {
	id, ok := m.varNames[name]
	return id, ok
}

// Variables calls fn for each variable in insertion order.
func (m *Model) Variables(fn func(Variable)) {
	for _, v := range m.vars {
		fn(v)
	}
}

// ReplaceVariable overwrites the stored Variable for its own ID, for
// narrowing a variable's bounds in place. No transform in this module
// calls it.
func (m *Model) ReplaceVariable(v Variable) {
	m.vars[v.ID()-1] = v
}

// AddConstraint appends a new constraint under name and returns its
// handle.
func (m *Model) AddConstraint(name string, fn *Aff, set Set) ConstraintHandle {
	m.nextHandle++
	h := m.nextHandle
	m.constraints[h] = &Constraint{Name: name, Func: fn, Set: set}
	m.constraintOrder = append(m.constraintOrder, h)
	return h
}

// DeleteConstraint removes the constraint with the given handle. Deleting
// an unknown handle is a no-op.
func (m *Model) DeleteConstraint(h ConstraintHandle) {
	if _, ok := m.constraints[h]; !ok {
		return
	}
	delete(m.constraints, h)
	for i, oh := range m.constraintOrder {
		if oh == h {
			m.constraintOrder = append(m.constraintOrder[:i], m.constraintOrder[i+1:]...)
			break
		}
	}
}

// Constraint returns the constraint for a handle and whether it exists.
func (m *Model) Constraint(h ConstraintHandle) (*Constraint, bool) {
	c, ok := m.constraints[h]
	return c, ok
}

// Constraints calls fn for each (handle, constraint) pair in the table's
// current insertion order. fn must not mutate the constraint table; use
// the returned handles to batch deletions/additions after iterating.
func (m *Model) Constraints(fn func(ConstraintHandle, *Constraint)) {
	for _, h := range m.constraintOrder {
		fn(h, m.constraints[h])
	}
}

// NumConstraints returns the number of live constraints.
func (m *Model) NumConstraints() int { return len(m.constraintOrder) }

// SetObjective replaces the model's objective.
func (m *Model) SetObjective(q *Quad) { m.objective = q }

// Objective returns the model's objective.
func (m *Model) Objective() *Quad { return m.objective }

// Clone returns a deep copy of the model, suitable for the cloning variant
// of every transform in this package tree.
func (m *Model) Clone() *Model {
	c := New(m.sense)
	c.vars = make([]Variable, len(m.vars))
	copy(c.vars, m.vars)
	for k, v := range m.varNames {
		c.varNames[k] = v
	}
	c.nextHandle = m.nextHandle
	c.constraintOrder = append([]ConstraintHandle(nil), m.constraintOrder...)
	for h, ct := range m.constraints {
		c.constraints[h] = &Constraint{Name: ct.Name, Func: ct.Func.Clone(), Set: ct.Set}
	}
	c.objective = m.objective.Clone()
	return c
}
