package server

import (
	"fmt"
	"math"

	"github.com/aristath/qumo-reducer/qumo/model"
)

// ModelRequest is the wire form of a qumo/model.Model accepted by
// POST /qumo/reduce. Variables are referenced by name everywhere else in
// the payload so callers never have to predict VarID assignment order.
type ModelRequest struct {
	Sense       string               `json:"sense"` // "minimize" or "maximize"
	Variables   []VariableRequest    `json:"variables"`
	Objective   QuadRequest          `json:"objective"`
	Constraints []ConstraintRequest  `json:"constraints"`
	Penalty     PenaltyRequestConfig `json:"penalty"`
}

// VariableRequest describes one decision variable.
type VariableRequest struct {
	Name   string   `json:"name"`
	Binary bool     `json:"binary,omitempty"`
	Fixed  bool     `json:"fixed,omitempty"`
	Value  float64  `json:"value,omitempty"` // meaningful when Fixed
	Lower  *float64 `json:"lower,omitempty"`
	Upper  *float64 `json:"upper,omitempty"`
}

// LinearTermRequest is one coefficient*variable term.
type LinearTermRequest struct {
	Var  string  `json:"var"`
	Coef float64 `json:"coef"`
}

// QuadTermRequest is one coefficient*variable*variable term.
type QuadTermRequest struct {
	VarI string  `json:"var_i"`
	VarJ string  `json:"var_j"`
	Coef float64 `json:"coef"`
}

// QuadRequest is an affine-plus-quadratic expression: constant + linear
// terms + quadratic terms.
type QuadRequest struct {
	Constant float64             `json:"constant,omitempty"`
	Linear   []LinearTermRequest `json:"linear,omitempty"`
	Quad     []QuadTermRequest   `json:"quad,omitempty"`
}

// ConstraintRequest names a linear function and the set it must lie in.
type ConstraintRequest struct {
	Name   string              `json:"name"`
	Linear []LinearTermRequest `json:"linear"`
	Kind   string              `json:"kind"` // "ge", "le", "eq", "interval"
	Lo     float64             `json:"lo,omitempty"`
	Hi     float64             `json:"hi,omitempty"`
}

// PenaltyRequestConfig configures the penalty substitution step.
type PenaltyRequestConfig struct {
	Weight float64 `json:"weight"`
}

// Build translates req into a *model.Model, resolving every variable
// reference by name. Returns an error naming the first unknown variable or
// malformed constraint kind encountered.
func (req ModelRequest) Build() (*model.Model, float64, error) {
	sense := model.Minimize
	if req.Sense == "maximize" {
		sense = model.Maximize
	}
	m := model.New(sense)

	names := make(map[string]model.VarID, len(req.Variables))
	for _, v := range req.Variables {
		var id model.VarID
		switch {
		case v.Fixed:
			id = m.AddFixedVariable(v.Name, v.Value)
		case v.Binary:
			id = m.AddBinaryVariable(v.Name)
		default:
			lo, hi := math.Inf(-1), math.Inf(1)
			if v.Lower != nil {
				lo = *v.Lower
			}
			if v.Upper != nil {
				hi = *v.Upper
			}
			id = m.AddVariable(v.Name, lo, hi)
		}
		names[v.Name] = id
	}

	resolve := func(name string) (model.VarID, error) {
		id, ok := names[name]
		if !ok {
			return 0, fmt.Errorf("server: unknown variable %q", name)
		}
		return id, nil
	}

	obj := model.NewQuad(req.Objective.Constant)
	for _, t := range req.Objective.Linear {
		id, err := resolve(t.Var)
		if err != nil {
			return nil, 0, err
		}
		obj.Affine.AddTerm(id, t.Coef)
	}
	for _, t := range req.Objective.Quad {
		i, err := resolve(t.VarI)
		if err != nil {
			return nil, 0, err
		}
		j, err := resolve(t.VarJ)
		if err != nil {
			return nil, 0, err
		}
		obj.AddQuadTerm(i, j, t.Coef)
	}
	m.SetObjective(obj)

	for _, c := range req.Constraints {
		f := model.NewAff(0)
		for _, t := range c.Linear {
			id, err := resolve(t.Var)
			if err != nil {
				return nil, 0, err
			}
			f.AddTerm(id, t.Coef)
		}
		set, err := buildSet(c)
		if err != nil {
			return nil, 0, err
		}
		m.AddConstraint(c.Name, f, set)
	}

	return m, req.Penalty.Weight, nil
}

func buildSet(c ConstraintRequest) (model.Set, error) {
	switch c.Kind {
	case "ge":
		return model.GreaterThan(c.Lo), nil
	case "le":
		return model.LessThan(c.Hi), nil
	case "eq":
		return model.EqualTo(c.Lo), nil
	case "interval":
		return model.Interval(c.Lo, c.Hi), nil
	default:
		return model.Set{}, fmt.Errorf("server: unknown constraint kind %q for %q", c.Kind, c.Name)
	}
}

// InstanceResponse is the wire form of a qumo.Instance.
type InstanceResponse struct {
	Q                 []TripleResponse `json:"q"`
	C                 []float64        `json:"c"`
	K                 float64          `json:"k"`
	Binaries          []int            `json:"binaries"`
	Names             []string         `json:"names"`
	ZeroWeightWarning bool             `json:"zero_weight_warning,omitempty"`
}

// TripleResponse is one sparse Q-matrix entry.
type TripleResponse struct {
	I int     `json:"i"`
	J int     `json:"j"`
	V float64 `json:"v"`
}
