package model

import (
	"fmt"
	"strings"
)

// VariableType defines the domain of a decision variable.
type VariableType string

const (
	// VariableReal is a continuous variable.
	VariableReal VariableType = "real"
	// VariableInteger is an integer-valued variable.
	VariableInteger VariableType = "integer"
	// VariableBinary is a 0/1 variable.
	VariableBinary VariableType = "binary"
)

// ConstraintType defines the relation of a constraint expression to zero.
type ConstraintType string

const (
	// ConstraintLTE is a `expression <= 0` constraint.
	ConstraintLTE ConstraintType = "<="
	// ConstraintEQ is a `expression = 0` constraint.
	ConstraintEQ ConstraintType = "="
)

// MinSuffix is appended to an objective's symbol to form its minimization
// synonym: the objective value itself for minimized objectives, its negation
// for maximized ones. Scalarization expressions are written exclusively in
// terms of these synonyms so every formula can assume minimization.
const MinSuffix = "_min"

// MinSymbol returns the minimization synonym for an objective symbol.
func MinSymbol(symbol string) string {
	return symbol + MinSuffix
}

// Variable is a scalar decision variable.
type Variable struct {
	Name         string       `json:"name" yaml:"name"`
	Symbol       string       `json:"symbol" yaml:"symbol" validate:"required"`
	Type         VariableType `json:"variable_type" yaml:"variable_type" validate:"required,oneof=real integer binary"`
	LowerBound   float64      `json:"lowerbound" yaml:"lowerbound"`
	UpperBound   float64      `json:"upperbound" yaml:"upperbound"`
	InitialValue *float64     `json:"initial_value,omitempty" yaml:"initial_value,omitempty"`
}

// Constant binds a symbol to a literal value substituted at evaluation time.
type Constant struct {
	Name   string  `json:"name" yaml:"name"`
	Symbol string  `json:"symbol" yaml:"symbol" validate:"required"`
	Value  float64 `json:"value" yaml:"value"`
}

// Objective is one objective function of a problem. Func may be nil when the
// objective's values come from a discrete representation instead of a
// closed-form expression.
type Objective struct {
	Name                  string   `json:"name" yaml:"name"`
	Symbol                string   `json:"symbol" yaml:"symbol" validate:"required"`
	Func                  *Expr    `json:"func,omitempty" yaml:"func,omitempty"`
	Maximize              bool     `json:"maximize" yaml:"maximize"`
	Ideal                 *float64 `json:"ideal,omitempty" yaml:"ideal,omitempty"`
	Nadir                 *float64 `json:"nadir,omitempty" yaml:"nadir,omitempty"`
	Unit                  string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	IsLinear              bool     `json:"is_linear" yaml:"is_linear"`
	IsConvex              bool     `json:"is_convex" yaml:"is_convex"`
	IsTwiceDifferentiable bool     `json:"is_twice_differentiable" yaml:"is_twice_differentiable"`
	ScenarioKeys          []string `json:"scenario_keys,omitempty" yaml:"scenario_keys,omitempty"`
}

// Constraint restricts the feasible region. The expression is compared
// against zero according to Type.
type Constraint struct {
	Name         string         `json:"name" yaml:"name"`
	Symbol       string         `json:"symbol" yaml:"symbol" validate:"required"`
	Func         *Expr          `json:"func" yaml:"func" validate:"required"`
	Type         ConstraintType `json:"cons_type" yaml:"cons_type" validate:"required,oneof=<= ="`
	IsLinear     bool           `json:"is_linear" yaml:"is_linear"`
	IsConvex     bool           `json:"is_convex" yaml:"is_convex"`
	ScenarioKeys []string       `json:"scenario_keys,omitempty" yaml:"scenario_keys,omitempty"`
}

// ExtraFunction is a named auxiliary expression other expressions may
// reference. It plays no optimization role of its own.
type ExtraFunction struct {
	Name         string   `json:"name" yaml:"name"`
	Symbol       string   `json:"symbol" yaml:"symbol" validate:"required"`
	Func         *Expr    `json:"func" yaml:"func" validate:"required"`
	ScenarioKeys []string `json:"scenario_keys,omitempty" yaml:"scenario_keys,omitempty"`
}

// ScalarizationFunction reduces the problem to a single objective. It is
// mechanically an objective distinguished only by its role.
type ScalarizationFunction struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol" yaml:"symbol" validate:"required"`
	Func   *Expr  `json:"func" yaml:"func" validate:"required"`
}

// DiscreteRepresentation tabulates precomputed objective values over decision
// variable assignments, used when objectives lack closed-form expressions.
// All columns must share one length; row i of the variable columns maps to
// row i of the objective columns.
type DiscreteRepresentation struct {
	VariableValues  map[string][]float64 `json:"variable_values" yaml:"variable_values"`
	ObjectiveValues map[string][]float64 `json:"objective_values" yaml:"objective_values"`
	NonDominated    bool                 `json:"non_dominated" yaml:"non_dominated"`
}

// Problem is the immutable aggregate root. Mutating operations return a new
// Problem value sharing unchanged substructure; a Problem value is safe to
// use concurrently once built.
type Problem struct {
	Name                   string                  `json:"name" yaml:"name" validate:"required"`
	Description            string                  `json:"description" yaml:"description"`
	Constants              []Constant              `json:"constants,omitempty" yaml:"constants,omitempty"`
	Variables              []Variable              `json:"variables" yaml:"variables" validate:"required,dive"`
	Objectives             []Objective             `json:"objectives" yaml:"objectives" validate:"required,min=1,dive"`
	Constraints            []Constraint            `json:"constraints,omitempty" yaml:"constraints,omitempty" validate:"dive"`
	ExtraFuncs             []ExtraFunction         `json:"extra_funcs,omitempty" yaml:"extra_funcs,omitempty" validate:"dive"`
	Scalarizations         []ScalarizationFunction `json:"scalarization_funcs,omitempty" yaml:"scalarization_funcs,omitempty" validate:"dive"`
	DiscreteRepresentation *DiscreteRepresentation `json:"discrete_representation,omitempty" yaml:"discrete_representation,omitempty"`
	ScenarioKeys           []string                `json:"scenario_keys,omitempty" yaml:"scenario_keys,omitempty"`
}

// clone returns a Problem whose entity slices have fresh backing arrays so
// appends never leak into the receiver. Entity values, including expression
// trees, are shared structurally; they are never mutated after construction.
func (p Problem) clone() Problem {
	out := p
	out.Constants = append([]Constant(nil), p.Constants...)
	out.Variables = append([]Variable(nil), p.Variables...)
	out.Objectives = append([]Objective(nil), p.Objectives...)
	out.Constraints = append([]Constraint(nil), p.Constraints...)
	out.ExtraFuncs = append([]ExtraFunction(nil), p.ExtraFuncs...)
	out.Scalarizations = append([]ScalarizationFunction(nil), p.Scalarizations...)
	out.ScenarioKeys = append([]string(nil), p.ScenarioKeys...)

	return out
}

// AddScalarization returns a copy of the problem with the scalarization
// function appended. The receiver is unchanged.
func (p Problem) AddScalarization(sf ScalarizationFunction) (Problem, error) {
	if p.hasSymbol(sf.Symbol) {
		return Problem{}, fmt.Errorf("%w: symbol %q is already defined", ErrProblem, sf.Symbol)
	}

	out := p.clone()
	out.Scalarizations = append(out.Scalarizations, sf)

	return out, nil
}

// AddConstraints returns a copy of the problem with the constraints
// appended. The receiver is unchanged.
func (p Problem) AddConstraints(constraints ...Constraint) (Problem, error) {
	out := p.clone()

	for _, c := range constraints {
		if out.hasSymbol(c.Symbol) {
			return Problem{}, fmt.Errorf("%w: symbol %q is already defined", ErrProblem, c.Symbol)
		}

		out.Constraints = append(out.Constraints, c)
	}

	return out, nil
}

// ForScenario returns a copy of the problem restricted to the named
// scenario: objectives, constraints, and extra functions carrying scenario
// keys are kept only when the keys include name. Entities without scenario
// keys apply to every scenario and are always kept.
func (p Problem) ForScenario(name string) (Problem, error) {
	found := false

	for _, key := range p.ScenarioKeys {
		if key == name {
			found = true
			break
		}
	}

	if !found {
		return Problem{}, fmt.Errorf("%w: unknown scenario %q", ErrProblem, name)
	}

	out := p.clone()
	out.Objectives = out.Objectives[:0]
	out.Constraints = out.Constraints[:0]
	out.ExtraFuncs = out.ExtraFuncs[:0]

	for _, obj := range p.Objectives {
		if scenarioApplies(obj.ScenarioKeys, name) {
			out.Objectives = append(out.Objectives, obj)
		}
	}

	for _, con := range p.Constraints {
		if scenarioApplies(con.ScenarioKeys, name) {
			out.Constraints = append(out.Constraints, con)
		}
	}

	for _, extra := range p.ExtraFuncs {
		if scenarioApplies(extra.ScenarioKeys, name) {
			out.ExtraFuncs = append(out.ExtraFuncs, extra)
		}
	}

	return out, nil
}

func scenarioApplies(keys []string, name string) bool {
	if len(keys) == 0 {
		return true
	}

	for _, key := range keys {
		if key == name {
			return true
		}
	}

	return false
}

// Objective returns the objective with the given symbol.
func (p Problem) Objective(symbol string) (Objective, bool) {
	for _, obj := range p.Objectives {
		if obj.Symbol == symbol {
			return obj, true
		}
	}

	return Objective{}, false
}

// IdealPoint returns the declared ideal values per objective symbol. The
// second return value reports whether every objective has one.
func (p Problem) IdealPoint() (map[string]float64, bool) {
	point := make(map[string]float64, len(p.Objectives))
	complete := true

	for _, obj := range p.Objectives {
		if obj.Ideal == nil {
			complete = false
			continue
		}

		point[obj.Symbol] = *obj.Ideal
	}

	return point, complete
}

// NadirPoint returns the declared nadir values per objective symbol. The
// second return value reports whether every objective has one.
func (p Problem) NadirPoint() (map[string]float64, bool) {
	point := make(map[string]float64, len(p.Objectives))
	complete := true

	for _, obj := range p.Objectives {
		if obj.Nadir == nil {
			complete = false
			continue
		}

		point[obj.Symbol] = *obj.Nadir
	}

	return point, complete
}

// Bounds returns the attainable value range of the objective, derived from
// its ideal and nadir in whichever order the optimization direction puts
// them. ok is false when either value is missing.
func (o Objective) Bounds() (lower, upper float64, ok bool) {
	if o.Ideal == nil || o.Nadir == nil {
		return 0, 0, false
	}

	lower, upper = *o.Ideal, *o.Nadir
	if lower > upper {
		lower, upper = upper, lower
	}

	return lower, upper, true
}

// hasSymbol reports whether symbol is already bound by any entity of the
// problem, including the implicit minimization synonyms.
func (p Problem) hasSymbol(symbol string) bool {
	_, ok := p.symbolTable()[symbol]
	return ok
}

// symbolTable collects every symbol the problem defines. Objective symbols
// contribute both the symbol itself and its `_min` synonym.
func (p Problem) symbolTable() map[string]struct{} {
	table := make(map[string]struct{})

	for _, v := range p.Variables {
		table[v.Symbol] = struct{}{}
	}

	for _, c := range p.Constants {
		table[c.Symbol] = struct{}{}
	}

	for _, e := range p.ExtraFuncs {
		table[e.Symbol] = struct{}{}
	}

	for _, obj := range p.Objectives {
		table[obj.Symbol] = struct{}{}
		table[MinSymbol(obj.Symbol)] = struct{}{}
	}

	for _, con := range p.Constraints {
		table[con.Symbol] = struct{}{}
	}

	for _, sf := range p.Scalarizations {
		table[sf.Symbol] = struct{}{}
	}

	return table
}

// Validate checks the aggregate invariants: unique symbols, expressions
// referencing only defined symbols, objectives backed by either an
// expression or the discrete representation, and ideal/nadir values
// consistent with each objective's direction.
func (p Problem) Validate() error {
	if err := p.validateUniqueSymbols(); err != nil {
		return err
	}

	table := p.symbolTable()

	check := func(owner string, expr *Expr) error {
		if expr == nil {
			return nil
		}

		for _, symbol := range expr.Symbols() {
			if _, ok := table[symbol]; !ok {
				return fmt.Errorf("%w: expression of %q references undefined symbol %q", ErrProblem, owner, symbol)
			}
		}

		return nil
	}

	for _, e := range p.ExtraFuncs {
		if err := check(e.Symbol, e.Func); err != nil {
			return err
		}
	}

	for _, obj := range p.Objectives {
		if obj.Func == nil {
			if p.DiscreteRepresentation == nil {
				return fmt.Errorf("%w: objective %q has neither an expression nor a discrete representation", ErrProblem, obj.Symbol)
			}

			if _, ok := p.DiscreteRepresentation.ObjectiveValues[obj.Symbol]; !ok {
				return fmt.Errorf("%w: objective %q is missing from the discrete representation", ErrProblem, obj.Symbol)
			}
		}

		if err := check(obj.Symbol, obj.Func); err != nil {
			return err
		}

		if err := validateDirection(obj); err != nil {
			return err
		}
	}

	for _, con := range p.Constraints {
		if err := check(con.Symbol, con.Func); err != nil {
			return err
		}
	}

	for _, sf := range p.Scalarizations {
		if err := check(sf.Symbol, sf.Func); err != nil {
			return err
		}
	}

	return nil
}

func (p Problem) validateUniqueSymbols() error {
	seen := make(map[string]string)

	record := func(kind, symbol string) error {
		if symbol == "" {
			return fmt.Errorf("%w: %s with empty symbol", ErrProblem, kind)
		}

		if prev, ok := seen[symbol]; ok {
			return fmt.Errorf("%w: symbol %q defined by both %s and %s", ErrProblem, symbol, prev, kind)
		}

		seen[symbol] = kind

		return nil
	}

	for _, v := range p.Variables {
		if err := record("variable", v.Symbol); err != nil {
			return err
		}
	}

	for _, c := range p.Constants {
		if err := record("constant", c.Symbol); err != nil {
			return err
		}
	}

	for _, e := range p.ExtraFuncs {
		if err := record("extra function", e.Symbol); err != nil {
			return err
		}
	}

	for _, obj := range p.Objectives {
		if err := record("objective", obj.Symbol); err != nil {
			return err
		}

		if strings.HasSuffix(obj.Symbol, MinSuffix) {
			return fmt.Errorf("%w: objective symbol %q collides with the %q synonym namespace", ErrProblem, obj.Symbol, MinSuffix)
		}
	}

	for _, con := range p.Constraints {
		if err := record("constraint", con.Symbol); err != nil {
			return err
		}
	}

	for _, sf := range p.Scalarizations {
		if err := record("scalarization", sf.Symbol); err != nil {
			return err
		}
	}

	return nil
}

// validateDirection checks that a declared ideal is at least as good as the
// declared nadir with respect to the objective's direction.
func validateDirection(obj Objective) error {
	if obj.Ideal == nil || obj.Nadir == nil {
		return nil
	}

	if obj.Maximize && *obj.Ideal < *obj.Nadir {
		return fmt.Errorf("%w: maximized objective %q has ideal %v below nadir %v", ErrProblem, obj.Symbol, *obj.Ideal, *obj.Nadir)
	}

	if !obj.Maximize && *obj.Ideal > *obj.Nadir {
		return fmt.Errorf("%w: minimized objective %q has ideal %v above nadir %v", ErrProblem, obj.Symbol, *obj.Ideal, *obj.Nadir)
	}

	return nil
}

// Float64Ptr returns a pointer to v, for the optional ideal/nadir and
// initial value fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
