// Package domain contains the evaluator, the scalarization builders, and the
// interactive method orchestration.
package domain

import (
	"fmt"
	"math"

	m "github.com/mouse-blink/pareto/internal/model"
)

// Table is the result of one batch evaluation: one row per input sample and
// one column per variable and declared expression of the problem, including
// the `_min` synonym columns of the objectives.
type Table struct {
	Columns []string

	values map[string][]float64
	rows   int
}

// Rows returns the number of samples in the table.
func (t *Table) Rows() int {
	return t.rows
}

// Column returns a column by symbol.
func (t *Table) Column(symbol string) ([]float64, bool) {
	col, ok := t.values[symbol]
	return col, ok
}

// Value returns one cell of the table.
func (t *Table) Value(symbol string, row int) (float64, bool) {
	col, ok := t.values[symbol]
	if !ok || row < 0 || row >= t.rows {
		return 0, false
	}

	return col[row], true
}

// Select returns the named columns of one row as a map.
func (t *Table) Select(symbols []string, row int) map[string]float64 {
	out := make(map[string]float64, len(symbols))

	for _, symbol := range symbols {
		if value, ok := t.Value(symbol, row); ok {
			out[symbol] = value
		}
	}

	return out
}

// Evaluator batch-evaluates every expression of a problem over variable
// assignments. Construction pre-validates the problem and fixes a
// dependency order for the extra functions; a built Evaluator is read-only
// and safe for concurrent use.
type Evaluator struct {
	problem    m.Problem
	extraOrder []int
}

// NewEvaluator builds an evaluator for the problem.
func NewEvaluator(problem m.Problem) (*Evaluator, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	order, err := extraFunctionOrder(problem)
	if err != nil {
		return nil, err
	}

	return &Evaluator{problem: problem, extraOrder: order}, nil
}

// extraFunctionOrder topologically sorts the extra functions so each is
// evaluated after the extra functions it references.
func extraFunctionOrder(problem m.Problem) ([]int, error) {
	extras := problem.ExtraFuncs
	indexOf := make(map[string]int, len(extras))

	for i, extra := range extras {
		indexOf[extra.Symbol] = i
	}

	deps := make([][]int, len(extras))
	indegree := make([]int, len(extras))

	for i, extra := range extras {
		for _, symbol := range extra.Func.Symbols() {
			if j, ok := indexOf[symbol]; ok {
				deps[j] = append(deps[j], i)
				indegree[i]++
			}
		}
	}

	var queue []int

	for i := range extras {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var order []int

	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, i)

		for _, j := range deps[i] {
			indegree[j]--
			if indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	if len(order) != len(extras) {
		return nil, fmt.Errorf("%w: extra functions form a dependency cycle", m.ErrEvaluation)
	}

	return order, nil
}

// Evaluate computes the full table for the given assignments. Every declared
// variable must be present and all value sequences must share one length.
// The batch aborts on the first error; no partial table is returned.
func (ev *Evaluator) Evaluate(assignments map[string][]float64) (*Table, error) {
	rows := -1

	for _, v := range ev.problem.Variables {
		values, ok := assignments[v.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: assignments are missing variable %q", m.ErrEvaluation, v.Symbol)
		}

		if rows == -1 {
			rows = len(values)
		} else if len(values) != rows {
			return nil, fmt.Errorf("%w: variable %q has %d values, expected %d", m.ErrEvaluation, v.Symbol, len(values), rows)
		}
	}

	if rows <= 0 {
		return nil, fmt.Errorf("%w: assignments contain no samples", m.ErrEvaluation)
	}

	table := &Table{values: make(map[string][]float64), rows: rows}

	for _, v := range ev.problem.Variables {
		table.Columns = append(table.Columns, v.Symbol)
		table.values[v.Symbol] = append([]float64(nil), assignments[v.Symbol]...)
	}

	for row := 0; row < rows; row++ {
		env := make(map[string]float64, len(ev.problem.Variables)+len(ev.problem.Constants))

		for _, v := range ev.problem.Variables {
			env[v.Symbol] = assignments[v.Symbol][row]
		}

		for _, c := range ev.problem.Constants {
			env[c.Symbol] = c.Value
		}

		if err := ev.evaluateRow(env, table); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// EvaluatePoint evaluates a single variable assignment and returns every
// column of the resulting one-row table.
func (ev *Evaluator) EvaluatePoint(point map[string]float64) (map[string]float64, error) {
	assignments := make(map[string][]float64, len(point))

	for symbol, value := range point {
		assignments[symbol] = []float64{value}
	}

	table, err := ev.Evaluate(assignments)
	if err != nil {
		return nil, err
	}

	return table.Select(table.Columns, 0), nil
}

func (ev *Evaluator) evaluateRow(env map[string]float64, table *Table) error {
	appendCell := func(symbol string, value float64) {
		col, ok := table.values[symbol]
		if !ok {
			table.Columns = append(table.Columns, symbol)
		}

		table.values[symbol] = append(col, value)
		env[symbol] = value
	}

	for _, i := range ev.extraOrder {
		extra := ev.problem.ExtraFuncs[i]

		value, err := evalExpr(extra.Func, env)
		if err != nil {
			return fmt.Errorf("extra function %q: %w", extra.Symbol, err)
		}

		appendCell(extra.Symbol, value)
	}

	for _, obj := range ev.problem.Objectives {
		var (
			value float64
			err   error
		)

		if obj.Func != nil {
			value, err = evalExpr(obj.Func, env)
		} else {
			value, err = ev.lookupDiscrete(obj.Symbol, env)
		}

		if err != nil {
			return fmt.Errorf("objective %q: %w", obj.Symbol, err)
		}

		appendCell(obj.Symbol, value)

		if obj.Maximize {
			appendCell(m.MinSymbol(obj.Symbol), -value)
		} else {
			appendCell(m.MinSymbol(obj.Symbol), value)
		}
	}

	for _, con := range ev.problem.Constraints {
		value, err := evalExpr(con.Func, env)
		if err != nil {
			return fmt.Errorf("constraint %q: %w", con.Symbol, err)
		}

		appendCell(con.Symbol, value)
	}

	for _, sf := range ev.problem.Scalarizations {
		value, err := evalExpr(sf.Func, env)
		if err != nil {
			return fmt.Errorf("scalarization %q: %w", sf.Symbol, err)
		}

		appendCell(sf.Symbol, value)
	}

	return nil
}

// lookupDiscrete resolves a data-driven objective by nearest-neighbor lookup
// over the discrete representation's variable columns.
func (ev *Evaluator) lookupDiscrete(objective string, env map[string]float64) (float64, error) {
	dr := ev.problem.DiscreteRepresentation
	if dr == nil {
		return 0, fmt.Errorf("%w: objective %q has no expression and the problem has no discrete representation", m.ErrEvaluation, objective)
	}

	values, ok := dr.ObjectiveValues[objective]
	if !ok {
		return 0, fmt.Errorf("%w: objective %q is missing from the discrete representation", m.ErrEvaluation, objective)
	}

	best := -1
	bestDist := math.Inf(1)

	for i := range values {
		dist := 0.0

		for symbol, column := range dr.VariableValues {
			point, ok := env[symbol]
			if !ok {
				return 0, fmt.Errorf("%w: discrete representation references undefined variable %q", m.ErrEvaluation, symbol)
			}

			d := point - column[i]
			dist += d * d
		}

		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}

	if best < 0 {
		return 0, fmt.Errorf("%w: discrete representation for %q is empty", m.ErrEvaluation, objective)
	}

	return values[best], nil
}

// evalExpr computes the value of an expression tree in the given
// environment.
func evalExpr(expr *m.Expr, env map[string]float64) (float64, error) {
	switch {
	case expr == nil:
		return 0, fmt.Errorf("%w: nil expression", m.ErrEvaluation)
	case expr.IsLiteral():
		return expr.Literal, nil
	case expr.IsSymbol():
		value, ok := env[expr.Symbol]
		if !ok {
			return 0, fmt.Errorf("%w: undefined symbol %q", m.ErrEvaluation, expr.Symbol)
		}

		return value, nil
	}

	operands := make([]float64, len(expr.Operands))

	for i, operand := range expr.Operands {
		value, err := evalExpr(operand, env)
		if err != nil {
			return 0, err
		}

		operands[i] = value
	}

	switch expr.Op {
	case m.OpNegate:
		return -operands[0], nil
	case m.OpAdd:
		sum := 0.0
		for _, v := range operands {
			sum += v
		}

		return sum, nil
	case m.OpSubtract:
		return operands[0] - operands[1], nil
	case m.OpMultiply:
		product := 1.0
		for _, v := range operands {
			product *= v
		}

		return product, nil
	case m.OpDivide:
		return operands[0] / operands[1], nil
	case m.OpPower:
		return math.Pow(operands[0], operands[1]), nil
	case m.OpSquare:
		return operands[0] * operands[0], nil
	case m.OpSqrt:
		return math.Sqrt(operands[0]), nil
	case m.OpExp:
		return math.Exp(operands[0]), nil
	case m.OpLn:
		return math.Log(operands[0]), nil
	case m.OpAbs:
		return math.Abs(operands[0]), nil
	case m.OpCeil:
		return math.Ceil(operands[0]), nil
	case m.OpFloor:
		return math.Floor(operands[0]), nil
	case m.OpSin:
		return math.Sin(operands[0]), nil
	case m.OpCos:
		return math.Cos(operands[0]), nil
	case m.OpTan:
		return math.Tan(operands[0]), nil
	case m.OpMax:
		if len(operands) == 0 {
			return 0, fmt.Errorf("%w: Max over zero operands", m.ErrEvaluation)
		}

		best := operands[0]
		for _, v := range operands[1:] {
			best = math.Max(best, v)
		}

		return best, nil
	case m.OpMin:
		if len(operands) == 0 {
			return 0, fmt.Errorf("%w: Min over zero operands", m.ErrEvaluation)
		}

		best := operands[0]
		for _, v := range operands[1:] {
			best = math.Min(best, v)
		}

		return best, nil
	default:
		return 0, fmt.Errorf("%w: unknown operator %q", m.ErrEvaluation, expr.Op)
	}
}
