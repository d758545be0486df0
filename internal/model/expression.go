// Package model defines the value types for multiobjective optimization problems.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Operator names an expression tree node. The names follow the MathJSON
// convention so that serialized problems stay interchangeable with other
// tooling.
type Operator string

const (
	// OpNegate is the unary minus operator.
	OpNegate Operator = "Negate"
	// OpAdd is the n-ary addition operator.
	OpAdd Operator = "Add"
	// OpSubtract is the binary subtraction operator.
	OpSubtract Operator = "Subtract"
	// OpMultiply is the n-ary multiplication operator.
	OpMultiply Operator = "Multiply"
	// OpDivide is the binary division operator.
	OpDivide Operator = "Divide"
	// OpPower is the binary exponentiation operator.
	OpPower Operator = "Power"
	// OpSquare squares its single operand.
	OpSquare Operator = "Square"
	// OpSqrt is the square root operator.
	OpSqrt Operator = "Sqrt"
	// OpExp is the natural exponential operator.
	OpExp Operator = "Exp"
	// OpLn is the natural logarithm operator.
	OpLn Operator = "Ln"
	// OpAbs is the absolute value operator.
	OpAbs Operator = "Abs"
	// OpCeil rounds its operand up to the nearest integer.
	OpCeil Operator = "Ceil"
	// OpFloor rounds its operand down to the nearest integer.
	OpFloor Operator = "Floor"
	// OpSin is the sine operator.
	OpSin Operator = "Sin"
	// OpCos is the cosine operator.
	OpCos Operator = "Cos"
	// OpTan is the tangent operator.
	OpTan Operator = "Tan"
	// OpMax is the n-ary maximum operator. Requires at least one operand.
	OpMax Operator = "Max"
	// OpMin is the n-ary minimum operator. Requires at least one operand.
	OpMin Operator = "Min"
)

// operatorArity maps each operator to its fixed operand count. A value of -1
// marks n-ary operators that accept one or more operands.
var operatorArity = map[Operator]int{
	OpNegate:   1,
	OpAdd:      -1,
	OpSubtract: 2,
	OpMultiply: -1,
	OpDivide:   2,
	OpPower:    2,
	OpSquare:   1,
	OpSqrt:     1,
	OpExp:      1,
	OpLn:       1,
	OpAbs:      1,
	OpCeil:     1,
	OpFloor:    1,
	OpSin:      1,
	OpCos:      1,
	OpTan:      1,
	OpMax:      -1,
	OpMin:      -1,
}

// KnownOperator reports whether name is a supported operator.
func KnownOperator(name Operator) bool {
	_, ok := operatorArity[name]
	return ok
}

// Expr is a node in an expression tree. Exactly one of the three node kinds
// is populated: a literal value, a symbol reference, or an operator with
// ordered operands.
type Expr struct {
	Op       Operator
	Literal  float64
	Symbol   string
	Operands []*Expr

	isLiteral bool
}

// Lit returns a literal node.
func Lit(value float64) *Expr {
	return &Expr{Literal: value, isLiteral: true}
}

// Sym returns a symbol reference node.
func Sym(symbol string) *Expr {
	return &Expr{Symbol: symbol}
}

// Call returns an operator node over the given operands. The operand count
// is checked against the operator's arity.
func Call(op Operator, operands ...*Expr) (*Expr, error) {
	arity, ok := operatorArity[op]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator %q", ErrParse, op)
	}

	if arity >= 0 && len(operands) != arity {
		return nil, fmt.Errorf("%w: operator %q expects %d operands, got %d", ErrParse, op, arity, len(operands))
	}

	if arity < 0 && len(operands) == 0 {
		return nil, fmt.Errorf("%w: operator %q expects at least one operand", ErrParse, op)
	}

	return &Expr{Op: op, Operands: operands}, nil
}

// MustCall is Call for operand lists known to be valid at compile time, such
// as the trees assembled by the scalarization builders.
func MustCall(op Operator, operands ...*Expr) *Expr {
	expr, err := Call(op, operands...)
	if err != nil {
		panic(err)
	}

	return expr
}

// IsLiteral reports whether the node is a literal value.
func (e *Expr) IsLiteral() bool {
	return e != nil && e.isLiteral
}

// IsSymbol reports whether the node is a symbol reference.
func (e *Expr) IsSymbol() bool {
	return e != nil && !e.isLiteral && e.Op == ""
}

// Symbols returns every symbol referenced in the tree, deduplicated, in
// first-appearance order.
func (e *Expr) Symbols() []string {
	seen := make(map[string]bool)

	var symbols []string

	var walk func(node *Expr)
	walk = func(node *Expr) {
		if node == nil {
			return
		}

		if node.IsSymbol() {
			if !seen[node.Symbol] {
				seen[node.Symbol] = true

				symbols = append(symbols, node.Symbol)
			}

			return
		}

		for _, operand := range node.Operands {
			walk(operand)
		}
	}

	walk(e)

	return symbols
}

// ToMathJSON converts the tree to the nested-array MathJSON form used for
// lossless serialization: literals become numbers, symbols become strings,
// and operator nodes become arrays headed by the operator name.
func (e *Expr) ToMathJSON() any {
	switch {
	case e.IsLiteral():
		return e.Literal
	case e.IsSymbol():
		return e.Symbol
	default:
		out := make([]any, 0, len(e.Operands)+1)
		out = append(out, string(e.Op))

		for _, operand := range e.Operands {
			out = append(out, operand.ToMathJSON())
		}

		return out
	}
}

// ExprFromMathJSON rebuilds an expression tree from its MathJSON form.
// Numbers (any numeric Go type produced by JSON or YAML decoding) become
// literals, strings become symbols, and arrays become operator nodes.
func ExprFromMathJSON(raw any) (*Expr, error) {
	switch v := raw.(type) {
	case float64:
		return Lit(v), nil
	case int:
		return Lit(float64(v)), nil
	case int64:
		return Lit(float64(v)), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", ErrParse, v.String())
		}

		return Lit(f), nil
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return Lit(f), nil
		}

		return Sym(v), nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty expression array", ErrParse)
		}

		name, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: expression array must start with an operator name, got %v", ErrParse, v[0])
		}

		operands := make([]*Expr, 0, len(v)-1)

		for _, rawOperand := range v[1:] {
			operand, err := ExprFromMathJSON(rawOperand)
			if err != nil {
				return nil, err
			}

			operands = append(operands, operand)
		}

		return Call(Operator(name), operands...)
	default:
		return nil, fmt.Errorf("%w: unsupported expression element %T", ErrParse, raw)
	}
}

// MarshalJSON encodes the tree in MathJSON form.
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMathJSON())
}

// UnmarshalJSON decodes a MathJSON expression.
func (e *Expr) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	parsed, err := ExprFromMathJSON(raw)
	if err != nil {
		return err
	}

	*e = *parsed

	return nil
}

// MarshalYAML encodes the tree in MathJSON form.
func (e *Expr) MarshalYAML() (any, error) {
	return e.ToMathJSON(), nil
}

// UnmarshalYAML decodes a MathJSON expression from a YAML node.
func (e *Expr) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	parsed, err := ExprFromMathJSON(raw)
	if err != nil {
		return err
	}

	*e = *parsed

	return nil
}
