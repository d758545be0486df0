package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Infix binding powers, lowest first. Function-style operators render as
// calls and never need parentheses around themselves.
const (
	precAdd   = 1
	precMul   = 2
	precUnary = 3
	precPow   = 4
	precAtom  = 5
)

// Render returns the canonical infix form of the tree. The output is
// accepted by ParseExpr and evaluates to the same values, which makes the
// textual form a stable interchange format.
func (e *Expr) Render() string {
	text, _ := e.render()
	return text
}

func (e *Expr) render() (string, int) {
	switch {
	case e.IsLiteral():
		if e.Literal < 0 {
			return formatLiteral(e.Literal), precUnary
		}

		return formatLiteral(e.Literal), precAtom
	case e.IsSymbol():
		return e.Symbol, precAtom
	}

	switch e.Op {
	case OpNegate:
		operand := e.renderOperand(0, precUnary+1)
		return "-" + operand, precUnary
	case OpAdd:
		parts := make([]string, 0, len(e.Operands))
		for i := range e.Operands {
			parts = append(parts, e.renderOperand(i, precAdd))
		}

		return strings.Join(parts, " + "), precAdd
	case OpSubtract:
		// Right operand binds one level tighter so a - (b - c) keeps its
		// parentheses.
		return e.renderOperand(0, precAdd) + " - " + e.renderOperand(1, precAdd+1), precAdd
	case OpMultiply:
		parts := make([]string, 0, len(e.Operands))
		for i := range e.Operands {
			parts = append(parts, e.renderOperand(i, precMul))
		}

		return strings.Join(parts, " * "), precMul
	case OpDivide:
		return e.renderOperand(0, precMul) + " / " + e.renderOperand(1, precMul+1), precMul
	case OpPower:
		// Right associative: the left operand needs parentheses at equal
		// precedence, the right does not.
		return e.renderOperand(0, precPow+1) + " ** " + e.renderOperand(1, precPow), precPow
	default:
		parts := make([]string, 0, len(e.Operands))
		for _, operand := range e.Operands {
			text, _ := operand.render()
			parts = append(parts, text)
		}

		return fmt.Sprintf("%s(%s)", e.Op, strings.Join(parts, ", ")), precAtom
	}
}

// renderOperand renders the i-th operand, parenthesizing it when its own
// binding power is below the minimum the context requires.
func (e *Expr) renderOperand(i, min int) string {
	text, prec := e.Operands[i].render()
	if prec < min {
		return "(" + text + ")"
	}

	return text
}

func formatLiteral(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
