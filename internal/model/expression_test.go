package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExpr_MathJSONRoundTrip(t *testing.T) {
	t.Parallel()

	original := MustParse("Max((f_1_min - 0.5) / 2.3, f_2_min / 10) + 1e-06 * (f_1_min + f_2_min)")

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Expr
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.Render(), decoded.Render())
}

func TestExpr_MathJSONYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	original := MustParse("-((x_1 - 8)**2) - (x_2 + 3)**2 + 7.7")

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded Expr
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, original.Render(), decoded.Render())
}

func TestExprFromMathJSON(t *testing.T) {
	t.Parallel()

	t.Run("nested arrays decode to operator nodes", func(t *testing.T) {
		t.Parallel()

		expr, err := ExprFromMathJSON([]any{"Add", []any{"Multiply", "c_1", []any{"Square", "x_1"}}, -25})
		require.NoError(t, err)

		_, err = ParseExpr(expr.Render())
		require.NoError(t, err, "rendered form must be parseable")

		assert.Equal(t, []string{"c_1", "x_1"}, expr.Symbols())
	})

	t.Run("unknown operator fails", func(t *testing.T) {
		t.Parallel()

		_, err := ExprFromMathJSON([]any{"Frobnicate", "x_1"})
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("wrong arity fails", func(t *testing.T) {
		t.Parallel()

		_, err := ExprFromMathJSON([]any{"Divide", "x_1"})
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("array without operator name fails", func(t *testing.T) {
		t.Parallel()

		_, err := ExprFromMathJSON([]any{1.0, 2.0})
		require.ErrorIs(t, err, ErrParse)
	})
}

func TestCall_ArityChecks(t *testing.T) {
	t.Parallel()

	_, err := Call(OpSubtract, Sym("a"))
	require.ErrorIs(t, err, ErrParse)

	_, err = Call(OpMax)
	require.ErrorIs(t, err, ErrParse)

	_, err = Call(Operator("Nope"), Sym("a"))
	require.ErrorIs(t, err, ErrParse)

	expr, err := Call(OpAdd, Sym("a"), Sym("b"), Sym("c"))
	require.NoError(t, err)
	assert.Len(t, expr.Operands, 3)
}

func TestExpr_SymbolsDeduplicates(t *testing.T) {
	t.Parallel()

	expr := MustParse("x_1 + x_2 * x_1 + Sin(x_3)")

	assert.Equal(t, []string{"x_1", "x_2", "x_3"}, expr.Symbols())
}
