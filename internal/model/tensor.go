package model

import "fmt"

// TensorVariable is a shaped collection of scalar variables. It exists only
// as construction-time input: Expand desugars it into one scalar Variable
// per index, and only those appear in a Problem. Bounds and initial values
// are given flattened in row-major order.
type TensorVariable struct {
	Name          string       `json:"name" yaml:"name"`
	Symbol        string       `json:"symbol" yaml:"symbol" validate:"required"`
	Type          VariableType `json:"variable_type" yaml:"variable_type"`
	Shape         []int        `json:"shape" yaml:"shape" validate:"required,min=1"`
	LowerBounds   []float64    `json:"lowerbounds" yaml:"lowerbounds"`
	UpperBounds   []float64    `json:"upperbounds" yaml:"upperbounds"`
	InitialValues []float64    `json:"initial_values,omitempty" yaml:"initial_values,omitempty"`
}

// Expand desugars the tensor into scalar variables with 1-based indexed
// symbols: a [2,3] tensor X yields X_1_1 through X_2_3 in row-major order.
func (tv TensorVariable) Expand() ([]Variable, error) {
	size := 1

	for _, dim := range tv.Shape {
		if dim < 1 {
			return nil, fmt.Errorf("%w: tensor %q has non-positive dimension %d", ErrProblem, tv.Symbol, dim)
		}

		size *= dim
	}

	if len(tv.LowerBounds) != size || len(tv.UpperBounds) != size {
		return nil, fmt.Errorf("%w: tensor %q bounds must have %d elements, got %d lower and %d upper",
			ErrProblem, tv.Symbol, size, len(tv.LowerBounds), len(tv.UpperBounds))
	}

	if tv.InitialValues != nil && len(tv.InitialValues) != size {
		return nil, fmt.Errorf("%w: tensor %q initial values must have %d elements, got %d",
			ErrProblem, tv.Symbol, size, len(tv.InitialValues))
	}

	variables := make([]Variable, 0, size)
	index := make([]int, len(tv.Shape))

	for flat := 0; flat < size; flat++ {
		symbol := tv.Symbol
		for _, i := range index {
			symbol = fmt.Sprintf("%s_%d", symbol, i+1)
		}

		v := Variable{
			Name:       fmt.Sprintf("%s%v", tv.Name, indexSuffix(index)),
			Symbol:     symbol,
			Type:       tv.Type,
			LowerBound: tv.LowerBounds[flat],
			UpperBound: tv.UpperBounds[flat],
		}

		if tv.InitialValues != nil {
			v.InitialValue = Float64Ptr(tv.InitialValues[flat])
		}

		variables = append(variables, v)

		// advance the row-major index
		for axis := len(index) - 1; axis >= 0; axis-- {
			index[axis]++
			if index[axis] < tv.Shape[axis] {
				break
			}

			index[axis] = 0
		}
	}

	return variables, nil
}

func indexSuffix(index []int) string {
	out := ""
	for _, i := range index {
		out += fmt.Sprintf("[%d]", i+1)
	}

	return out
}

// WithTensorVariables returns a copy of the problem with each tensor
// desugared into scalar variables. This is the only point tensors are
// expanded; evaluation always sees scalar symbols.
func (p Problem) WithTensorVariables(tensors ...TensorVariable) (Problem, error) {
	out := p.clone()

	for _, tv := range tensors {
		expanded, err := tv.Expand()
		if err != nil {
			return Problem{}, err
		}

		for _, v := range expanded {
			if out.hasSymbol(v.Symbol) {
				return Problem{}, fmt.Errorf("%w: symbol %q is already defined", ErrProblem, v.Symbol)
			}

			out.Variables = append(out.Variables, v)
		}
	}

	return out, nil
}
