package model

import (
	"errors"
	"testing"
)

func TestTensorVariable_Expand(t *testing.T) {
	t.Parallel()

	tv := TensorVariable{
		Name:          "X",
		Symbol:        "X",
		Type:          VariableReal,
		Shape:         []int{2, 3},
		LowerBounds:   []float64{0, 0, 0, 0, 0, 0},
		UpperBounds:   []float64{1, 2, 3, 4, 5, 6},
		InitialValues: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
	}

	variables, err := tv.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(variables) != 6 {
		t.Fatalf("expected 6 scalar variables, got %d", len(variables))
	}

	wantSymbols := []string{"X_1_1", "X_1_2", "X_1_3", "X_2_1", "X_2_2", "X_2_3"}

	for i, want := range wantSymbols {
		if variables[i].Symbol != want {
			t.Errorf("variable %d symbol = %q, want %q", i, variables[i].Symbol, want)
		}

		if variables[i].UpperBound != float64(i+1) {
			t.Errorf("variable %d upper bound = %v, want %v (row-major order)", i, variables[i].UpperBound, i+1)
		}

		if variables[i].InitialValue == nil || *variables[i].InitialValue != float64(i+1)/10 {
			t.Errorf("variable %d initial value mismatch", i)
		}
	}
}

func TestTensorVariable_ExpandErrors(t *testing.T) {
	t.Parallel()

	_, err := TensorVariable{Symbol: "X", Shape: []int{2, 0}}.Expand()
	if !errors.Is(err, ErrProblem) {
		t.Errorf("non-positive dimension: error = %v, want ErrProblem", err)
	}

	_, err = TensorVariable{Symbol: "X", Shape: []int{2}, LowerBounds: []float64{0}, UpperBounds: []float64{1, 2}}.Expand()
	if !errors.Is(err, ErrProblem) {
		t.Errorf("ragged bounds: error = %v, want ErrProblem", err)
	}
}

func TestProblem_WithTensorVariables(t *testing.T) {
	t.Parallel()

	base := Problem{
		Name:       "tensor",
		Objectives: []Objective{{Name: "f", Symbol: "f", Func: MustParse("X_1 + X_2")}},
	}

	out, err := base.WithTensorVariables(TensorVariable{
		Name:        "X",
		Symbol:      "X",
		Type:        VariableReal,
		Shape:       []int{2},
		LowerBounds: []float64{0, 0},
		UpperBounds: []float64{1, 1},
	})
	if err != nil {
		t.Fatalf("WithTensorVariables failed: %v", err)
	}

	if len(out.Variables) != 2 {
		t.Fatalf("expected 2 expanded variables, got %d", len(out.Variables))
	}

	if len(base.Variables) != 0 {
		t.Errorf("the receiver gained variables")
	}

	// A second tensor colliding with the expanded symbols must fail.
	_, err = out.WithTensorVariables(TensorVariable{
		Name:        "X",
		Symbol:      "X",
		Shape:       []int{2},
		LowerBounds: []float64{0, 0},
		UpperBounds: []float64{1, 1},
	})
	if !errors.Is(err, ErrProblem) {
		t.Errorf("duplicate expansion: error = %v, want ErrProblem", err)
	}
}
