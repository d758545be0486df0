package model

import (
	"errors"
	"testing"
)

func twoObjectiveProblem() Problem {
	return Problem{
		Name: "test",
		Variables: []Variable{
			{Name: "x", Symbol: "x", Type: VariableReal, LowerBound: 0, UpperBound: 1},
			{Name: "y", Symbol: "y", Type: VariableReal, LowerBound: 0, UpperBound: 1},
		},
		Objectives: []Objective{
			{Name: "f_1", Symbol: "f_1", Func: MustParse("x + y"), Ideal: Float64Ptr(0), Nadir: Float64Ptr(2)},
			{Name: "f_2", Symbol: "f_2", Func: MustParse("x - y"), Maximize: true, Ideal: Float64Ptr(1), Nadir: Float64Ptr(-1)},
		},
	}
}

func TestProblem_AddScalarizationLeavesReceiverUnchanged(t *testing.T) {
	t.Parallel()

	base := twoObjectiveProblem()

	out, err := base.AddScalarization(ScalarizationFunction{
		Name:   "target",
		Symbol: "target",
		Func:   MustParse("f_1_min + f_2_min"),
	})
	if err != nil {
		t.Fatalf("AddScalarization failed: %v", err)
	}

	if len(base.Scalarizations) != 0 {
		t.Errorf("the receiver gained %d scalarizations", len(base.Scalarizations))
	}

	if len(out.Scalarizations) != 1 {
		t.Fatalf("expected 1 scalarization on the copy, got %d", len(out.Scalarizations))
	}

	// Appending to the copy must not leak into slices shared with the base.
	out2, err := out.AddConstraints(Constraint{
		Name: "c", Symbol: "c", Type: ConstraintLTE, Func: MustParse("x - 0.5"),
	})
	if err != nil {
		t.Fatalf("AddConstraints failed: %v", err)
	}

	if len(base.Constraints) != 0 || len(out.Constraints) != 0 {
		t.Errorf("constraint leaked into an older copy")
	}

	if len(out2.Constraints) != 1 {
		t.Errorf("expected 1 constraint, got %d", len(out2.Constraints))
	}
}

func TestProblem_AddScalarizationRejectsDuplicateSymbols(t *testing.T) {
	t.Parallel()

	base := twoObjectiveProblem()

	for _, symbol := range []string{"x", "f_1", "f_1_min"} {
		_, err := base.AddScalarization(ScalarizationFunction{Name: symbol, Symbol: symbol, Func: MustParse("x")})
		if !errors.Is(err, ErrProblem) {
			t.Errorf("AddScalarization(%q) error = %v, want ErrProblem", symbol, err)
		}
	}
}

func TestProblem_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid problem passes", func(t *testing.T) {
		t.Parallel()

		if err := twoObjectiveProblem().Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("undefined symbol in expression", func(t *testing.T) {
		t.Parallel()

		p := twoObjectiveProblem()
		p.Objectives[0].Func = MustParse("x + z")

		if err := p.Validate(); !errors.Is(err, ErrProblem) {
			t.Errorf("Validate() = %v, want ErrProblem", err)
		}
	})

	t.Run("objective symbol in the synonym namespace", func(t *testing.T) {
		t.Parallel()

		p := twoObjectiveProblem()
		p.Objectives[0].Symbol = "f_1_min"

		if err := p.Validate(); !errors.Is(err, ErrProblem) {
			t.Errorf("Validate() = %v, want ErrProblem", err)
		}
	})

	t.Run("ideal worse than nadir", func(t *testing.T) {
		t.Parallel()

		p := twoObjectiveProblem()
		p.Objectives[0].Ideal = Float64Ptr(3)

		if err := p.Validate(); !errors.Is(err, ErrProblem) {
			t.Errorf("Validate() = %v, want ErrProblem", err)
		}
	})

	t.Run("data objective without representation", func(t *testing.T) {
		t.Parallel()

		p := twoObjectiveProblem()
		p.Objectives[0].Func = nil

		if err := p.Validate(); !errors.Is(err, ErrProblem) {
			t.Errorf("Validate() = %v, want ErrProblem", err)
		}
	})
}

func TestProblem_ForScenario(t *testing.T) {
	t.Parallel()

	p := twoObjectiveProblem()
	p.ScenarioKeys = []string{"wet", "dry"}
	p.Objectives[0].ScenarioKeys = []string{"wet"}
	p.Constraints = []Constraint{
		{Name: "c", Symbol: "c", Type: ConstraintLTE, Func: MustParse("x - 0.5"), ScenarioKeys: []string{"dry"}},
	}

	wet, err := p.ForScenario("wet")
	if err != nil {
		t.Fatalf("ForScenario failed: %v", err)
	}

	// f_1 is wet-only, f_2 has no keys and applies everywhere, c is dry-only.
	if len(wet.Objectives) != 2 {
		t.Errorf("expected 2 objectives in the wet scenario, got %d", len(wet.Objectives))
	}

	if len(wet.Constraints) != 0 {
		t.Errorf("expected no constraints in the wet scenario, got %d", len(wet.Constraints))
	}

	dry, err := p.ForScenario("dry")
	if err != nil {
		t.Fatalf("ForScenario failed: %v", err)
	}

	if len(dry.Objectives) != 1 || dry.Objectives[0].Symbol != "f_2" {
		t.Errorf("expected only f_2 in the dry scenario")
	}

	if _, err := p.ForScenario("flood"); !errors.Is(err, ErrProblem) {
		t.Errorf("ForScenario(flood) = %v, want ErrProblem", err)
	}
}

func TestProblem_IdealAndNadirPoints(t *testing.T) {
	t.Parallel()

	p := twoObjectiveProblem()

	ideal, complete := p.IdealPoint()
	if !complete {
		t.Fatalf("expected a complete ideal point")
	}

	if ideal["f_1"] != 0 || ideal["f_2"] != 1 {
		t.Errorf("unexpected ideal point %v", ideal)
	}

	p.Objectives[1].Nadir = nil

	if _, complete := p.NadirPoint(); complete {
		t.Errorf("expected an incomplete nadir point")
	}
}

func TestObjective_Bounds(t *testing.T) {
	t.Parallel()

	minimized := Objective{Ideal: Float64Ptr(0), Nadir: Float64Ptr(140)}

	lower, upper, ok := minimized.Bounds()
	if !ok || lower != 0 || upper != 140 {
		t.Errorf("Bounds() = (%v, %v, %v), want (0, 140, true)", lower, upper, ok)
	}

	maximized := Objective{Maximize: true, Ideal: Float64Ptr(1), Nadir: Float64Ptr(-1)}

	lower, upper, ok = maximized.Bounds()
	if !ok || lower != -1 || upper != 1 {
		t.Errorf("Bounds() = (%v, %v, %v), want (-1, 1, true)", lower, upper, ok)
	}

	if _, _, ok := (Objective{Ideal: Float64Ptr(0)}).Bounds(); ok {
		t.Errorf("Bounds() reported ok without a nadir")
	}
}
