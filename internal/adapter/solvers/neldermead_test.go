package solvers

import (
	"math"
	"testing"

	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

func quadraticProblem() m.Problem {
	return m.Problem{
		Name: "quadratic",
		Variables: []m.Variable{
			{Name: "x", Symbol: "x", Type: m.VariableReal, LowerBound: 0, UpperBound: 10, InitialValue: m.Float64Ptr(5)},
		},
		Objectives: []m.Objective{
			{Name: "f", Symbol: "f", Func: m.MustParse("(x - 2)**2"), Ideal: m.Float64Ptr(0), Nadir: m.Float64Ptr(64)},
		},
	}
}

func TestNelderMead_FindsUnconstrainedMinimum(t *testing.T) {
	t.Parallel()

	solver, err := NewNelderMeadSolver(quadraticProblem(), nil)
	if err != nil {
		t.Fatalf("NewNelderMeadSolver failed: %v", err)
	}

	result, err := solver.Solve("f")
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	if math.Abs(result.OptimalVariables["x"]-2) > 1e-3 {
		t.Errorf("x = %v, want 2", result.OptimalVariables["x"])
	}

	if result.OptimalObjectives["f"] > 1e-5 {
		t.Errorf("f = %v, want about 0", result.OptimalObjectives["f"])
	}
}

func TestNelderMead_RespectsBounds(t *testing.T) {
	t.Parallel()

	p := quadraticProblem()
	p.Variables[0].LowerBound = 3
	p.Variables[0].InitialValue = m.Float64Ptr(6)

	solver, err := NewNelderMeadSolver(p, nil)
	if err != nil {
		t.Fatalf("NewNelderMeadSolver failed: %v", err)
	}

	result, err := solver.Solve("f")
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	// The unconstrained minimum at 2 lies outside the box; the penalty
	// pins the optimum to the lower bound.
	if math.Abs(result.OptimalVariables["x"]-3) > 1e-3 {
		t.Errorf("x = %v, want 3", result.OptimalVariables["x"])
	}
}

func TestNelderMead_ReportsConstraintValues(t *testing.T) {
	t.Parallel()

	p := quadraticProblem()
	p.Constraints = []m.Constraint{
		{Name: "g", Symbol: "g", Type: m.ConstraintLTE, Func: m.MustParse("x - 5")},
	}

	solver, err := NewNelderMeadSolver(p, nil)
	if err != nil {
		t.Fatalf("NewNelderMeadSolver failed: %v", err)
	}

	result, err := solver.Solve("f")
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	g, ok := result.ConstraintValues["g"]
	if !ok {
		t.Fatalf("missing constraint value for g")
	}

	if math.Abs(g-(-3)) > 1e-2 {
		t.Errorf("g = %v, want about -3", g)
	}
}

func TestNelderMead_SolvesAchievementScalarization(t *testing.T) {
	t.Parallel()

	problem, target, err := domain.AddASF(domain.BinhAndKorn(false, false), "asf",
		map[string]float64{"f_1": 40, "f_2": 20})
	if err != nil {
		t.Fatalf("AddASF failed: %v", err)
	}

	solver, err := NewNelderMeadSolver(problem, nil)
	if err != nil {
		t.Fatalf("NewNelderMeadSolver failed: %v", err)
	}

	result, err := solver.Solve(target)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	// The projection lands inside the attainable objective ranges.
	for symbol, bounds := range map[string][2]float64{"f_1": {0, 140}, "f_2": {0, 50}} {
		value := result.OptimalObjectives[symbol]
		if value < bounds[0]-1 || value > bounds[1]+1 {
			t.Errorf("%s = %v outside [%v, %v]", symbol, value, bounds[0], bounds[1])
		}
	}
}

func TestNelderMead_UnknownTarget(t *testing.T) {
	t.Parallel()

	solver, err := NewNelderMeadSolver(quadraticProblem(), nil)
	if err != nil {
		t.Fatalf("NewNelderMeadSolver failed: %v", err)
	}

	if _, err := solver.Solve("nope"); err == nil {
		t.Errorf("Solve(nope) succeeded, expected an error")
	}
}
