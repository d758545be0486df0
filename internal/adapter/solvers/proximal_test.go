package solvers

import (
	"math"
	"testing"

	"github.com/mouse-blink/pareto/internal/domain"
)

func TestProximal_PicksTheBestTabulatedRow(t *testing.T) {
	t.Parallel()

	problem, target, err := domain.AddObjectiveAsScalarization(domain.SimpleDataProblem(), "target", "g_2")
	if err != nil {
		t.Fatalf("AddObjectiveAsScalarization failed: %v", err)
	}

	solver, err := NewProximalSolver(problem, nil)
	if err != nil {
		t.Fatalf("NewProximalSolver failed: %v", err)
	}

	result, err := solver.Solve(target)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Message)
	}

	// Row 0 holds y_i = i*0.5, which minimizes g_2 = max_i y_i.
	if math.Abs(result.OptimalObjectives["g_2"]-2.5) > 1e-9 {
		t.Errorf("g_2 = %v, want 2.5", result.OptimalObjectives["g_2"])
	}

	if math.Abs(result.OptimalVariables["y_1"]-0.5) > 1e-9 {
		t.Errorf("y_1 = %v, want 0.5", result.OptimalVariables["y_1"])
	}
}

func TestProximal_RequiresADiscreteRepresentation(t *testing.T) {
	t.Parallel()

	if _, err := NewProximalSolver(domain.BinhAndKorn(false, false), nil); err == nil {
		t.Errorf("NewProximalSolver succeeded without a discrete representation")
	}
}

func TestProximal_UnknownTarget(t *testing.T) {
	t.Parallel()

	solver, err := NewProximalSolver(domain.SimpleDataProblem(), nil)
	if err != nil {
		t.Fatalf("NewProximalSolver failed: %v", err)
	}

	if _, err := solver.Solve("nope"); err == nil {
		t.Errorf("Solve(nope) succeeded, expected an error")
	}
}
