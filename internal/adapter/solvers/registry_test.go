package solvers

import (
	"errors"
	"testing"

	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

func TestGuessBestSolver(t *testing.T) {
	t.Parallel()

	t.Run("data objectives pick the proximal backend", func(t *testing.T) {
		t.Parallel()

		factory, err := GuessBestSolver(domain.SimpleDataProblem())
		if err != nil {
			t.Fatalf("GuessBestSolver failed: %v", err)
		}

		solver, err := factory.CreateSolver(domain.SimpleDataProblem(), nil)
		if err != nil {
			t.Fatalf("CreateSolver failed: %v", err)
		}

		if _, ok := solver.(*proximal); !ok {
			t.Errorf("expected a proximal solver, got %T", solver)
		}
	})

	t.Run("analytical continuous problems pick nelder-mead", func(t *testing.T) {
		t.Parallel()

		factory, err := GuessBestSolver(domain.BinhAndKorn(false, false))
		if err != nil {
			t.Fatalf("GuessBestSolver failed: %v", err)
		}

		solver, err := factory.CreateSolver(domain.BinhAndKorn(false, false), nil)
		if err != nil {
			t.Fatalf("CreateSolver failed: %v", err)
		}

		if _, ok := solver.(*nelderMead); !ok {
			t.Errorf("expected a nelder-mead solver, got %T", solver)
		}
	})

	t.Run("analytical integer problems are not covered", func(t *testing.T) {
		t.Parallel()

		p := domain.BinhAndKorn(false, false)
		p.Variables[0].Type = m.VariableInteger

		if _, err := GuessBestSolver(p); !errors.Is(err, m.ErrProblem) {
			t.Errorf("GuessBestSolver = %v, want ErrProblem", err)
		}
	})
}
