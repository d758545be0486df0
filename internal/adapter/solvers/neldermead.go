// Package solvers contains the solver backends and the capability registry
// that picks one for a problem.
package solvers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/mouse-blink/pareto/internal/adapter"
	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

// Penalty weight for constraint and bound violations and the tolerance below
// which a constraint counts as satisfied.
const (
	penaltyWeight  = 1e6
	feasibilityTol = 1e-6
)

type nelderMead struct {
	problem   m.Problem
	evaluator *domain.Evaluator
}

// NewNelderMeadSolver builds a derivative-free local solver. Constraints and
// variable bounds are folded into the target as quadratic penalties, so the
// backend handles nondifferentiable and constrained problems alike, at the
// usual cost of a merely near-feasible optimum on active constraints.
func NewNelderMeadSolver(problem m.Problem, _ adapter.SolverOptions) (adapter.Solver, error) {
	evaluator, err := domain.NewEvaluator(problem)
	if err != nil {
		return nil, err
	}

	return &nelderMead{problem: problem, evaluator: evaluator}, nil
}

// NelderMeadFactory adapts NewNelderMeadSolver to the factory interface.
func NelderMeadFactory() adapter.SolverFactory {
	return adapter.SolverFactoryFunc(NewNelderMeadSolver)
}

func (s *nelderMead) Solve(target string) (m.SolverResults, error) {
	if err := checkTarget(s.problem, target); err != nil {
		return m.SolverResults{}, err
	}

	objective := func(x []float64) float64 {
		point, err := s.evaluatePoint(x)
		if err != nil {
			return math.Inf(1)
		}

		value := point[target]

		for i, v := range s.problem.Variables {
			if x[i] < v.LowerBound {
				d := v.LowerBound - x[i]
				value += penaltyWeight * d * d
			}

			if x[i] > v.UpperBound {
				d := x[i] - v.UpperBound
				value += penaltyWeight * d * d
			}
		}

		for _, con := range s.problem.Constraints {
			violation := constraintViolation(con, point[con.Symbol])
			value += penaltyWeight * violation * violation
		}

		return value
	}

	x0 := s.initialPoint()

	result, err := optimize.Minimize(optimize.Problem{Func: objective}, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return m.SolverResults{Success: false, Message: fmt.Sprintf("optimization failed: %v", err)}, nil
	}

	point, err := s.evaluatePoint(result.X)
	if err != nil {
		return m.SolverResults{}, err
	}

	return s.collect(result, point), nil
}

// collect assembles SolverResults from the optimum, demoting a converged run
// to a failure when the penalties left a constraint violated.
func (s *nelderMead) collect(result *optimize.Result, point map[string]float64) m.SolverResults {
	out := m.SolverResults{
		Success:           true,
		OptimalVariables:  make(map[string]float64, len(s.problem.Variables)),
		OptimalObjectives: make(map[string]float64, len(s.problem.Objectives)),
		Message:           fmt.Sprintf("converged after %d evaluations", result.FuncEvaluations),
	}

	for _, v := range s.problem.Variables {
		out.OptimalVariables[v.Symbol] = point[v.Symbol]
	}

	for _, obj := range s.problem.Objectives {
		out.OptimalObjectives[obj.Symbol] = point[obj.Symbol]
	}

	if len(s.problem.Constraints) > 0 {
		out.ConstraintValues = make(map[string]float64, len(s.problem.Constraints))

		for _, con := range s.problem.Constraints {
			out.ConstraintValues[con.Symbol] = point[con.Symbol]

			if constraintViolation(con, point[con.Symbol]) > feasibilityTol {
				out.Success = false
				out.Message = fmt.Sprintf("constraint %q is violated at the optimum", con.Symbol)
			}
		}
	}

	return out
}

func (s *nelderMead) evaluatePoint(x []float64) (map[string]float64, error) {
	point := make(map[string]float64, len(s.problem.Variables))

	for i, v := range s.problem.Variables {
		point[v.Symbol] = x[i]
	}

	return s.evaluator.EvaluatePoint(point)
}

// initialPoint starts from the declared initial values, falling back to the
// midpoint of each variable's bounds.
func (s *nelderMead) initialPoint() []float64 {
	x0 := make([]float64, len(s.problem.Variables))

	for i, v := range s.problem.Variables {
		if v.InitialValue != nil {
			x0[i] = *v.InitialValue
		} else {
			x0[i] = (v.LowerBound + v.UpperBound) / 2
		}
	}

	return x0
}

func constraintViolation(con m.Constraint, value float64) float64 {
	if con.Type == m.ConstraintEQ {
		return math.Abs(value)
	}

	return math.Max(0, value)
}

// checkTarget verifies the target symbol names a scalarization or an
// objective of the problem.
func checkTarget(problem m.Problem, target string) error {
	for _, sf := range problem.Scalarizations {
		if sf.Symbol == target {
			return nil
		}
	}

	for _, obj := range problem.Objectives {
		if obj.Symbol == target || m.MinSymbol(obj.Symbol) == target {
			return nil
		}
	}

	return fmt.Errorf("%w: target %q names neither a scalarization nor an objective", m.ErrProblem, target)
}
