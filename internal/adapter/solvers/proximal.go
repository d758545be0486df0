package solvers

import (
	"fmt"
	"math"

	"github.com/mouse-blink/pareto/internal/adapter"
	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

type proximal struct {
	problem   m.Problem
	evaluator *domain.Evaluator
}

// NewProximalSolver builds a solver for data-driven problems: it evaluates
// the target at every row of the discrete representation and returns the row
// with the smallest target value. No search, no approximation. Constraint
// values are reported but not enforced; a tabulated solution is taken to be
// attainable as given.
func NewProximalSolver(problem m.Problem, _ adapter.SolverOptions) (adapter.Solver, error) {
	if problem.DiscreteRepresentation == nil {
		return nil, fmt.Errorf("%w: the problem has no discrete representation", m.ErrProblem)
	}

	evaluator, err := domain.NewEvaluator(problem)
	if err != nil {
		return nil, err
	}

	return &proximal{problem: problem, evaluator: evaluator}, nil
}

// ProximalFactory adapts NewProximalSolver to the factory interface.
func ProximalFactory() adapter.SolverFactory {
	return adapter.SolverFactoryFunc(NewProximalSolver)
}

func (s *proximal) Solve(target string) (m.SolverResults, error) {
	if err := checkTarget(s.problem, target); err != nil {
		return m.SolverResults{}, err
	}

	dr := s.problem.DiscreteRepresentation

	rows := 0
	for _, column := range dr.VariableValues {
		rows = len(column)
		break
	}

	if rows == 0 {
		return m.SolverResults{Success: false, Message: "the discrete representation is empty"}, nil
	}

	best := -1
	bestValue := math.Inf(1)

	var bestPoint map[string]float64

	for row := 0; row < rows; row++ {
		point := make(map[string]float64, len(s.problem.Variables))
		for _, v := range s.problem.Variables {
			point[v.Symbol] = dr.VariableValues[v.Symbol][row]
		}

		evaluated, err := s.evaluator.EvaluatePoint(point)
		if err != nil {
			return m.SolverResults{}, err
		}

		if evaluated[target] < bestValue {
			best = row
			bestValue = evaluated[target]
			bestPoint = evaluated
		}
	}

	if best < 0 {
		return m.SolverResults{Success: false, Message: "the discrete representation has no evaluable rows"}, nil
	}

	out := m.SolverResults{
		Success:           true,
		OptimalVariables:  make(map[string]float64, len(s.problem.Variables)),
		OptimalObjectives: make(map[string]float64, len(s.problem.Objectives)),
		Message:           fmt.Sprintf("best of %d tabulated solutions", rows),
	}

	for _, v := range s.problem.Variables {
		out.OptimalVariables[v.Symbol] = bestPoint[v.Symbol]
	}

	for _, obj := range s.problem.Objectives {
		out.OptimalObjectives[obj.Symbol] = bestPoint[obj.Symbol]
	}

	if len(s.problem.Constraints) > 0 {
		out.ConstraintValues = make(map[string]float64, len(s.problem.Constraints))

		for _, con := range s.problem.Constraints {
			out.ConstraintValues[con.Symbol] = bestPoint[con.Symbol]
		}
	}

	return out, nil
}
