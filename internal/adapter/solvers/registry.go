package solvers

import (
	"fmt"

	"github.com/mouse-blink/pareto/internal/adapter"
	m "github.com/mouse-blink/pareto/internal/model"
)

// traits are the problem properties a backend must be able to handle.
type traits struct {
	dataObjectives    bool
	integerVariables  bool
	nondifferentiable bool
	constrained       bool
}

func problemTraits(problem m.Problem) traits {
	t := traits{constrained: len(problem.Constraints) > 0}

	for _, obj := range problem.Objectives {
		if obj.Func == nil {
			t.dataObjectives = true
		}

		if !obj.IsTwiceDifferentiable {
			t.nondifferentiable = true
		}
	}

	for _, v := range problem.Variables {
		if v.Type != m.VariableReal {
			t.integerVariables = true
		}
	}

	return t
}

// registryEntry pairs a backend with the traits it supports. Entries are
// ranked; the first entry whose capabilities cover the problem's traits wins.
type registryEntry struct {
	name     string
	supports func(traits) bool
	factory  func() adapter.SolverFactory
}

var registry = []registryEntry{
	{
		name: "proximal",
		supports: func(t traits) bool {
			return t.dataObjectives
		},
		factory: ProximalFactory,
	},
	{
		name: "nelder-mead",
		supports: func(t traits) bool {
			return !t.dataObjectives && !t.integerVariables
		},
		factory: NelderMeadFactory,
	},
}

// GuessBestSolver inspects the problem and returns the factory of the
// highest-ranked backend whose capabilities cover it. Selection is a pure
// function of the problem; no solver is constructed. An uncoverable problem,
// such as analytical objectives over integer variables, is an error rather
// than a silent bad fit.
func GuessBestSolver(problem m.Problem) (adapter.SolverFactory, error) {
	t := problemTraits(problem)

	for _, entry := range registry {
		if entry.supports(t) {
			return entry.factory(), nil
		}
	}

	return nil, fmt.Errorf("%w: no solver backend covers problem %q", m.ErrProblem, problem.Name)
}
