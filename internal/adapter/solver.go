// Package adapter contains the solver backends, the archive stores, and the
// problem codecs consumed by the domain layer.
package adapter

import (
	m "github.com/mouse-blink/pareto/internal/model"
)

// SolverOptions is an opaque bag of backend-specific options. The core never
// inspects its contents; it is passed through to the backend when the caller
// supplies one.
type SolverOptions map[string]any

// Solver optimizes one target symbol of the problem it was created for.
// A backend failure (infeasible, unbounded, non-convergent) is reported as
// SolverResults with Success=false, not as an error; errors are reserved for
// mechanical faults such as an unknown target symbol.
type Solver interface {
	Solve(target string) (m.SolverResults, error)
}

// SolverFactory creates solvers bound to a problem.
type SolverFactory interface {
	CreateSolver(problem m.Problem, options SolverOptions) (Solver, error)
}

// SolverFactoryFunc adapts a function to the SolverFactory interface.
type SolverFactoryFunc func(problem m.Problem, options SolverOptions) (Solver, error)

// CreateSolver calls f.
func (f SolverFactoryFunc) CreateSolver(problem m.Problem, options SolverOptions) (Solver, error) {
	return f(problem, options)
}
