package domain

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/pareto/internal/adapter"
	m "github.com/mouse-blink/pareto/internal/model"
)

// Symbols under which the method registers its scalarizations on the
// sub-problem copies. The base problem is never mutated, so the same symbols
// can be reused on every iteration.
const (
	nimbusSymbol = "nimbus_sf"
	stomSymbol   = "stom_sf"
	asfSymbol    = "asf"
	guessSymbol  = "guess_sf"
)

// MaxSubProblems caps how many alternative solutions one classification step
// may request, one per available scalarization.
const MaxSubProblems = 4

// Method runs the synchronous NIMBUS iteration loop over one problem: a
// starting point, then repeated rounds of classification, sub-problem solves,
// and intermediate solutions between any two known solutions.
type Method interface {
	GenerateStartingPoint(referencePoint map[string]float64) (m.SolverResults, error)
	InferClassifications(currentObjectives, referencePoint map[string]float64) (map[string]m.Classification, error)
	SolveSubProblems(currentObjectives, referencePoint map[string]float64, numDesired int) ([]m.SolverResults, error)
	SolveIntermediateSolutions(solution1, solution2 map[string]float64, numDesired int) ([]m.SolverResults, error)
}

type method struct {
	problem   m.Problem
	evaluator *Evaluator
	factory   adapter.SolverFactory
	options   adapter.SolverOptions
	scalOpts  []ScalarizationOption
	logger    *zap.Logger
}

// MethodOption configures NewMethod.
type MethodOption func(*method)

// WithSolverOptions passes backend options through to every created solver.
func WithSolverOptions(options adapter.SolverOptions) MethodOption {
	return func(mt *method) { mt.options = options }
}

// WithScalarizationOptions applies the given options to every scalarization
// the method builds.
func WithScalarizationOptions(opts ...ScalarizationOption) MethodOption {
	return func(mt *method) { mt.scalOpts = opts }
}

// WithLogger attaches a logger to the method.
func WithLogger(logger *zap.Logger) MethodOption {
	return func(mt *method) { mt.logger = logger }
}

// NewMethod builds a Method for the problem. The problem must declare a
// complete ideal and nadir point; the scalarizations cannot be normalized
// without them.
func NewMethod(problem m.Problem, factory adapter.SolverFactory, opts ...MethodOption) (Method, error) {
	if _, ok := problem.IdealPoint(); !ok {
		return nil, fmt.Errorf("%w: the problem does not declare an ideal value for every objective", m.ErrMethod)
	}

	if _, ok := problem.NadirPoint(); !ok {
		return nil, fmt.Errorf("%w: the problem does not declare a nadir value for every objective", m.ErrMethod)
	}

	evaluator, err := NewEvaluator(problem)
	if err != nil {
		return nil, err
	}

	mt := &method{
		problem:   problem,
		evaluator: evaluator,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(mt)
	}

	mt.factory = factory
	if mt.factory == nil {
		return nil, fmt.Errorf("%w: no solver factory given", m.ErrMethod)
	}

	return mt, nil
}

// GenerateStartingPoint projects a reference point onto the Pareto optimal
// front with the achievement scalarizing function. Missing reference
// components default to the objective's ideal value, so an empty map asks for
// a neutral compromise near the ideal.
func (mt *method) GenerateStartingPoint(referencePoint map[string]float64) (m.SolverResults, error) {
	ideal, _ := mt.problem.IdealPoint()

	reference := make(map[string]float64, len(mt.problem.Objectives))
	for _, obj := range mt.problem.Objectives {
		if value, ok := referencePoint[obj.Symbol]; ok {
			reference[obj.Symbol] = value
		} else {
			reference[obj.Symbol] = ideal[obj.Symbol]
		}
	}

	sub, target, err := AddASF(mt.problem, asfSymbol, reference, mt.scalOpts...)
	if err != nil {
		return m.SolverResults{}, err
	}

	mt.logger.Debug("solving for a starting point", zap.String("target", target))

	results, err := mt.solveAll([]subProblem{{problem: sub, target: target}})
	if err != nil {
		return m.SolverResults{}, err
	}

	return results[0], nil
}

// InferClassifications derives a NIMBUS classification for every objective by
// comparing the reference point against the current solution. Checks run in
// priority order: a reference at the nadir frees the objective, at the ideal
// it demands unbounded improvement, at the current value it keeps the
// objective, and anything else becomes an aspiration or reservation level
// depending on which side of the current value it falls. A component that
// matches none of the cases, such as a NaN, is an error.
func (mt *method) InferClassifications(currentObjectives, referencePoint map[string]float64) (map[string]m.Classification, error) {
	ideal, _ := mt.problem.IdealPoint()
	nadir, _ := mt.problem.NadirPoint()

	out := make(map[string]m.Classification, len(mt.problem.Objectives))

	for _, obj := range mt.problem.Objectives {
		current, ok := currentObjectives[obj.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: the current solution is missing objective %q", m.ErrMethod, obj.Symbol)
		}

		reference, ok := referencePoint[obj.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: the reference point is missing objective %q", m.ErrMethod, obj.Symbol)
		}

		classification, err := classify(obj, current, reference, ideal[obj.Symbol], nadir[obj.Symbol])
		if err != nil {
			return nil, err
		}

		out[obj.Symbol] = classification
	}

	return out, nil
}

func classify(obj m.Objective, current, reference, ideal, nadir float64) (m.Classification, error) {
	improves := func(from, to float64) bool {
		if obj.Maximize {
			return to > from
		}

		return to < from
	}

	switch {
	case approxEqual(reference, nadir):
		return m.Classification{Kind: m.ClassFree}, nil
	case approxEqual(reference, ideal):
		return m.Classification{Kind: m.ClassImprove}, nil
	case approxEqual(reference, current):
		return m.Classification{Kind: m.ClassKeep}, nil
	case improves(current, reference):
		return m.Classification{Kind: m.ClassImproveUntil, Level: m.Float64Ptr(reference)}, nil
	case improves(reference, current):
		return m.Classification{Kind: m.ClassImpairUntil, Level: m.Float64Ptr(reference)}, nil
	default:
		return m.Classification{}, fmt.Errorf("%w: reference value %v for objective %q cannot be classified against current value %v",
			m.ErrMethod, reference, obj.Symbol, current)
	}
}

// SolveSubProblems classifies the objectives from the reference point and
// solves up to four scalarized sub-problems concurrently. Results come back
// in a fixed order: NIMBUS, STOM, ASF, GUESS, truncated to numDesired. All
// sub-problems are built before any solve starts, so a bad classification or
// reference point fails fast without spending solver time.
func (mt *method) SolveSubProblems(currentObjectives, referencePoint map[string]float64, numDesired int) ([]m.SolverResults, error) {
	if numDesired < 1 || numDesired > MaxSubProblems {
		return nil, fmt.Errorf("%w: %d solutions requested, expected between 1 and %d", m.ErrMethod, numDesired, MaxSubProblems)
	}

	classifications, err := mt.InferClassifications(currentObjectives, referencePoint)
	if err != nil {
		return nil, err
	}

	builders := []struct {
		name  string
		build func() (m.Problem, string, error)
	}{
		{"nimbus", func() (m.Problem, string, error) {
			return AddNimbusSF(mt.problem, nimbusSymbol, classifications, currentObjectives, mt.scalOpts...)
		}},
		{"stom", func() (m.Problem, string, error) {
			return AddStomSF(mt.problem, stomSymbol, referencePoint, mt.scalOpts...)
		}},
		{"asf", func() (m.Problem, string, error) {
			return AddASF(mt.problem, asfSymbol, referencePoint, mt.scalOpts...)
		}},
		{"guess", func() (m.Problem, string, error) {
			return AddGuessSF(mt.problem, guessSymbol, referencePoint, mt.scalOpts...)
		}},
	}

	subs := make([]subProblem, 0, numDesired)

	for _, builder := range builders[:numDesired] {
		sub, target, err := builder.build()
		if err != nil {
			return nil, fmt.Errorf("building the %s sub-problem: %w", builder.name, err)
		}

		subs = append(subs, subProblem{problem: sub, target: target})
	}

	mt.logger.Debug("solving sub-problems", zap.Int("count", len(subs)))

	return mt.solveAll(subs)
}

// SolveIntermediateSolutions projects numDesired evenly spaced points of the
// segment between two known solutions onto the Pareto optimal front. The
// solutions are given as decision variable assignments; results are ordered
// from nearest solution2 to nearest solution1. The segment endpoints
// themselves are never solved again.
func (mt *method) SolveIntermediateSolutions(solution1, solution2 map[string]float64, numDesired int) ([]m.SolverResults, error) {
	if numDesired < 1 {
		return nil, fmt.Errorf("%w: %d intermediate solutions requested, expected at least 1", m.ErrMethod, numDesired)
	}

	variables := mt.problem.Variables

	for _, v := range variables {
		if _, ok := solution1[v.Symbol]; !ok {
			return nil, fmt.Errorf("%w: the first solution is missing variable %q", m.ErrMethod, v.Symbol)
		}

		if _, ok := solution2[v.Symbol]; !ok {
			return nil, fmt.Errorf("%w: the second solution is missing variable %q", m.ErrMethod, v.Symbol)
		}
	}

	assignments := make(map[string][]float64, len(variables))

	for _, v := range variables {
		step := (solution1[v.Symbol] - solution2[v.Symbol]) / float64(numDesired+2)

		column := make([]float64, numDesired)
		for i := range column {
			column[i] = solution2[v.Symbol] + float64(i+1)*step
		}

		assignments[v.Symbol] = column
	}

	table, err := mt.evaluator.Evaluate(assignments)
	if err != nil {
		return nil, err
	}

	objectiveSymbols := make([]string, len(mt.problem.Objectives))
	for i, obj := range mt.problem.Objectives {
		objectiveSymbols[i] = obj.Symbol
	}

	subs := make([]subProblem, numDesired)

	for i := 0; i < numDesired; i++ {
		reference := table.Select(objectiveSymbols, i)

		sub, target, err := AddASF(mt.problem, asfSymbol, reference, mt.scalOpts...)
		if err != nil {
			return nil, err
		}

		subs[i] = subProblem{problem: sub, target: target}
	}

	mt.logger.Debug("solving intermediate solutions", zap.Int("count", len(subs)))

	return mt.solveAll(subs)
}

type subProblem struct {
	problem m.Problem
	target  string
}

// solveAll runs one solver per sub-problem concurrently and collects the
// results in input order. The first error cancels nothing; remaining solves
// run to completion and the error is returned once all have finished.
func (mt *method) solveAll(subs []subProblem) ([]m.SolverResults, error) {
	results := make([]m.SolverResults, len(subs))

	var group errgroup.Group

	for i, sub := range subs {
		group.Go(func() error {
			solver, err := mt.factory.CreateSolver(sub.problem, mt.options)
			if err != nil {
				return fmt.Errorf("creating a solver for %q: %w", sub.target, err)
			}

			result, err := solver.Solve(sub.target)
			if err != nil {
				return fmt.Errorf("solving %q: %w", sub.target, err)
			}

			results[i] = result

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
