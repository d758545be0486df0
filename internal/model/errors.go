package model

import "errors"

// Error taxonomy shared across the module. Callers match these with
// errors.Is; every error returned by the parser, evaluator, scalarization
// builders, and method orchestration wraps one of them.
var (
	// ErrParse marks grammatically invalid expression text or an unknown
	// operator/function name.
	ErrParse = errors.New("parse error")

	// ErrEvaluation marks a failed batch evaluation: a missing variable, a
	// malformed assignment, or a reference to an undefined symbol. The whole
	// batch aborts; no partial table is produced.
	ErrEvaluation = errors.New("evaluation error")

	// ErrScalarization marks an invalid preference for a scalarization
	// builder: an incomplete reference point or weight vector, or undefined
	// ideal/nadir values. Raised before any solver call.
	ErrScalarization = errors.New("scalarization error")

	// ErrMethod marks a violated precondition of the interactive method:
	// missing ideal/nadir, an out-of-range number of desired solutions, or a
	// session already closed by a chosen solution.
	ErrMethod = errors.New("method error")

	// ErrProblem marks an invalid problem definition: duplicate symbols,
	// dangling references, or ideal/nadir inconsistent with the objective's
	// direction.
	ErrProblem = errors.New("problem error")
)
