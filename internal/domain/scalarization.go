package domain

import (
	"fmt"

	m "github.com/mouse-blink/pareto/internal/model"
)

// Defaults for the achievement-style scalarizations: delta shifts the ideal
// to a strictly better utopian point, rho weighs the augmentation term that
// guarantees proper Pareto optimality.
const (
	defaultDelta = 1e-6
	defaultRho   = 1e-6
)

// ScalarizationOptions tune the achievement-style builders.
type ScalarizationOptions struct {
	// Delta is subtracted from the corrected ideal to form the utopian
	// point.
	Delta float64
	// Rho weighs the augmentation term.
	Rho float64
	// ReferenceInAug folds the direction-corrected reference point into the
	// augmentation term numerators. The corrected reference value is used
	// identically in the max term and the augmentation term.
	ReferenceInAug bool
}

// ScalarizationOption mutates ScalarizationOptions.
type ScalarizationOption func(*ScalarizationOptions)

// WithDelta overrides the utopian offset.
func WithDelta(delta float64) ScalarizationOption {
	return func(o *ScalarizationOptions) { o.Delta = delta }
}

// WithRho overrides the augmentation weight.
func WithRho(rho float64) ScalarizationOption {
	return func(o *ScalarizationOptions) { o.Rho = rho }
}

// WithReferenceInAug includes the reference point in the augmentation term.
func WithReferenceInAug() ScalarizationOption {
	return func(o *ScalarizationOptions) { o.ReferenceInAug = true }
}

func newScalarizationOptions(opts []ScalarizationOption) ScalarizationOptions {
	options := ScalarizationOptions{Delta: defaultDelta, Rho: defaultRho}

	for _, opt := range opts {
		opt(&options)
	}

	return options
}

// correctedIdealNadir returns the ideal and nadir points in minimization
// space: values of maximized objectives are negated. Fails when any value is
// undefined.
func correctedIdealNadir(problem m.Problem) (map[string]float64, map[string]float64, error) {
	ideal := make(map[string]float64, len(problem.Objectives))
	nadir := make(map[string]float64, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		if obj.Ideal == nil || obj.Nadir == nil {
			return nil, nil, fmt.Errorf("%w: objective %q has an undefined ideal or nadir value", m.ErrScalarization, obj.Symbol)
		}

		ideal[obj.Symbol] = correctDirection(obj, *obj.Ideal)
		nadir[obj.Symbol] = correctDirection(obj, *obj.Nadir)
	}

	return ideal, nadir, nil
}

// correctedPoint returns an objective dict in minimization space. Fails when
// the point is missing an entry for any objective.
func correctedPoint(problem m.Problem, point map[string]float64, kind string) (map[string]float64, error) {
	out := make(map[string]float64, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		value, ok := point[obj.Symbol]
		if !ok {
			return nil, fmt.Errorf("%w: the %s is missing an entry for objective %q", m.ErrScalarization, kind, obj.Symbol)
		}

		out[obj.Symbol] = correctDirection(obj, value)
	}

	return out, nil
}

func correctDirection(obj m.Objective, value float64) float64 {
	if obj.Maximize {
		return -value
	}

	return value
}

// minSym is shorthand for the objective's minimization synonym node.
func minSym(obj m.Objective) *m.Expr {
	return m.Sym(m.MinSymbol(obj.Symbol))
}

// overDen divides an expression by a literal denominator.
func overDen(num *m.Expr, den float64) *m.Expr {
	return m.MustCall(m.OpDivide, num, m.Lit(den))
}

// shifted subtracts a literal from the objective's minimization synonym.
func shifted(obj m.Objective, value float64) *m.Expr {
	return m.MustCall(m.OpSubtract, minSym(obj), m.Lit(value))
}

// assembleASF combines a max term and augmentation operands into the common
// achievement-scalarization shape `Max(...) + rho * (aug_1 + ... + aug_n)`.
func assembleASF(maxOperands, augOperands []*m.Expr, rho float64) *m.Expr {
	maxTerm := m.MustCall(m.OpMax, maxOperands...)

	aug := augOperands[0]
	if len(augOperands) > 1 {
		aug = m.MustCall(m.OpAdd, augOperands...)
	}

	return m.MustCall(m.OpAdd, maxTerm, m.MustCall(m.OpMultiply, m.Lit(rho), aug))
}

// AddASF creates the achievement scalarizing function for a reference point
// and returns a copy of the problem with it added, plus the target symbol.
// The reference point is projected onto the Pareto optimal front when the
// scalarization is minimized.
func AddASF(problem m.Problem, symbol string, referencePoint map[string]float64, opts ...ScalarizationOption) (m.Problem, string, error) {
	options := newScalarizationOptions(opts)

	reference, err := correctedPoint(problem, referencePoint, "reference point")
	if err != nil {
		return m.Problem{}, "", err
	}

	ideal, nadir, err := correctedIdealNadir(problem)
	if err != nil {
		return m.Problem{}, "", err
	}

	maxOperands := make([]*m.Expr, 0, len(problem.Objectives))
	augOperands := make([]*m.Expr, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		den := nadir[obj.Symbol] - (ideal[obj.Symbol] - options.Delta)

		maxOperands = append(maxOperands, overDen(shifted(obj, reference[obj.Symbol]), den))

		if options.ReferenceInAug {
			augOperands = append(augOperands, overDen(shifted(obj, reference[obj.Symbol]), den))
		} else {
			augOperands = append(augOperands, overDen(minSym(obj), den))
		}
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   "Achievement scalarizing function",
		Symbol: symbol,
		Func:   assembleASF(maxOperands, augOperands, options.Rho),
	})
}

// AddASFGeneric creates the generic achievement scalarizing function, which
// normalizes by externally supplied per-objective weights instead of the
// nadir-ideal range. The weights must be positive.
func AddASFGeneric(problem m.Problem, symbol string, referencePoint, weights map[string]float64, opts ...ScalarizationOption) (m.Problem, string, error) {
	options := newScalarizationOptions(opts)

	reference, err := correctedPoint(problem, referencePoint, "reference point")
	if err != nil {
		return m.Problem{}, "", err
	}

	if _, _, err := correctedIdealNadir(problem); err != nil {
		return m.Problem{}, "", err
	}

	maxOperands := make([]*m.Expr, 0, len(problem.Objectives))
	augOperands := make([]*m.Expr, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		weight, ok := weights[obj.Symbol]
		if !ok {
			return m.Problem{}, "", fmt.Errorf("%w: the weight vector is missing an entry for objective %q", m.ErrScalarization, obj.Symbol)
		}

		maxOperands = append(maxOperands, overDen(shifted(obj, reference[obj.Symbol]), weight))

		if options.ReferenceInAug {
			augOperands = append(augOperands, overDen(shifted(obj, reference[obj.Symbol]), weight))
		} else {
			augOperands = append(augOperands, overDen(minSym(obj), weight))
		}
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   "Generic achievement scalarizing function",
		Symbol: symbol,
		Func:   assembleASF(maxOperands, augOperands, options.Rho),
	})
}

// AddWeightedSums creates the weighted sums scalarization. The caller is
// responsible for weights summing to 1; this is not checked. Minimizing a
// weighted sum cannot reach Pareto optimal points on non-convex fronts.
func AddWeightedSums(problem m.Problem, symbol string, weights map[string]float64) (m.Problem, string, error) {
	terms := make([]*m.Expr, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		weight, ok := weights[obj.Symbol]
		if !ok {
			return m.Problem{}, "", fmt.Errorf("%w: the weight vector is missing an entry for objective %q", m.ErrScalarization, obj.Symbol)
		}

		terms = append(terms, m.MustCall(m.OpMultiply, m.Lit(weight), minSym(obj)))
	}

	sum := terms[0]
	if len(terms) > 1 {
		sum = m.MustCall(m.OpAdd, terms...)
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   "Weighted sums scalarization",
		Symbol: symbol,
		Func:   sum,
	})
}

// AddObjectiveAsScalarization targets a single existing objective with
// weight one.
func AddObjectiveAsScalarization(problem m.Problem, symbol, objectiveSymbol string) (m.Problem, string, error) {
	obj, ok := problem.Objective(objectiveSymbol)
	if !ok {
		return m.Problem{}, "", fmt.Errorf("%w: objective %q is not defined in the problem", m.ErrScalarization, objectiveSymbol)
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   fmt.Sprintf("Objective %s", objectiveSymbol),
		Symbol: symbol,
		Func:   m.MustCall(m.OpMultiply, m.Lit(1), minSym(obj)),
	})
}

// AddEpsilonConstraints creates the epsilon-constraint scalarization: one
// objective is optimized while every other objective is bounded by
// `f_min - epsilon <= 0`. The epsilons are given in minimization space.
// Returns the augmented problem, the target symbol, and the symbols of the
// added constraints.
func AddEpsilonConstraints(
	problem m.Problem,
	symbol string,
	constraintSymbols map[string]string,
	objectiveSymbol string,
	epsilons map[string]float64,
) (m.Problem, string, []string, error) {
	out, target, err := AddObjectiveAsScalarization(problem, symbol, objectiveSymbol)
	if err != nil {
		return m.Problem{}, "", nil, err
	}

	var added []string

	for _, obj := range problem.Objectives {
		if obj.Symbol == objectiveSymbol {
			continue
		}

		epsilon, ok := epsilons[obj.Symbol]
		if !ok {
			return m.Problem{}, "", nil, fmt.Errorf("%w: no epsilon given for objective %q", m.ErrScalarization, obj.Symbol)
		}

		conSymbol, ok := constraintSymbols[obj.Symbol]
		if !ok {
			return m.Problem{}, "", nil, fmt.Errorf("%w: no constraint symbol given for objective %q", m.ErrScalarization, obj.Symbol)
		}

		con := m.Constraint{
			Name:   fmt.Sprintf("Epsilon for %s", obj.Symbol),
			Symbol: conSymbol,
			Type:   m.ConstraintLTE,
			Func:   m.MustCall(m.OpAdd, minSym(obj), m.MustCall(m.OpNegate, m.Lit(epsilon))),
		}

		out, err = out.AddConstraints(con)
		if err != nil {
			return m.Problem{}, "", nil, fmt.Errorf("%w: %v", m.ErrScalarization, err)
		}

		added = append(added, conSymbol)
	}

	return out, target, added, nil
}

// AddNimbusSF creates the NIMBUS scalarizing function from per-objective
// classifications and the current objective values. Objectives classified to
// improve contribute to the max term; objectives classified to improve,
// keep, or impair are bounded by constraints so the new solution never
// regresses past the decision-maker's intent.
func AddNimbusSF(
	problem m.Problem,
	symbol string,
	classifications map[string]m.Classification,
	currentObjectives map[string]float64,
	opts ...ScalarizationOption,
) (m.Problem, string, error) {
	options := newScalarizationOptions(opts)

	ideal, nadir, err := correctedIdealNadir(problem)
	if err != nil {
		return m.Problem{}, "", err
	}

	current, err := correctedPoint(problem, currentObjectives, "current point")
	if err != nil {
		return m.Problem{}, "", err
	}

	var (
		maxOperands []*m.Expr
		augOperands []*m.Expr
		constraints []m.Constraint
	)

	for i, obj := range problem.Objectives {
		classification, ok := classifications[obj.Symbol]
		if !ok {
			return m.Problem{}, "", fmt.Errorf("%w: no classification given for objective %q", m.ErrScalarization, obj.Symbol)
		}

		den := nadir[obj.Symbol] - (ideal[obj.Symbol] - options.Delta)
		augOperands = append(augOperands, overDen(minSym(obj), den))

		conSymbol := fmt.Sprintf("%s_con_%d", symbol, i+1)

		switch classification.Kind {
		case m.ClassImprove:
			maxOperands = append(maxOperands, overDen(shifted(obj, ideal[obj.Symbol]), den))

			constraints = append(constraints, boundConstraint(obj, conSymbol, current[obj.Symbol]))
		case m.ClassImproveUntil:
			if classification.Level == nil {
				return m.Problem{}, "", fmt.Errorf("%w: classification %q of objective %q carries no aspiration level",
					m.ErrScalarization, classification.Kind, obj.Symbol)
			}

			aspiration := correctDirection(obj, *classification.Level)
			maxOperands = append(maxOperands, overDen(shifted(obj, aspiration), den))

			constraints = append(constraints, boundConstraint(obj, conSymbol, current[obj.Symbol]))
		case m.ClassKeep:
			constraints = append(constraints, boundConstraint(obj, conSymbol, current[obj.Symbol]))
		case m.ClassImpairUntil:
			if classification.Level == nil {
				return m.Problem{}, "", fmt.Errorf("%w: classification %q of objective %q carries no reservation level",
					m.ErrScalarization, classification.Kind, obj.Symbol)
			}

			reservation := correctDirection(obj, *classification.Level)
			constraints = append(constraints, boundConstraint(obj, conSymbol, reservation))
		case m.ClassFree:
			// unconstrained
		default:
			return m.Problem{}, "", fmt.Errorf("%w: unknown classification %q for objective %q",
				m.ErrScalarization, classification.Kind, obj.Symbol)
		}
	}

	if len(maxOperands) == 0 {
		return m.Problem{}, "", fmt.Errorf("%w: at least one objective must be classified to improve", m.ErrScalarization)
	}

	out, target, err := addScalarization(problem, m.ScalarizationFunction{
		Name:   "NIMBUS scalarizing function",
		Symbol: symbol,
		Func:   assembleASF(maxOperands, augOperands, options.Rho),
	})
	if err != nil {
		return m.Problem{}, "", err
	}

	out, err = out.AddConstraints(constraints...)
	if err != nil {
		return m.Problem{}, "", fmt.Errorf("%w: %v", m.ErrScalarization, err)
	}

	return out, target, nil
}

// boundConstraint builds `f_min - bound <= 0` keeping the objective at least
// as good as the bound, both in minimization space.
func boundConstraint(obj m.Objective, symbol string, bound float64) m.Constraint {
	return m.Constraint{
		Name:   fmt.Sprintf("NIMBUS bound for %s", obj.Symbol),
		Symbol: symbol,
		Type:   m.ConstraintLTE,
		Func:   shifted(obj, bound),
	}
}

// AddStomSF creates the satisficing trade-off method scalarization: the
// achievement skeleton normalized by the distance from the reference point
// to the utopian point. The reference point must differ from the utopian
// point in every component.
func AddStomSF(problem m.Problem, symbol string, referencePoint map[string]float64, opts ...ScalarizationOption) (m.Problem, string, error) {
	options := newScalarizationOptions(opts)

	reference, err := correctedPoint(problem, referencePoint, "reference point")
	if err != nil {
		return m.Problem{}, "", err
	}

	ideal, _, err := correctedIdealNadir(problem)
	if err != nil {
		return m.Problem{}, "", err
	}

	maxOperands := make([]*m.Expr, 0, len(problem.Objectives))
	augOperands := make([]*m.Expr, 0, len(problem.Objectives))

	for _, obj := range problem.Objectives {
		utopian := ideal[obj.Symbol] - options.Delta
		den := reference[obj.Symbol] - utopian

		maxOperands = append(maxOperands, overDen(shifted(obj, utopian), den))
		augOperands = append(augOperands, overDen(minSym(obj), den))
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   "STOM scalarizing function",
		Symbol: symbol,
		Func:   assembleASF(maxOperands, augOperands, options.Rho),
	})
}

// AddGuessSF creates the GUESS scalarization: the achievement skeleton
// normalized by the distance from the nadir to the reference point.
// Objectives whose reference component sits at the nadir are free to change
// and are left out of both terms, which also keeps their degenerate
// denominators out of the function.
func AddGuessSF(problem m.Problem, symbol string, referencePoint map[string]float64, opts ...ScalarizationOption) (m.Problem, string, error) {
	options := newScalarizationOptions(opts)

	reference, err := correctedPoint(problem, referencePoint, "reference point")
	if err != nil {
		return m.Problem{}, "", err
	}

	_, nadir, err := correctedIdealNadir(problem)
	if err != nil {
		return m.Problem{}, "", err
	}

	var (
		maxOperands []*m.Expr
		augOperands []*m.Expr
	)

	for _, obj := range problem.Objectives {
		if approxEqual(reference[obj.Symbol], nadir[obj.Symbol]) {
			continue
		}

		den := nadir[obj.Symbol] - reference[obj.Symbol]

		maxOperands = append(maxOperands, overDen(shifted(obj, nadir[obj.Symbol]), den))
		augOperands = append(augOperands, overDen(minSym(obj), den))
	}

	if len(maxOperands) == 0 {
		return m.Problem{}, "", fmt.Errorf("%w: every reference component sits at the nadir; nothing to optimize", m.ErrScalarization)
	}

	return addScalarization(problem, m.ScalarizationFunction{
		Name:   "GUESS scalarizing function",
		Symbol: symbol,
		Func:   assembleASF(maxOperands, augOperands, options.Rho),
	})
}

func addScalarization(problem m.Problem, sf m.ScalarizationFunction) (m.Problem, string, error) {
	out, err := problem.AddScalarization(sf)
	if err != nil {
		return m.Problem{}, "", fmt.Errorf("%w: %v", m.ErrScalarization, err)
	}

	return out, sf.Symbol, nil
}
