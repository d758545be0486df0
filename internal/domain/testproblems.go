package domain

import (
	"fmt"
	"strings"

	m "github.com/mouse-blink/pareto/internal/model"
)

// Well-known benchmark problems, used across the test suite and available to
// the command line for experimentation.

// BinhAndKorn is the two-objective constrained problem of Binh and Korn
// (1997). Either objective can be flipped to maximization, which negates its
// expression and its ideal and nadir values.
func BinhAndKorn(maximizeFirst, maximizeSecond bool) m.Problem {
	sign := func(maximize bool) string {
		if maximize {
			return "-"
		}

		return ""
	}

	flip := func(maximize bool, value float64) float64 {
		if maximize {
			return -value
		}

		return value
	}

	return m.Problem{
		Name:        "The Binh and Korn function",
		Description: "The two-objective problem used in the paper by Binh and Korn.",
		Constants: []m.Constant{
			{Name: "Four", Symbol: "c_1", Value: 4},
			{Name: "Five", Symbol: "c_2", Value: 5},
		},
		Variables: []m.Variable{
			{Name: "The first variable", Symbol: "x_1", Type: m.VariableReal, LowerBound: 0, UpperBound: 5, InitialValue: m.Float64Ptr(2.5)},
			{Name: "The second variable", Symbol: "x_2", Type: m.VariableReal, LowerBound: 0, UpperBound: 3, InitialValue: m.Float64Ptr(1.5)},
		},
		Objectives: []m.Objective{
			{
				Name:                  "Objective 1",
				Symbol:                "f_1",
				Func:                  m.MustParse(sign(maximizeFirst) + "(c_1 * x_1**2 + c_1 * x_2**2)"),
				Maximize:              maximizeFirst,
				Ideal:                 m.Float64Ptr(0),
				Nadir:                 m.Float64Ptr(flip(maximizeFirst, 140)),
				IsConvex:              true,
				IsTwiceDifferentiable: true,
			},
			{
				Name:                  "Objective 2",
				Symbol:                "f_2",
				Func:                  m.MustParse(sign(maximizeSecond) + "((x_1 - c_2)**2 + (x_2 - c_2)**2)"),
				Maximize:              maximizeSecond,
				Ideal:                 m.Float64Ptr(0),
				Nadir:                 m.Float64Ptr(flip(maximizeSecond, 50)),
				IsConvex:              true,
				IsTwiceDifferentiable: true,
			},
		},
		Constraints: []m.Constraint{
			{
				Name:     "Constraint 1",
				Symbol:   "g_1",
				Type:     m.ConstraintLTE,
				Func:     m.MustParse("(x_1 - c_2)**2 + x_2**2 - 25"),
				IsConvex: true,
			},
			{
				Name:   "Constraint 2",
				Symbol: "g_2",
				Type:   m.ConstraintLTE,
				Func:   m.MustParse("-((x_1 - 8)**2) - (x_2 + 3)**2 + 7.7"),
			},
		},
	}
}

// RiverPollution is the problem of Narula and Weistroffer (1989): clean a
// river while maximizing the return of fishery and city investments. The
// five-objective variant adds the nondifferentiable BOD deviation objective
// used in the original NIMBUS paper.
func RiverPollution(fiveObjectives bool) m.Problem {
	objectives := []m.Objective{
		{
			Name:                  "DO city",
			Symbol:                "f_1",
			Func:                  m.MustParse("-4.07 - 2.27 * x_1"),
			Ideal:                 m.Float64Ptr(-6.34),
			Nadir:                 m.Float64Ptr(-4.75),
			IsLinear:              true,
			IsConvex:              true,
			IsTwiceDifferentiable: true,
		},
		{
			Name:                  "DO municipality",
			Symbol:                "f_2",
			Func:                  m.MustParse("-2.60 - 0.03 * x_1 - 0.02 * x_2 - 0.01 / (1.39 - x_1**2) - 0.30 / (1.39 - x_2**2)"),
			Ideal:                 m.Float64Ptr(-3.44),
			Nadir:                 m.Float64Ptr(-2.85),
			IsTwiceDifferentiable: true,
		},
		{
			Name:                  "ROI fishery",
			Symbol:                "f_3",
			Func:                  m.MustParse("8.21 - 0.71 / (1.09 - x_1**2)"),
			Maximize:              true,
			Ideal:                 m.Float64Ptr(7.5),
			Nadir:                 m.Float64Ptr(0.32),
			IsConvex:              true,
			IsTwiceDifferentiable: true,
		},
		{
			Name:                  "ROI city",
			Symbol:                "f_4",
			Func:                  m.MustParse("0.96 - 0.96 / (1.09 - x_2**2)"),
			Maximize:              true,
			Ideal:                 m.Float64Ptr(0),
			Nadir:                 m.Float64Ptr(-9.70),
			IsConvex:              true,
			IsTwiceDifferentiable: true,
		},
	}

	if fiveObjectives {
		objectives = append(objectives, m.Objective{
			Name:   "BOD deviation",
			Symbol: "f_5",
			Func:   m.MustParse("Max(Abs(x_1 - 0.65), Abs(x_2 - 0.65))"),
			Ideal:  m.Float64Ptr(0),
			Nadir:  m.Float64Ptr(0.35),
		})
	}

	return m.Problem{
		Name:        "The river pollution problem",
		Description: "The river pollution problem to maximize return of investments and minimize pollution.",
		Variables: []m.Variable{
			{Name: "BOD", Symbol: "x_1", Type: m.VariableReal, LowerBound: 0.3, UpperBound: 1.0, InitialValue: m.Float64Ptr(0.65)},
			{Name: "DO", Symbol: "x_2", Type: m.VariableReal, LowerBound: 0.3, UpperBound: 1.0, InitialValue: m.Float64Ptr(0.65)},
		},
		Objectives: objectives,
	}
}

// ZDT1 is the first problem of the Zitzler, Deb, and Thiele suite with a
// configurable number of decision variables. Its Pareto optimal front is
// f_2 = 1 - sqrt(f_1).
func ZDT1(numberOfVariables int) m.Problem {
	n := numberOfVariables

	variables := make([]m.Variable, n)
	for i := range variables {
		symbol := fmt.Sprintf("x_%d", i+1)
		variables[i] = m.Variable{
			Name:         symbol,
			Symbol:       symbol,
			Type:         m.VariableReal,
			LowerBound:   0,
			UpperBound:   1,
			InitialValue: m.Float64Ptr(0.5),
		}
	}

	terms := make([]string, 0, n-1)
	for i := 2; i <= n; i++ {
		terms = append(terms, fmt.Sprintf("x_%d", i))
	}

	gExpr := fmt.Sprintf("1 + (9 / (%d - 1)) * (%s)", n, strings.Join(terms, " + "))

	return m.Problem{
		Name:        "zdt1",
		Description: "The ZDT1 test problem.",
		Variables:   variables,
		Objectives: []m.Objective{
			{
				Name:     "f_1",
				Symbol:   "f_1",
				Func:     m.MustParse("1 * x_1"),
				Ideal:    m.Float64Ptr(0),
				Nadir:    m.Float64Ptr(1),
				IsLinear: true,
			},
			{
				Name:   "f_2",
				Symbol: "f_2",
				Func:   m.MustParse("g * h"),
				Ideal:  m.Float64Ptr(0),
				Nadir:  m.Float64Ptr(1),
			},
		},
		ExtraFuncs: []m.ExtraFunction{
			{Name: "g", Symbol: "g", Func: m.MustParse(gExpr)},
			{Name: "h", Symbol: "h", Func: m.MustParse("1 - Sqrt((1 * x_1) / (" + gExpr + "))")},
		},
	}
}

// SimpleDataProblem has only data-driven objectives backed by a discrete
// representation, plus an equality constraint and a constant. Useful for
// exercising the nearest-neighbor lookup path.
func SimpleDataProblem() m.Problem {
	const (
		numVariables = 5
		dataLen      = 10
	)

	variables := make([]m.Variable, numVariables)
	variableValues := make(map[string][]float64, numVariables)

	for i := 1; i <= numVariables; i++ {
		symbol := fmt.Sprintf("y_%d", i)
		variables[i-1] = m.Variable{
			Name:         symbol,
			Symbol:       symbol,
			Type:         m.VariableReal,
			LowerBound:   -50,
			UpperBound:   50,
			InitialValue: m.Float64Ptr(0.1),
		}

		column := make([]float64, dataLen)
		for j := range column {
			column[j] = float64(i)*0.5 + float64(j)
		}

		variableValues[symbol] = column
	}

	g1 := make([]float64, dataLen)
	g2 := make([]float64, dataLen)
	g3 := make([]float64, dataLen)

	for j := 0; j < dataLen; j++ {
		sum := 0.0
		best := variableValues["y_1"][j]

		for i := 1; i <= numVariables; i++ {
			value := variableValues[fmt.Sprintf("y_%d", i)][j]
			sum += value

			if value > best {
				best = value
			}
		}

		g1[j] = sum * sum
		g2[j] = best
		g3[j] = -sum
	}

	return m.Problem{
		Name:        "Simple data problem",
		Description: "Simple problem with all objectives being data-based. Has constraints and a constant also.",
		Constants:   []m.Constant{{Name: "c", Symbol: "c", Value: 1000}},
		Variables:   variables,
		Objectives: []m.Objective{
			{Name: "g_1", Symbol: "g_1", Maximize: true, Ideal: m.Float64Ptr(3000), Nadir: m.Float64Ptr(0)},
			{Name: "g_2", Symbol: "g_2", Ideal: m.Float64Ptr(0), Nadir: m.Float64Ptr(15)},
			{Name: "g_3", Symbol: "g_3", Ideal: m.Float64Ptr(-60), Nadir: m.Float64Ptr(13)},
		},
		Constraints: []m.Constraint{
			{Name: "cons 1", Symbol: "c_1", Type: m.ConstraintEQ, Func: m.MustParse("y_1 + y_2 - c")},
		},
		DiscreteRepresentation: &m.DiscreteRepresentation{
			VariableValues: variableValues,
			ObjectiveValues: map[string][]float64{
				"g_1": g1,
				"g_2": g2,
				"g_3": g3,
			},
		},
	}
}
