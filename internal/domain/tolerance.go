package domain

import "gonum.org/v1/gonum/floats/scalar"

// Tolerances for the approximate comparisons used when classifying
// objectives and deduplicating objective vectors.
const (
	defaultAbsTol = 1e-8
	defaultRelTol = 1e-5
)

// approxEqual reports whether two values are equal within the default
// absolute or relative tolerance.
func approxEqual(a, b float64) bool {
	return scalar.EqualWithinAbsOrRel(a, b, defaultAbsTol, defaultRelTol)
}

// approxEqualVec reports whether two equal-length vectors are componentwise
// approximately equal.
func approxEqualVec(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !approxEqual(a[i], b[i]) {
			return false
		}
	}

	return true
}
