// Package testutil provides reusable test helper functions for geometry tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance    = 1e-10
	PartitionTolerance  = 1e-9
	DerivativeTolerance = 1e-5
	FiniteDiffStep      = 1e-6
)

// AssertVecInDelta verifies that two vectors agree component-wise within tolerance.
func AssertVecInDelta(t *testing.T, expected, actual r3.Vec, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	ok := assert.InDelta(t, expected.X, actual.X, tolerance, msgAndArgs...)
	ok = assert.InDelta(t, expected.Y, actual.Y, tolerance, msgAndArgs...) && ok
	ok = assert.InDelta(t, expected.Z, actual.Z, tolerance, msgAndArgs...) && ok
	return ok
}

// AssertVecEqual verifies that two vectors are bit-for-bit equal.
func AssertVecEqual(t *testing.T, expected, actual r3.Vec, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Equal(t, expected, actual, msgAndArgs...)
}

// AssertVecFinite verifies that no component of the vector is NaN or Inf.
func AssertVecFinite(t *testing.T, v r3.Vec, msgAndArgs ...any) bool {
	t.Helper()
	return AssertNoNaNOrInf(t, []float64{v.X, v.Y, v.Z}, msgAndArgs...)
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertSum verifies that the elements of s sum to expected.
func AssertSum(t *testing.T, s []float64, expected, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	var sum float64
	for _, v := range s {
		sum += v
	}
	return assert.InDelta(t, expected, sum, tolerance, msgAndArgs...)
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
		relError, tolerance, expected, actual)
}

// Grid returns n evenly spaced values covering [lo, hi], both ends included.
func Grid(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
