package mathutil

// Blending kernel shape
const (
	// KernelCount is the number of blending functions per parametric direction.
	KernelCount = 4

	// KernelMaxOrder is the highest derivative order the kernel defines.
	KernelMaxOrder = 2

	// DefaultAlpha is the shape parameter used when none is given.
	DefaultAlpha = 1.0
)

// Small-α handling.
//
// The closed forms of C2, C3 and C4 divide by expressions that vanish like
// α⁴ and α⁶ at the origin, and the bodies of B2 and B3 cancel down to
// terms of degree 4 to 8. Below seriesAlphaThreshold the constants and the
// bodies are summed from their Taylor series instead (see series.go).
const (
	seriesAlphaThreshold = 1.0
	seriesTerms          = 12 // α^(2m) terms of the constants
	seriesDegree         = 32 // highest total degree of the body series
)

// Mirror symmetry signs per derivative order: B(α−u) flips the sign of odd
// derivatives only.
var mirrorSign = [KernelMaxOrder + 1]float64{1, -1, 1}
