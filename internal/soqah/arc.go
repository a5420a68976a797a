// Package soqah binds the SOQAH blending kernel to concrete entities: arcs
// with four control points and patches with a 4×4 control grid.
//
// Both entities expose their control data by distance from an edge. Depth 0
// is the boundary point (or row/column), depth 1 the interior neighbour
// that fixes the tangent across the edge, and so on up to depth 3 at the
// opposite edge. Joins, merges and continuations are all written in terms
// of this addressing.
package soqah

import (
	"github.com/tphakala/go-cagd/internal/linear"
	"github.com/tphakala/go-cagd/internal/mathutil"
	"gonum.org/v1/gonum/spatial/r3"
)

// Size is the number of control points along each parameter direction.
const Size = mathutil.KernelCount

// Arc is a SOQAH curve over [0, α] with control points P0..P3.
type Arc struct {
	*linear.LinearCombination
	kernel *mathutil.Kernel
}

// NewArc creates an arc with all control points at the origin.
func NewArc(alpha float64) (*Arc, error) {
	k, err := mathutil.NewKernel(alpha)
	if err != nil {
		return nil, err
	}
	return &Arc{LinearCombination: linear.New(k), kernel: k}, nil
}

// Alpha returns the shape parameter.
func (a *Arc) Alpha() float64 {
	return a.kernel.Alpha()
}

// SetAlpha changes the shape parameter and with it the domain [0, α].
// An invalid value is rejected and the previous one kept.
func (a *Arc) SetAlpha(alpha float64) error {
	return a.kernel.SetAlpha(alpha)
}

// Clone returns a deep copy with its own kernel.
func (a *Arc) Clone() *Arc {
	k, err := mathutil.NewKernel(a.Alpha())
	if err != nil {
		// the current α was validated when it was set
		panic(err)
	}
	lc := a.LinearCombination.Clone()
	if err := lc.SetBasis(k); err != nil {
		panic(err)
	}
	return &Arc{LinearCombination: lc, kernel: k}
}

// arcIndex maps a depth from side s to a control point index.
func arcIndex(s Side, depth int) int {
	if s == Left {
		return depth
	}
	return Size - 1 - depth
}

// At returns the control point at the given depth from side s.
func (a *Arc) At(s Side, depth int) r3.Vec {
	return a.Point(arcIndex(s, depth))
}

// SetAt assigns the control point at the given depth from side s.
func (a *Arc) SetAt(s Side, depth int, p r3.Vec) {
	a.SetPoint(arcIndex(s, depth), p)
}

// Edge returns the boundary point of side s and its interior neighbour.
func (a *Arc) Edge(s Side) (boundary, interior r3.Vec) {
	return a.At(s, 0), a.At(s, 1)
}
