// Package linear implements one-parameter entities whose points are linear
// combinations of control points weighted by a set of blending functions.
package linear

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/simdops"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrDimension indicates a slice whose length does not match the entity.
	ErrDimension = errors.New("mismatched dimensions")

	// ErrInvalidSampleCount indicates an image request with fewer than two samples.
	ErrInvalidSampleCount = errors.New("invalid sample count")

	// ErrSingular indicates an interpolation problem without a unique solution.
	ErrSingular = errors.New("singular collocation matrix")
)

// Basis is a set of blending functions defined over a closed interval.
type Basis interface {
	// Count returns the number of blending functions.
	Count() int
	// MaxOrder returns the highest derivative order Eval accepts.
	MaxOrder() int
	// Interval returns the definition domain.
	Interval() (float64, float64)
	// Eval writes the order-th derivatives of every blending function at u
	// into dst.
	Eval(order int, u float64, dst []float64) error
}

// Derivatives holds a point followed by its derivatives: d[0] is the
// position, d[k] the k-th derivative.
type Derivatives []r3.Vec

// Evaluator is anything that yields position and derivatives at a
// parameter value.
type Evaluator interface {
	Interval() (float64, float64)
	Derivatives(maxOrder int, u float64) (Derivatives, error)
}

// LinearCombination is a curve P(u) = Σ Pi·Bi(u).
//
// Control points are kept as separate coordinate planes so each blended
// coordinate is a single dot product with the blending values.
type LinearCombination struct {
	basis      Basis
	xs, ys, zs []float64
	ops        *simdops.Ops
}

// New creates a combination over basis with all control points at the origin.
func New(basis Basis) *LinearCombination {
	n := basis.Count()
	return &LinearCombination{
		basis: basis,
		xs:    make([]float64, n),
		ys:    make([]float64, n),
		zs:    make([]float64, n),
		ops:   simdops.Float64Ops(),
	}
}

// Basis returns the blending functions in use.
func (lc *LinearCombination) Basis() Basis {
	return lc.basis
}

// SetBasis replaces the blending functions. The new basis must have the same
// number of functions.
func (lc *LinearCombination) SetBasis(basis Basis) error {
	if basis.Count() != len(lc.xs) {
		return fmt.Errorf("%w: basis has %d functions, entity has %d control points",
			ErrDimension, basis.Count(), len(lc.xs))
	}
	lc.basis = basis
	return nil
}

// Len returns the number of control points.
func (lc *LinearCombination) Len() int {
	return len(lc.xs)
}

// Interval returns the parameter domain of the underlying basis.
func (lc *LinearCombination) Interval() (float64, float64) {
	return lc.basis.Interval()
}

// Point returns control point i. It panics if i is out of range.
func (lc *LinearCombination) Point(i int) r3.Vec {
	return r3.Vec{X: lc.xs[i], Y: lc.ys[i], Z: lc.zs[i]}
}

// SetPoint assigns control point i. It panics if i is out of range.
func (lc *LinearCombination) SetPoint(i int, p r3.Vec) {
	lc.xs[i], lc.ys[i], lc.zs[i] = p.X, p.Y, p.Z
}

// Points returns a copy of all control points.
func (lc *LinearCombination) Points() []r3.Vec {
	out := make([]r3.Vec, len(lc.xs))
	for i := range out {
		out[i] = lc.Point(i)
	}
	return out
}

// SetPoints assigns all control points at once.
func (lc *LinearCombination) SetPoints(points []r3.Vec) error {
	if len(points) != len(lc.xs) {
		return fmt.Errorf("%w: got %d points, need %d", ErrDimension, len(points), len(lc.xs))
	}
	for i, p := range points {
		lc.SetPoint(i, p)
	}
	return nil
}

// Clone returns a deep copy of the control points sharing the same basis.
func (lc *LinearCombination) Clone() *LinearCombination {
	c := New(lc.basis)
	copy(c.xs, lc.xs)
	copy(c.ys, lc.ys)
	copy(c.zs, lc.zs)
	return c
}

// BlendingValues returns the zeroth-order blending values at u.
func (lc *LinearCombination) BlendingValues(u float64) ([]float64, error) {
	values := make([]float64, lc.basis.Count())
	if err := lc.basis.Eval(0, u, values); err != nil {
		return nil, err
	}
	return values, nil
}

// Derivatives evaluates the position and derivatives up to maxOrder at u.
func (lc *LinearCombination) Derivatives(maxOrder int, u float64) (Derivatives, error) {
	if maxOrder < 0 || maxOrder > lc.basis.MaxOrder() {
		return nil, fmt.Errorf("%w: order %d (max %d)", mathutil.ErrUnsupportedOrder, maxOrder, lc.basis.MaxOrder())
	}

	weights := make([]float64, lc.basis.Count())
	d := make(Derivatives, maxOrder+1)
	for order := range d {
		if err := lc.basis.Eval(order, u, weights); err != nil {
			return nil, err
		}
		x, y, z := lc.ops.Combine(lc.xs, lc.ys, lc.zs, weights)
		d[order] = r3.Vec{X: x, Y: y, Z: z}
	}
	return d, nil
}

// GenerateImage samples the curve; see GenerateImage.
func (lc *LinearCombination) GenerateImage(maxOrder, samples int) (*Image, error) {
	return GenerateImage(lc, maxOrder, samples)
}
