// Package simdops provides SIMD operations on float64 coordinate planes.
//
// Evaluators keep control points as separate x, y and z coordinate planes so
// that every blended position is three dot products against the same weight
// vector. Those dot products are routed through github.com/tphakala/simd.
package simdops

import "github.com/tphakala/simd/f64"

// Ops provides SIMD-accelerated float64 operations.
type Ops struct {
	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []float64) float64

	// Sum returns the sum of all elements.
	Sum func(a []float64) float64
}

var ops64 = Ops{
	DotProductUnsafe: f64.DotProductUnsafe,
	Sum:              f64.Sum,
}

// Float64Ops returns the shared float64 SIMD operations.
func Float64Ops() *Ops {
	return &ops64
}

// Combine blends three coordinate planes with the same weights and returns
// the resulting x, y and z components. The planes must be at least as long
// as w.
func (o *Ops) Combine(xs, ys, zs, w []float64) (x, y, z float64) {
	n := len(w)
	if n == 0 {
		return 0, 0, 0
	}
	return o.DotProductUnsafe(xs[:n], w), o.DotProductUnsafe(ys[:n], w), o.DotProductUnsafe(zs[:n], w)
}
