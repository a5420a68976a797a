package simdops

import (
	"fmt"
	"testing"
)

// Weight counts of an arc (4) and a patch (16).
var blendSizes = []int{4, 16}

func planes(n int) (xs, ys, zs, w []float64) {
	xs, ys, zs, w = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range n {
		xs[i] = float64(i)
		ys[i] = float64(i) * 0.5
		zs[i] = -float64(i)
		w[i] = 1 / float64(n)
	}
	return xs, ys, zs, w
}

// BenchmarkCombine_Scalar is the plain loop Combine replaces.
func BenchmarkCombine_Scalar(b *testing.B) {
	for _, n := range blendSizes {
		xs, ys, zs, w := planes(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				var x, y, z float64
				for i, wi := range w {
					x += xs[i] * wi
					y += ys[i] * wi
					z += zs[i] * wi
				}
				_, _, _ = x, y, z
			}
		})
	}
}

// BenchmarkCombine_Sizes measures the SIMD path at the same sizes.
func BenchmarkCombine_Sizes(b *testing.B) {
	ops := Float64Ops()
	for _, n := range blendSizes {
		xs, ys, zs, w := planes(n)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _, _ = ops.Combine(xs, ys, zs, w)
			}
		})
	}
}
