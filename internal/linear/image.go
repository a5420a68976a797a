package linear

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Image is a sampled curve: position and derivatives at evenly spaced
// parameter values covering the whole domain, both ends included.
type Image struct {
	MaxOrder int
	Params   []float64
	Samples  []Derivatives
	Bounds   r3.Box
}

// Len returns the number of samples.
func (im *Image) Len() int {
	return len(im.Samples)
}

// Points returns the order-th derivative of every sample. It returns nil if
// order exceeds MaxOrder.
func (im *Image) Points(order int) []r3.Vec {
	if order < 0 || order > im.MaxOrder {
		return nil
	}
	out := make([]r3.Vec, len(im.Samples))
	for i, d := range im.Samples {
		out[i] = d[order]
	}
	return out
}

// GenerateImage samples e at samples parameter values spanning its interval.
func GenerateImage(e Evaluator, maxOrder, samples int) (*Image, error) {
	if samples < 2 {
		return nil, fmt.Errorf("%w: %d (need at least 2)", ErrInvalidSampleCount, samples)
	}

	params := Span(e, samples)
	im := &Image{
		MaxOrder: maxOrder,
		Params:   params,
		Samples:  make([]Derivatives, samples),
	}

	positions := make([]r3.Vec, samples)
	for i, u := range params {
		d, err := e.Derivatives(maxOrder, u)
		if err != nil {
			return nil, fmt.Errorf("sample %d at u=%g: %w", i, u, err)
		}
		im.Samples[i] = d
		positions[i] = d[0]
	}
	im.Bounds = Bounds(positions)
	return im, nil
}

// Span returns n evenly spaced values over the interval of e. The last
// value is the interval end exactly, and no value exceeds it.
func Span(e interface{ Interval() (float64, float64) }, n int) []float64 {
	lo, hi := e.Interval()
	params := floats.Span(make([]float64, n), lo, hi)
	for i := range params {
		params[i] = min(params[i], hi)
	}
	params[n-1] = hi
	return params
}

// Bounds returns the axis-aligned box enclosing points. Degenerate extents
// are kept as they are.
func Bounds(points []r3.Vec) r3.Box {
	if len(points) == 0 {
		return r3.Box{}
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range points {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return r3.Box{Min: lo, Max: hi}
}
