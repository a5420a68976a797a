// Package mathutil provides the blending functions shared by every
// second-order/quartic algebraic-hyperbolic (SOQAH) arc and patch.
package mathutil

import (
	"errors"
	"fmt"
	"math"
)

// Common errors returned by the kernel and by the evaluators built on it.
var (
	// ErrInvalidAlpha indicates a shape parameter that is not a positive finite number.
	ErrInvalidAlpha = errors.New("invalid shape parameter")

	// ErrOutOfDomain indicates a parameter value outside [0, α].
	ErrOutOfDomain = errors.New("parameter outside definition domain")

	// ErrUnsupportedOrder indicates a derivative order the evaluator does not define.
	ErrUnsupportedOrder = errors.New("unsupported derivative order")
)

// Kernel evaluates the four SOQAH blending functions B0..B3 over [0, α]
// together with their first and second derivatives.
//
// Only B2 and B3 are evaluated directly, from closed forms or, below
// α = 1, from their Taylor series. B0 and B1 are their mirror images:
//
//	B0(u) = B3(α−u)    B0'(u) = −B3'(α−u)    B0''(u) = B3''(α−u)
//	B1(u) = B2(α−u)    B1'(u) = −B2'(α−u)    B1''(u) = B2''(α−u)
//
// The rational constants C2, C3 and C4 depend on α only and are cached.
// A Kernel is not safe for concurrent use with SetAlpha.
type Kernel struct {
	alpha float64

	c2, c3, c4 float64

	// α², sinh(α) and cosh(α), hoisted out of every B2 evaluation
	a2, sha, cha float64

	// series selects the small-α bodies; apow holds the powers of α
	series bool
	apow   powers
}

// NewKernel creates a kernel for the given shape parameter.
func NewKernel(alpha float64) (*Kernel, error) {
	k := &Kernel{}
	if err := k.SetAlpha(alpha); err != nil {
		return nil, err
	}
	return k, nil
}

// Alpha returns the shape parameter.
func (k *Kernel) Alpha() float64 {
	return k.alpha
}

// SetAlpha changes the shape parameter and recomputes the cached constants.
// On failure the previous value is retained.
func (k *Kernel) SetAlpha(alpha float64) error {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return fmt.Errorf("%w: α=%g must be positive and finite", ErrInvalidAlpha, alpha)
	}

	c2, c3, c4, err := kernelConstants(alpha)
	if err != nil {
		return err
	}

	k.alpha = alpha
	k.c2, k.c3, k.c4 = c2, c3, c4
	k.a2 = alpha * alpha
	k.sha = math.Sinh(alpha)
	k.cha = math.Cosh(alpha)
	k.series = alpha < seriesAlphaThreshold
	if k.series {
		k.apow = powersOf(alpha)
	}
	return nil
}

// Constants returns the cached rational constants C2, C3 and C4.
func (k *Kernel) Constants() (c2, c3, c4 float64) {
	return k.c2, k.c3, k.c4
}

// Count returns the number of blending functions.
func (k *Kernel) Count() int {
	return KernelCount
}

// MaxOrder returns the highest supported derivative order.
func (k *Kernel) MaxOrder() int {
	return KernelMaxOrder
}

// Interval returns the definition domain [0, α].
func (k *Kernel) Interval() (float64, float64) {
	return 0, k.alpha
}

// Contains reports whether u lies in [0, α].
func (k *Kernel) Contains(u float64) bool {
	return u >= 0 && u <= k.alpha
}

// Value returns the derivative of the given order of blending function
// index at u. The second result is false when order, index or u is out of
// range; the first result is then zero.
func (k *Kernel) Value(order, index int, u float64) (float64, bool) {
	if order < 0 || order > KernelMaxOrder || index < 0 || index >= KernelCount || !k.Contains(u) {
		return 0, false
	}

	switch index {
	case 0:
		return mirrorSign[order] * k.b3(order, k.alpha-u), true
	case 1:
		return mirrorSign[order] * k.b2(order, k.alpha-u), true
	case 2:
		return k.b2(order, u), true
	default:
		return k.b3(order, u), true
	}
}

// Eval writes the derivatives of the given order of all four blending
// functions at u into dst, which must hold at least KernelCount values.
func (k *Kernel) Eval(order int, u float64, dst []float64) error {
	if order < 0 || order > KernelMaxOrder {
		return fmt.Errorf("%w: order %d (max %d)", ErrUnsupportedOrder, order, KernelMaxOrder)
	}
	if !k.Contains(u) {
		return fmt.Errorf("%w: u=%g not in [0, %g]", ErrOutOfDomain, u, k.alpha)
	}
	if len(dst) < KernelCount {
		return fmt.Errorf("destination holds %d values, need %d", len(dst), KernelCount)
	}

	mirrored := k.alpha - u
	sign := mirrorSign[order]
	dst[0] = sign * k.b3(order, mirrored)
	dst[1] = sign * k.b2(order, mirrored)
	dst[2] = k.b2(order, u)
	dst[3] = k.b3(order, u)
	return nil
}

// b3 evaluates B3 and its derivatives: C4·(2cosh u − u² − 2).
func (k *Kernel) b3(order int, u float64) float64 {
	if k.series {
		return k.c4 * b3Series.eval(order, u, &k.apow)
	}
	switch order {
	case 0:
		return k.c4 * (2*math.Cosh(u) - u*u - 2)
	case 1:
		return k.c4 * (2*math.Sinh(u) - 2*u)
	default:
		return k.c4 * (2*math.Cosh(u) - 2)
	}
}

// b2 evaluates B2 and its derivatives as ½·h + k, where h carries C2 and
// k carries C3.
func (k *Kernel) b2(order int, u float64) float64 {
	if k.series {
		return 0.5*k.c2*hSeries.eval(order, u, &k.apow) + k.c3*gSeries.eval(order, u, &k.apow)
	}

	a := k.alpha
	a2, sha, cha := k.a2, k.sha, k.cha
	shu, chu := math.Sinh(u), math.Cosh(u)
	shr, chr := math.Sinh(a-u), math.Cosh(a-u)

	var h, g float64
	switch order {
	case 0:
		u2 := u * u
		h = a2*chu + 2*u2*cha + a2*chr + 2*u*a - a2 - a2*cha - 2*a*shu -
			2*a*shr + 2*a*sha - 2*u2 + u*a2*sha - u2*a*sha - 2*u*a*cha
		g = 2*(a-u) + 2*shr + 2*(shu-sha) + a2*(shu-u) + u2*(a-sha) +
			2*(u*cha-a*chu)
	case 1:
		h = a2*shu + a2*sha - a2*shr + 2*a + 2*a*chr - 2*a*u*sha -
			2*a*chu - 2*a*cha + 4*u*cha - 4*u
		g = -2 - 2*chr + 2*chu + a2*(chu-1) + 2*u*(a-sha) + 2*(cha-a*shu)
	default:
		h = a2*chu + a2*chr - 2*a*shu - 2*a*shr - 2*a*sha + 4*cha - 4
		g = 2*shr + 2*shu + a2*shu - 2*a*chu + 2*(a-sha)
	}

	return 0.5*k.c2*h + k.c3*g
}

// kernelConstants computes C2, C3 and C4 for α > 0.
//
//	C4 = 1 / (2cosh α − α² − 2)
//	C2 = (2α·sinh α − 4cosh α + 4) / D²
//	C3 = 2(sinh α − α) / (D·(α² − 2cosh α + 2))
//	D  = 4cosh α + α² + α²·cosh α − 4α·sinh α − 4
func kernelConstants(alpha float64) (c2, c3, c4 float64, err error) {
	var c4Den, d, c2Num, c3Num float64
	if alpha < seriesAlphaThreshold {
		c4Den, d, c2Num, c3Num = seriesParts(alpha)
	} else {
		a2 := alpha * alpha
		sha, cha := math.Sinh(alpha), math.Cosh(alpha)
		c4Den = 2*cha - a2 - 2
		d = 4*cha + a2 + a2*cha - 4*alpha*sha - 4
		c2Num = 2*alpha*sha - 4*cha + 4
		c3Num = 2 * (sha - alpha)
	}

	if c4Den == 0 || d == 0 {
		return 0, 0, 0, fmt.Errorf("%w: α=%g makes the blending constants singular", ErrInvalidAlpha, alpha)
	}

	c4 = 1 / c4Den
	c2 = c2Num / (d * d)
	c3 = c3Num / (d * -c4Den)

	for _, c := range [...]float64{c2, c3, c4} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, 0, 0, fmt.Errorf("%w: α=%g overflows the blending constants", ErrInvalidAlpha, alpha)
		}
	}
	return c2, c3, c4, nil
}

// seriesParts sums the Taylor series of the numerators and denominators of
// the kernel constants. Terms that cancel analytically are never formed.
func seriesParts(alpha float64) (c4Den, d, c2Num, c3Num float64) {
	x := alpha * alpha
	p := x // α^(2m)

	for m := 1; m <= seriesTerms; m++ {
		f2m2 := factorial(2*m - 2)
		f2m1 := f2m2 * float64(2*m-1)
		f2m := f2m1 * float64(2*m)
		f2p1 := f2m * float64(2*m+1)

		if m >= 2 {
			c4Den += 2 * p / f2m
			c2Num += (2/f2m1 - 4/f2m) * p
		}
		if m >= 3 {
			d += (4/f2m + 1/f2m2 - 4/f2m1) * p
		}
		c3Num += 2 * p * alpha / f2p1

		p *= x
	}
	return c4Den, d, c2Num, c3Num
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
