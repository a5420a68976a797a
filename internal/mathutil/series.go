package mathutil

import "math/big"

// Small-α bodies.
//
// B2 = ½·C2·h + C3·g and B3 = C4·b where h, g and b are sums of
// polynomial-times-hyperbolic terms in u and α. Below seriesAlphaThreshold
// those terms cancel down to their degree 8, 7 and 4 parts, which the
// closed forms cannot resolve. There the bodies are summed as
//
//	Σ c[d][j]·u^j·α^(d−j)
//
// over their Taylor coefficients, which are built once from exact rationals
// so that every analytically cancelling coefficient is exactly zero.

// hyperFn selects the factor f of a hyperTerm.
type hyperFn int

const (
	fnOne hyperFn = iota
	fnCosh
	fnSinh
)

// hyperArg selects the argument x of f.
type hyperArg int

const (
	argU     hyperArg = iota // u
	argAlpha                 // α
	argRest                  // α − u
)

// hyperTerm is coef·u^p·α^q·f(x).
type hyperTerm struct {
	coef int64
	p, q int
	fn   hyperFn
	arg  hyperArg
}

// Order-0 bodies, term by term as in b2 and b3.
var (
	hTerms = []hyperTerm{
		{1, 0, 2, fnCosh, argU},
		{2, 2, 0, fnCosh, argAlpha},
		{1, 0, 2, fnCosh, argRest},
		{2, 1, 1, fnOne, 0},
		{-1, 0, 2, fnOne, 0},
		{-1, 0, 2, fnCosh, argAlpha},
		{-2, 0, 1, fnSinh, argU},
		{-2, 0, 1, fnSinh, argRest},
		{2, 0, 1, fnSinh, argAlpha},
		{-2, 2, 0, fnOne, 0},
		{1, 1, 2, fnSinh, argAlpha},
		{-1, 2, 1, fnSinh, argAlpha},
		{-2, 1, 1, fnCosh, argAlpha},
	}

	gTerms = []hyperTerm{
		{2, 0, 1, fnOne, 0},
		{-2, 1, 0, fnOne, 0},
		{2, 0, 0, fnSinh, argRest},
		{2, 0, 0, fnSinh, argU},
		{-2, 0, 0, fnSinh, argAlpha},
		{1, 0, 2, fnSinh, argU},
		{-1, 1, 2, fnOne, 0},
		{1, 2, 1, fnOne, 0},
		{-1, 2, 0, fnSinh, argAlpha},
		{2, 1, 0, fnCosh, argAlpha},
		{-2, 0, 1, fnCosh, argU},
	}

	b3Terms = []hyperTerm{
		{2, 0, 0, fnCosh, argU},
		{-1, 2, 0, fnOne, 0},
		{-2, 0, 0, fnOne, 0},
	}
)

var (
	hSeries  = expandSeries(hTerms)
	gSeries  = expandSeries(gTerms)
	b3Series = expandSeries(b3Terms)
)

// seriesTerm is coef·u^pu·α^pa.
type seriesTerm struct {
	coef   float64
	pu, pa int
}

// bodySeries holds the nonzero terms of a body and of its first and second
// u-derivatives, highest degree first.
type bodySeries [KernelMaxOrder + 1][]seriesTerm

// powers holds x^0 .. x^seriesDegree.
type powers [seriesDegree + 1]float64

func powersOf(x float64) powers {
	var p powers
	p[0] = 1
	for i := 1; i < len(p); i++ {
		p[i] = p[i-1] * x
	}
	return p
}

// eval sums the derivative of the given order at u, with ap the powers of α.
func (s *bodySeries) eval(order int, u float64, ap *powers) float64 {
	up := powersOf(u)
	var sum float64
	for _, t := range s[order] {
		sum += t.coef * up[t.pu] * ap[t.pa]
	}
	return sum
}

// expandSeries collects the Taylor coefficients of Σ terms up to
// seriesDegree and differentiates them in u.
func expandSeries(terms []hyperTerm) *bodySeries {
	var c [seriesDegree + 1][seriesDegree + 1]big.Rat
	add := func(d, j int, v *big.Rat) {
		c[d][j].Add(&c[d][j], v)
	}

	for _, t := range terms {
		coef := new(big.Rat).SetInt64(t.coef)
		if t.fn == fnOne {
			add(t.p+t.q, t.p, coef)
			continue
		}

		start := 0
		if t.fn == fnSinh {
			start = 1
		}
		for n := start; t.p+t.q+n <= seriesDegree; n += 2 {
			f := new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).MulRange(1, int64(n)))
			f.Mul(f, coef)
			d := t.p + t.q + n

			switch t.arg {
			case argU:
				add(d, t.p+n, f)
			case argAlpha:
				add(d, t.p, f)
			default:
				// (α − u)^n = Σ C(n, i)·α^(n−i)·(−u)^i
				for i := 0; i <= n; i++ {
					v := new(big.Rat).SetInt(new(big.Int).Binomial(int64(n), int64(i)))
					v.Mul(v, f)
					if i%2 == 1 {
						v.Neg(v)
					}
					add(d, t.p+i, v)
				}
			}
		}
	}

	s := new(bodySeries)
	for order := range s {
		for d := seriesDegree; d >= 0; d-- {
			for j := order; j <= d; j++ {
				if c[d][j].Sign() == 0 {
					continue
				}
				// d^order/du^order u^j = j!/(j−order)!·u^(j−order)
				v := new(big.Rat).SetInt(new(big.Int).MulRange(int64(j-order+1), int64(j)))
				v.Mul(v, &c[d][j])
				f, _ := v.Float64()
				s[order] = append(s[order], seriesTerm{coef: f, pu: j - order, pa: d - j})
			}
		}
	}
	return s
}
