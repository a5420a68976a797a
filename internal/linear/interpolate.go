package linear

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Interpolate replaces the control points so that the curve passes through
// data[i] at knots[i]. Knots must lie in the interval and there must be one
// knot per control point. On failure the control points are unchanged.
func (lc *LinearCombination) Interpolate(knots []float64, data []r3.Vec) error {
	n := len(lc.xs)
	if len(knots) != n || len(data) != n {
		return fmt.Errorf("%w: %d knots and %d data points for %d control points",
			ErrDimension, len(knots), len(data), n)
	}

	c, err := Collocation(lc.basis, knots)
	if err != nil {
		return err
	}

	rhs := mat.NewDense(n, 3, nil)
	for i, p := range data {
		rhs.SetRow(i, []float64{p.X, p.Y, p.Z})
	}

	var sol mat.Dense
	if err := sol.Solve(c, rhs); err != nil {
		return fmt.Errorf("%w: %v", ErrSingular, err)
	}
	for i := range n {
		lc.SetPoint(i, r3.Vec{X: sol.At(i, 0), Y: sol.At(i, 1), Z: sol.At(i, 2)})
	}
	return nil
}

// Collocation returns the matrix C with C[i][j] = Bj(knots[i]).
func Collocation(basis Basis, knots []float64) (*mat.Dense, error) {
	n := basis.Count()
	if len(knots) != n {
		return nil, fmt.Errorf("%w: %d knots for %d blending functions", ErrDimension, len(knots), n)
	}

	c := mat.NewDense(n, n, nil)
	row := make([]float64, n)
	for i, u := range knots {
		if err := basis.Eval(0, u, row); err != nil {
			return nil, fmt.Errorf("knot %d: %w", i, err)
		}
		c.SetRow(i, row)
	}
	return c, nil
}
