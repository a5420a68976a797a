package tensor

import (
	"fmt"

	"github.com/tphakala/go-cagd/internal/linear"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Interpolate replaces the control grid so that S(uKnots[i], vKnots[j]) =
// data[i][j]. With collocation matrices Cu and Cv this solves
// Cu·P·Cvᵀ = D one coordinate at a time. On failure the grid is unchanged.
func (s *Surface) Interpolate(uKnots, vKnots []float64, data [][]r3.Vec) error {
	if err := s.checkGrid(data); err != nil {
		return err
	}

	cu, err := linear.Collocation(s.u, uKnots)
	if err != nil {
		return fmt.Errorf("u direction: %w", err)
	}
	cv, err := linear.Collocation(s.v, vKnots)
	if err != nil {
		return fmt.Errorf("v direction: %w", err)
	}

	coords := [3]func(r3.Vec) float64{
		func(p r3.Vec) float64 { return p.X },
		func(p r3.Vec) float64 { return p.Y },
		func(p r3.Vec) float64 { return p.Z },
	}

	var solved [3]*mat.Dense
	for k, coord := range coords {
		d := mat.NewDense(s.rows, s.cols, nil)
		for r, row := range data {
			for c, p := range row {
				d.Set(r, c, coord(p))
			}
		}

		// Cu·Y = D, then Cv·Pᵀ = Yᵀ.
		var y, pt mat.Dense
		if err := y.Solve(cu, d); err != nil {
			return fmt.Errorf("%w: u direction: %v", linear.ErrSingular, err)
		}
		if err := pt.Solve(cv, y.T()); err != nil {
			return fmt.Errorf("%w: v direction: %v", linear.ErrSingular, err)
		}
		solved[k] = &pt
	}

	for r := range s.rows {
		for c := range s.cols {
			s.SetPoint(r, c, r3.Vec{
				X: solved[0].At(c, r),
				Y: solved[1].At(c, r),
				Z: solved[2].At(c, r),
			})
		}
	}
	return nil
}
