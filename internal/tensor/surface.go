// Package tensor implements tensor-product surfaces: a control grid blended
// by one basis along u and another along v.
package tensor

import (
	"fmt"

	"github.com/tphakala/go-cagd/internal/linear"
	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/simdops"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxOrder is the highest partial derivative order a Surface evaluates.
// Mixed and pure second partials are not computed.
const MaxOrder = 1

// PartialDerivatives is a triangular table: pd[0] = {S}, pd[1] = {∂S/∂u, ∂S/∂v}.
type PartialDerivatives [][]r3.Vec

// Point returns the position.
func (pd PartialDerivatives) Point() r3.Vec {
	return pd[0][0]
}

// Du returns ∂S/∂u, or the zero vector when first order was not requested.
func (pd PartialDerivatives) Du() r3.Vec {
	if len(pd) < 2 {
		return r3.Vec{}
	}
	return pd[1][0]
}

// Dv returns ∂S/∂v, or the zero vector when first order was not requested.
func (pd PartialDerivatives) Dv() r3.Vec {
	if len(pd) < 2 {
		return r3.Vec{}
	}
	return pd[1][1]
}

// Surface is S(u, v) = Σr Σc P[r][c]·Bu_r(u)·Bv_c(v).
//
// Rows follow the u basis and columns the v basis. The grid is stored
// row-major as three coordinate planes.
type Surface struct {
	u, v       linear.Basis
	rows, cols int
	xs, ys, zs []float64
	ops        *simdops.Ops
}

// New creates a surface with every control point at the origin.
func New(u, v linear.Basis) *Surface {
	rows, cols := u.Count(), v.Count()
	return &Surface{
		u:    u,
		v:    v,
		rows: rows,
		cols: cols,
		xs:   make([]float64, rows*cols),
		ys:   make([]float64, rows*cols),
		zs:   make([]float64, rows*cols),
		ops:  simdops.Float64Ops(),
	}
}

// Rows returns the number of control rows (u direction).
func (s *Surface) Rows() int { return s.rows }

// Cols returns the number of control columns (v direction).
func (s *Surface) Cols() int { return s.cols }

// UBasis returns the u-direction basis.
func (s *Surface) UBasis() linear.Basis { return s.u }

// VBasis returns the v-direction basis.
func (s *Surface) VBasis() linear.Basis { return s.v }

// SetBases replaces both bases at once. Their counts must match the grid.
func (s *Surface) SetBases(u, v linear.Basis) error {
	if u.Count() != s.rows || v.Count() != s.cols {
		return fmt.Errorf("%w: bases have %d×%d functions, grid is %d×%d",
			linear.ErrDimension, u.Count(), v.Count(), s.rows, s.cols)
	}
	s.u, s.v = u, v
	return nil
}

// UInterval returns the u domain.
func (s *Surface) UInterval() (float64, float64) { return s.u.Interval() }

// VInterval returns the v domain.
func (s *Surface) VInterval() (float64, float64) { return s.v.Interval() }

// Point returns P[row][col]. It panics if either index is out of range.
func (s *Surface) Point(row, col int) r3.Vec {
	i := s.index(row, col)
	return r3.Vec{X: s.xs[i], Y: s.ys[i], Z: s.zs[i]}
}

// SetPoint assigns P[row][col]. It panics if either index is out of range.
func (s *Surface) SetPoint(row, col int, p r3.Vec) {
	i := s.index(row, col)
	s.xs[i], s.ys[i], s.zs[i] = p.X, p.Y, p.Z
}

func (s *Surface) index(row, col int) int {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		panic(fmt.Sprintf("tensor: control point (%d, %d) outside %d×%d grid", row, col, s.rows, s.cols))
	}
	return row*s.cols + col
}

// Points returns a copy of the control grid.
func (s *Surface) Points() [][]r3.Vec {
	out := make([][]r3.Vec, s.rows)
	for r := range out {
		out[r] = make([]r3.Vec, s.cols)
		for c := range out[r] {
			out[r][c] = s.Point(r, c)
		}
	}
	return out
}

// SetPoints assigns the whole control grid.
func (s *Surface) SetPoints(grid [][]r3.Vec) error {
	if err := s.checkGrid(grid); err != nil {
		return err
	}
	for r, row := range grid {
		for c, p := range row {
			s.SetPoint(r, c, p)
		}
	}
	return nil
}

func (s *Surface) checkGrid(grid [][]r3.Vec) error {
	if len(grid) != s.rows {
		return fmt.Errorf("%w: got %d rows, need %d", linear.ErrDimension, len(grid), s.rows)
	}
	for r, row := range grid {
		if len(row) != s.cols {
			return fmt.Errorf("%w: row %d has %d points, need %d", linear.ErrDimension, r, len(row), s.cols)
		}
	}
	return nil
}

// Clone returns a deep copy of the grid sharing the same bases.
func (s *Surface) Clone() *Surface {
	c := New(s.u, s.v)
	copy(c.xs, s.xs)
	copy(c.ys, s.ys)
	copy(c.zs, s.zs)
	return c
}

// PartialDerivatives evaluates S and, for maxOrder 1, ∂S/∂u and ∂S/∂v.
//
// Each control row is first collapsed over v, then the intermediate points
// are collapsed over u.
func (s *Surface) PartialDerivatives(maxOrder int, u, v float64) (PartialDerivatives, error) {
	if maxOrder < 0 || maxOrder > MaxOrder {
		return nil, fmt.Errorf("%w: order %d (max %d)", mathutil.ErrUnsupportedOrder, maxOrder, MaxOrder)
	}

	uBlend := make([][]float64, maxOrder+1)
	vBlend := make([][]float64, maxOrder+1)
	for order := range maxOrder + 1 {
		uBlend[order] = make([]float64, s.rows)
		if err := s.u.Eval(order, u, uBlend[order]); err != nil {
			return nil, fmt.Errorf("u direction: %w", err)
		}
		vBlend[order] = make([]float64, s.cols)
		if err := s.v.Eval(order, v, vBlend[order]); err != nil {
			return nil, fmt.Errorf("v direction: %w", err)
		}
	}

	// aux[order] holds one intermediate point per row, as coordinate planes.
	type planes struct{ xs, ys, zs []float64 }
	aux := make([]planes, maxOrder+1)
	for order := range aux {
		aux[order] = planes{make([]float64, s.rows), make([]float64, s.rows), make([]float64, s.rows)}
		for r := range s.rows {
			lo, hi := r*s.cols, (r+1)*s.cols
			aux[order].xs[r], aux[order].ys[r], aux[order].zs[r] =
				s.ops.Combine(s.xs[lo:hi], s.ys[lo:hi], s.zs[lo:hi], vBlend[order])
		}
	}

	collapse := func(p planes, w []float64) r3.Vec {
		x, y, z := s.ops.Combine(p.xs, p.ys, p.zs, w)
		return r3.Vec{X: x, Y: y, Z: z}
	}

	pd := PartialDerivatives{{collapse(aux[0], uBlend[0])}}
	if maxOrder >= 1 {
		pd = append(pd, []r3.Vec{
			collapse(aux[0], uBlend[1]),
			collapse(aux[1], uBlend[0]),
		})
	}
	return pd, nil
}
