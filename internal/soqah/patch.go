package soqah

import (
	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Line is one row or column of a patch's control grid, ordered by the free
// grid coordinate.
type Line [Size]r3.Vec

// Patch is a SOQAH surface over [0, α]×[0, α]. One kernel serves both
// directions, so the two domains always change together.
//
// Grid rows follow u and columns follow v. North is column 0, south column
// 3, west row 0 and east row 3.
type Patch struct {
	*tensor.Surface
	kernel *mathutil.Kernel
}

// NewPatch creates a patch with every control point at the origin.
func NewPatch(alpha float64) (*Patch, error) {
	k, err := mathutil.NewKernel(alpha)
	if err != nil {
		return nil, err
	}
	return &Patch{Surface: tensor.New(k, k), kernel: k}, nil
}

// Alpha returns the shape parameter.
func (p *Patch) Alpha() float64 {
	return p.kernel.Alpha()
}

// SetAlpha rescales both parameter domains to [0, α]. An invalid value is
// rejected and the previous one kept.
func (p *Patch) SetAlpha(alpha float64) error {
	return p.kernel.SetAlpha(alpha)
}

// Clone returns a deep copy with its own kernel.
func (p *Patch) Clone() *Patch {
	k, err := mathutil.NewKernel(p.Alpha())
	if err != nil {
		panic(err)
	}
	s := p.Surface.Clone()
	if err := s.SetBases(k, k); err != nil {
		panic(err)
	}
	return &Patch{Surface: s, kernel: k}
}

// patchCell maps the k-th point of the line at the given depth from edge d
// to grid coordinates.
func patchCell(d Direction, depth, k int) (row, col int) {
	switch d {
	case North:
		return k, depth
	case South:
		return k, Size - 1 - depth
	case West:
		return depth, k
	default:
		return Size - 1 - depth, k
	}
}

// Line returns the control points at the given depth from edge d.
func (p *Patch) Line(d Direction, depth int) Line {
	var l Line
	for k := range l {
		l[k] = p.Point(patchCell(d, depth, k))
	}
	return l
}

// SetLine assigns the control points at the given depth from edge d.
func (p *Patch) SetLine(d Direction, depth int, l Line) {
	for k, pt := range l {
		row, col := patchCell(d, depth, k)
		p.SetPoint(row, col, pt)
	}
}

// Edge returns the boundary line of edge d and the interior line next to it.
func (p *Patch) Edge(d Direction) (boundary, interior Line) {
	return p.Line(d, 0), p.Line(d, 1)
}
