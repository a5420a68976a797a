package tensor

import (
	"fmt"

	"github.com/tphakala/go-cagd/internal/linear"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a sampled surface. Vertex (i, j) sits at UParams[i], VParams[j]
// and is stored at index i*VDiv + j.
type Mesh struct {
	UDiv, VDiv int
	UParams    []float64
	VParams    []float64
	Vertices   []r3.Vec
	Normals    []r3.Vec
	Faces      [][3]int
	Bounds     r3.Box
}

// Vertex returns the vertex at grid position (i, j).
func (m *Mesh) Vertex(i, j int) r3.Vec {
	return m.Vertices[i*m.VDiv+j]
}

// unitNormal returns the unit vector along du × dv, or the zero vector where
// the surface is degenerate.
func unitNormal(du, dv r3.Vec) r3.Vec {
	n := r3.Cross(du, dv)
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// GenerateImage samples the surface on a uDiv × vDiv grid covering both
// domains, computing unit normals from the first partials and splitting
// every grid cell into two triangles.
func (s *Surface) GenerateImage(uDiv, vDiv int) (*Mesh, error) {
	if uDiv < 2 || vDiv < 2 {
		return nil, fmt.Errorf("%w: %d×%d (need at least 2×2)", linear.ErrInvalidSampleCount, uDiv, vDiv)
	}

	m := &Mesh{
		UDiv:     uDiv,
		VDiv:     vDiv,
		UParams:  linear.Span(s.u, uDiv),
		VParams:  linear.Span(s.v, vDiv),
		Vertices: make([]r3.Vec, uDiv*vDiv),
		Normals:  make([]r3.Vec, uDiv*vDiv),
		Faces:    make([][3]int, 0, 2*(uDiv-1)*(vDiv-1)),
	}

	for i, u := range m.UParams {
		for j, v := range m.VParams {
			pd, err := s.PartialDerivatives(1, u, v)
			if err != nil {
				return nil, fmt.Errorf("vertex (%d, %d): %w", i, j, err)
			}
			k := i*vDiv + j
			m.Vertices[k] = pd.Point()
			m.Normals[k] = unitNormal(pd.Du(), pd.Dv())
		}
	}

	for i := range uDiv - 1 {
		for j := range vDiv - 1 {
			a := i*vDiv + j
			b := a + vDiv
			m.Faces = append(m.Faces, [3]int{a, b, b + 1}, [3]int{a, b + 1, a + 1})
		}
	}

	m.Bounds = linear.Bounds(m.Vertices)
	return m, nil
}
