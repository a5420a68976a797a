package cagd

import (
	"github.com/tphakala/go-cagd/internal/linear"
	"github.com/tphakala/go-cagd/internal/soqah"
	"github.com/tphakala/go-cagd/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or vector in 3D space.
type Vec = r3.Vec

// Arc is a SOQAH arc: four control points blended over [0, α].
type Arc = soqah.Arc

// Patch is a SOQAH patch: a 4×4 control grid blended over [0, α]×[0, α].
type Patch = soqah.Patch

// Derivatives holds a position followed by its derivatives.
type Derivatives = linear.Derivatives

// PartialDerivatives holds a position and, optionally, ∂/∂u and ∂/∂v.
type PartialDerivatives = tensor.PartialDerivatives

// CurveImage is a sampled curve with derivatives.
type CurveImage = linear.Image

// Mesh is a sampled surface with normals and triangle faces.
type Mesh = tensor.Mesh

// Side names an end of an arc.
type Side = soqah.Side

// Arc ends. Left is P0 (interior neighbour P1), Right is P3 (interior
// neighbour P2).
const (
	Left  = soqah.Left
	Right = soqah.Right
)

// Direction names an edge of a patch.
type Direction = soqah.Direction

// Patch edges on the grid P[row][col], rows along u and columns along v.
const (
	North = soqah.North // column 0
	East  = soqah.East  // row 3
	South = soqah.South // column 3
	West  = soqah.West  // row 0
)

// PointCount is the number of control points of an arc and the size of
// each side of a patch grid.
const PointCount = soqah.Size

// NewArc creates a standalone arc with all control points at the origin.
func NewArc(alpha float64) (*Arc, error) {
	return soqah.NewArc(alpha)
}

// NewPatch creates a standalone patch with all control points at the origin.
func NewPatch(alpha float64) (*Patch, error) {
	return soqah.NewPatch(alpha)
}
