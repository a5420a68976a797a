package cagd

import "image/color"

// CurveRenderer draws the images of a composite curve.
type CurveRenderer interface {
	// RenderControlPolygon draws the control points of arc index.
	RenderControlPolygon(index int, points []Vec, c color.RGBA) error

	// RenderCurve draws derivative order of the sampled arc index. Order 0
	// is the curve itself; higher orders are drawn as vectors attached to
	// the samples.
	RenderCurve(index, order int, im *CurveImage, c color.RGBA) error
}

// IsoFamily selects a family of isoparametric lines.
type IsoFamily int

const (
	// ULines have constant u and run along v.
	ULines IsoFamily = iota
	// VLines have constant v and run along u.
	VLines
)

func (f IsoFamily) String() string {
	if f == ULines {
		return "u"
	}
	return "v"
}

// SurfaceRenderer draws the images of a composite surface.
type SurfaceRenderer interface {
	// RenderControlNet draws the control grid of patch index.
	RenderControlNet(index int, grid [][]Vec) error

	// RenderMesh draws a sampled patch with the given material.
	// Interpolated is set for the mesh of the interpolating patch.
	RenderMesh(index int, m *Mesh, material int, interpolated bool) error

	// RenderIsoLine draws derivative order of one isoparametric line.
	RenderIsoLine(index int, family IsoFamily, order int, im *CurveImage) error
}
