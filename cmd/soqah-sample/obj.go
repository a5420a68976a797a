package main

import (
	"fmt"
	"image/color"
	"io"

	"github.com/tphakala/go-cagd"
	"gonum.org/v1/gonum/spatial/r3"
)

// objWriter renders composite curves and surfaces as Wavefront OBJ. Curves
// and iso lines become polylines, derivatives become one segment per
// sample, meshes become triangles with per-vertex normals.
//
// Write errors are sticky: after the first one every call returns it.
type objWriter struct {
	w     io.Writer
	scale float64
	err   error

	vertices int
	normals  int
	objects  int
}

func newOBJWriter(w io.Writer, derivativeScale float64) *objWriter {
	return &objWriter{w: w, scale: derivativeScale}
}

func (o *objWriter) printf(format string, args ...any) {
	if o.err != nil {
		return
	}
	_, o.err = fmt.Fprintf(o.w, format, args...)
}

// Err returns the first write error.
func (o *objWriter) Err() error {
	return o.err
}

// Stats returns the number of vertices and objects written.
func (o *objWriter) Stats() (vertices, objects int) {
	return o.vertices, o.objects
}

func (o *objWriter) object(format string, args ...any) {
	o.objects++
	o.printf("o "+format+"\n", args...)
}

// vertex writes v and returns its 1-based OBJ index.
func (o *objWriter) vertex(v r3.Vec) int {
	o.printf("v %g %g %g\n", v.X, v.Y, v.Z)
	o.vertices++
	return o.vertices
}

func (o *objWriter) normal(n r3.Vec) int {
	o.printf("vn %g %g %g\n", n.X, n.Y, n.Z)
	o.normals++
	return o.normals
}

func (o *objWriter) color(c color.RGBA) {
	o.printf("# color %02x%02x%02x\n", c.R, c.G, c.B)
}

// polyline writes points as one OBJ line element.
func (o *objWriter) polyline(points []r3.Vec) {
	first := o.vertices + 1
	for _, p := range points {
		o.vertex(p)
	}
	o.printf("l")
	for i := range points {
		o.printf(" %d", first+i)
	}
	o.printf("\n")
}

// vectors writes one segment from every sample point along its derivative.
func (o *objWriter) vectors(im *cagd.CurveImage, order int) {
	for _, d := range im.Samples {
		a := o.vertex(d[0])
		b := o.vertex(r3.Add(d[0], r3.Scale(o.scale, d[order])))
		o.printf("l %d %d\n", a, b)
	}
}

func (o *objWriter) RenderControlPolygon(index int, points []cagd.Vec, c color.RGBA) error {
	o.object("arc%d_control", index)
	o.color(c)
	o.polyline(points)
	return o.err
}

func (o *objWriter) RenderCurve(index, order int, im *cagd.CurveImage, c color.RGBA) error {
	o.object("arc%d_order%d", index, order)
	o.color(c)
	if order == 0 {
		o.polyline(im.Points(0))
	} else {
		o.vectors(im, order)
	}
	return o.err
}

func (o *objWriter) RenderControlNet(index int, grid [][]cagd.Vec) error {
	o.object("patch%d_control", index)
	for _, row := range grid {
		o.polyline(row)
	}
	for col := range grid[0] {
		column := make([]r3.Vec, len(grid))
		for row := range grid {
			column[row] = grid[row][col]
		}
		o.polyline(column)
	}
	return o.err
}

func (o *objWriter) RenderMesh(index int, m *cagd.Mesh, material int, interpolated bool) error {
	if interpolated {
		o.object("patch%d_interpolated", index)
	} else {
		o.object("patch%d_mesh", index)
	}
	o.printf("usemtl material%d\n", material)

	firstV, firstN := o.vertices+1, o.normals+1
	for i, v := range m.Vertices {
		o.vertex(v)
		o.normal(m.Normals[i])
	}
	for _, f := range m.Faces {
		a, b, c := f[0], f[1], f[2]
		o.printf("f %d//%d %d//%d %d//%d\n",
			firstV+a, firstN+a, firstV+b, firstN+b, firstV+c, firstN+c)
	}
	return o.err
}

func (o *objWriter) RenderIsoLine(index int, family cagd.IsoFamily, order int, im *cagd.CurveImage) error {
	o.object("patch%d_%s_order%d", index, family, order)
	if order == 0 {
		o.polyline(im.Points(0))
	} else {
		o.vectors(im, order)
	}
	return o.err
}
