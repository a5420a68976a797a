// Package cagd models second-order quartic algebraic-hyperbolic (SOQAH)
// arcs and patches and assembles them into composite curves and surfaces.
//
// A SOQAH arc blends four control points with the functions B0..B3 over
// [0, α]; a patch is their tensor product over a 4×4 grid. The shape
// parameter α must be positive and finite.
//
// # Features
//
//   - Arc images with up to second derivatives, patch meshes with normals
//   - Isoparametric lines in both directions with first derivatives
//   - Collocation interpolation of arcs and patches through given data
//   - Composite curves and surfaces with stable node indices
//   - Join, merge and continue operations that keep first-order continuity
//   - YAML scene snapshots with validated adjacency
//   - Optional SIMD acceleration via github.com/tphakala/simd
//
// # Quick Start
//
// For one-shot sampling of a single arc:
//
//	im, err := cagd.SampleArc(cagd.DefaultArcPoints(0), 1, 2, 40)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For composite curves:
//
//	cc, err := cagd.NewCompositeCurve(cagd.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, _ := cc.AppendArcWithPoints(cagd.DefaultArcPoints(0))
//	b, _ := cc.AppendArcWithPoints(cagd.DefaultArcPoints(1))
//
//	// Insert a bridge between the right end of a and the left end of b
//	bridge, err := cc.JoinArcs(a, cagd.Right, b, cagd.Left)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Edit, then push the change into the attached arcs
//	_ = cc.SetArcPoint(a, 3, cagd.Vec{X: 0, Y: -2, Z: 0})
//	_ = cc.RefreshNeighbours(a)
//
//	if out := cc.Update(); !out.OK() {
//	    log.Fatal(out.Err())
//	}
//
// # Conventions
//
// The left end of an arc is control point 0 with interior neighbour 1; the
// right end is point 3 with interior neighbour 2.
//
// Patch grids are indexed P[row][col] with rows along u and columns along
// v. [North] is column 0, [South] column 3, [West] row 0 and [East] row 3.
// Points along an edge are ordered by the free grid coordinate.
//
// Every link records the side of the neighbour that faces back, so
// [CompositeCurve.RefreshNeighbours] and [CompositeSurface.RefreshNeighbours]
// always rewrite the correct edge.
//
// # Thread Safety
//
// [CompositeCurve] and [CompositeSurface] serialize all their methods. With
// [Config.EnableParallel] set, image generation fans out over the nodes,
// but every call returns only after all nodes are done. Standalone arcs
// and patches are not safe for concurrent mutation.
package cagd
