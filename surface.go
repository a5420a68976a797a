package cagd

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/tphakala/go-cagd/internal/soqah"
	"github.com/tphakala/go-cagd/internal/topology"
)

// PatchNode is one patch of a composite surface together with its sampled
// images and material.
type PatchNode struct {
	Patch *Patch

	// ULines and VLines are the isoparametric lines of constant u and
	// constant v. Image is the sampled patch; Interpolated is the mesh of
	// the patch interpolating this one's control net, when enabled. All
	// are nil until the first update.
	ULines       []*CurveImage
	VLines       []*CurveImage
	Image        *Mesh
	Interpolated *Mesh

	Material int

	// Synthesized marks a bridge created by JoinPatches.
	Synthesized bool
}

// CompositeSurface owns a growing collection of patches and their
// north/east/south/west adjacency. It follows the same rules as
// CompositeCurve: stable indices, no removal, explicit refresh, serialized
// methods and copies from Node.
type CompositeSurface struct {
	config Config
	logger *slog.Logger

	mu    sync.Mutex
	nodes []*PatchNode
	graph *topology.Graph
}

// NewCompositeSurface creates an empty composite surface.
func NewCompositeSurface(config *Config) (*CompositeSurface, error) {
	c, err := resolve(config)
	if err != nil {
		return nil, err
	}
	return &CompositeSurface{
		config: c,
		logger: c.Logger.With("component", "composite-surface"),
		nodes:  make([]*PatchNode, 0, c.InitialCapacity),
		graph:  topology.New(soqah.DirectionCount, c.InitialCapacity),
	}, nil
}

// Config returns a copy of the configuration in use.
func (cs *CompositeSurface) Config() Config {
	return cs.config
}

func (cs *CompositeSurface) appendNode(alpha float64, synthesized bool) (int, *PatchNode, error) {
	patch, err := soqah.NewPatch(alpha)
	if err != nil {
		return 0, nil, err
	}
	i := cs.graph.Add()
	material := cs.config.Style.Material(i)
	if material < 0 || material >= cs.config.MaterialCount {
		material = 0
	}
	node := &PatchNode{
		Patch:       patch,
		Material:    material,
		Synthesized: synthesized,
	}
	cs.nodes = append(cs.nodes, node)
	return i, node, nil
}

// AppendPatch adds an unattached patch with every control point at the
// origin and returns its index.
func (cs *CompositeSurface) AppendPatch() (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	i, _, err := cs.appendNode(cs.config.Alpha, false)
	return i, err
}

// AppendPatchWithPoints adds an unattached patch with the given 4×4 grid.
func (cs *CompositeSurface) AppendPatchWithPoints(grid [][]Vec) (int, error) {
	if err := checkGrid(grid); err != nil {
		return 0, err
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()

	i, node, err := cs.appendNode(cs.config.Alpha, false)
	if err != nil {
		return 0, err
	}
	if err := node.Patch.SetPoints(grid); err != nil {
		return 0, err
	}
	return i, nil
}

func checkGrid(grid [][]Vec) error {
	if len(grid) != PointCount {
		return fmt.Errorf("%w: got %d rows, need %d", ErrInvalidPoint, len(grid), PointCount)
	}
	for r, row := range grid {
		if len(row) != PointCount {
			return fmt.Errorf("%w: row %d has %d points, need %d", ErrInvalidPoint, r, len(row), PointCount)
		}
	}
	return nil
}

// PatchCount returns the number of patches.
func (cs *CompositeSurface) PatchCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.nodes)
}

// Node returns a copy of patch i. Edits to the copy do not reach the
// composite; meshes and iso lines are shared and must be treated as
// read-only.
func (cs *CompositeSurface) Node(i int) (*PatchNode, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkIndex(i); err != nil {
		return nil, err
	}
	node := *cs.nodes[i]
	node.Patch = node.Patch.Clone()
	node.ULines = slices.Clone(node.ULines)
	node.VLines = slices.Clone(node.VLines)
	return &node, nil
}

func (cs *CompositeSurface) checkIndex(i int) error {
	if i < 0 || i >= len(cs.nodes) {
		return fmt.Errorf("%w: patch %d (have %d)", ErrIndexOutOfRange, i, len(cs.nodes))
	}
	return nil
}

func (cs *CompositeSurface) checkPoint(i, row, col int) error {
	if err := cs.checkIndex(i); err != nil {
		return err
	}
	if row < 0 || row >= PointCount || col < 0 || col >= PointCount {
		return fmt.Errorf("%w: point (%d, %d) of patch %d", ErrInvalidPoint, row, col, i)
	}
	return nil
}

// PatchPoint returns control point (row, col) of patch i.
func (cs *CompositeSurface) PatchPoint(i, row, col int) (Vec, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkPoint(i, row, col); err != nil {
		return Vec{}, err
	}
	return cs.nodes[i].Patch.Point(row, col), nil
}

// SetPatchPoint assigns control point (row, col) of patch i. Neighbours
// are not updated.
func (cs *CompositeSurface) SetPatchPoint(i, row, col int, p Vec) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkPoint(i, row, col); err != nil {
		return err
	}
	cs.nodes[i].Patch.SetPoint(row, col, p)
	return nil
}

// SetPatchAlpha changes the shape parameter of patch i in both directions.
func (cs *CompositeSurface) SetPatchAlpha(i int, alpha float64) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkIndex(i); err != nil {
		return err
	}
	return cs.nodes[i].Patch.SetAlpha(alpha)
}

// SetMaterialIndex selects the material patch i is rendered with.
func (cs *CompositeSurface) SetMaterialIndex(i, material int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkIndex(i); err != nil {
		return err
	}
	if material < 0 || material >= cs.config.MaterialCount {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidMaterial, material, cs.config.MaterialCount)
	}
	cs.nodes[i].Material = material
	return nil
}

// Neighbour returns the patch attached to edge d of patch i and which of
// its edges faces back. ok is false when nothing is attached.
func (cs *CompositeSurface) Neighbour(i int, d Direction) (index int, facing Direction, ok bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	l, ok := cs.graph.Neighbour(i, int(d))
	if !ok {
		return -1, 0, false
	}
	return l.Node, Direction(l.Side), true
}

func (cs *CompositeSurface) reject(op string, err error, args ...any) error {
	cs.logger.Warn(op+" rejected", append(args, "error", err)...)
	return fmt.Errorf("%w: %s: %w", ErrInvalidTopology, op, err)
}

// JoinPatches inserts a bridge patch between edge dir1 of patch i1 and edge
// dir2 of patch i2. The bridge faces i1 with edge dir1.Opposite() and i2
// with edge dir1. Each facing edge copies the boundary line of the patch
// it meets and mirrors that patch's interior line through it.
//
// Both edges must be free. On failure nothing changes.
func (cs *CompositeSurface) JoinPatches(i1 int, dir1 Direction, i2 int, dir2 Direction) (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	args := []any{"patch1", i1, "dir1", dir1, "patch2", i2, "dir2", dir2}
	if err := cs.graph.CanConnect(i1, int(dir1), i2, int(dir2)); err != nil {
		return -1, cs.reject("join patches", err, args...)
	}

	n, bridge, err := cs.appendNode(cs.config.Alpha, true)
	if err != nil {
		return -1, err
	}

	near, far := dir1.Opposite(), dir1
	propagatePatch(cs.nodes[i1].Patch, dir1, bridge.Patch, near)
	propagatePatch(cs.nodes[i2].Patch, dir2, bridge.Patch, far)

	mustConnect(cs.graph, i1, int(dir1), n, int(near))
	mustConnect(cs.graph, i2, int(dir2), n, int(far))

	cs.logger.Debug("patches joined", append(args, "bridge", n)...)
	return n, nil
}

// MergePatches welds edge dir1 of patch i1 to edge dir2 of patch i2: both
// boundary lines move to the average of the two interior lines, and the
// patches become each other's neighbours.
//
// Both edges must be free. On failure nothing changes.
func (cs *CompositeSurface) MergePatches(i1 int, dir1 Direction, i2 int, dir2 Direction) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	args := []any{"patch1", i1, "dir1", dir1, "patch2", i2, "dir2", dir2}
	if err := cs.graph.CanConnect(i1, int(dir1), i2, int(dir2)); err != nil {
		return cs.reject("merge patches", err, args...)
	}

	p1, p2 := cs.nodes[i1].Patch, cs.nodes[i2].Patch
	m := soqah.MidpointLine(p1.Line(dir1, 1), p2.Line(dir2, 1))
	p1.SetLine(dir1, 0, m)
	p2.SetLine(dir2, 0, m)

	mustConnect(cs.graph, i1, int(dir1), i2, int(dir2))

	cs.logger.Debug("patches merged", args...)
	return nil
}

// ContinuePatch appends a patch that extends edge dir of patch i: line k
// of the new patch, counted from the shared edge, is (k+1)·e − k·p for the
// boundary line e and interior line p of patch i. The new patch has the
// same shape parameter and faces i with edge dir.Opposite().
//
// The edge must be free. On failure nothing changes.
func (cs *CompositeSurface) ContinuePatch(i int, dir Direction) (int, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	args := []any{"patch", i, "dir", dir}
	if err := cs.graph.Free(i, int(dir)); err != nil {
		return -1, cs.reject("continue patch", err, args...)
	}

	src := cs.nodes[i].Patch
	n, node, err := cs.appendNode(src.Alpha(), false)
	if err != nil {
		return -1, err
	}

	facing := dir.Opposite()
	e, in := src.Edge(dir)
	for depth := range PointCount {
		node.Patch.SetLine(facing, depth, soqah.ExtrapolateLine(e, in, depth))
	}

	mustConnect(cs.graph, i, int(dir), n, int(facing))

	cs.logger.Debug("patch continued", append(args, "patch_new", n)...)
	return n, nil
}

// propagatePatch rewrites edge to of dst from edge from of src: the
// boundary line is copied and the interior line mirrored through it.
func propagatePatch(src *Patch, from Direction, dst *Patch, to Direction) {
	e, in := src.Edge(from)
	dst.SetLine(to, 0, e)
	dst.SetLine(to, 1, soqah.ReflectLine(e, in))
}

// RefreshNeighbours pushes the edges of patch i into the patches attached
// to them. Each neighbour records which of its own edges faces i, and that
// edge is the one rewritten, whichever of the four it is.
func (cs *CompositeSurface) RefreshNeighbours(i int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkIndex(i); err != nil {
		return err
	}

	links, err := linkedSides(cs.graph, i)
	if err != nil {
		return err
	}
	for d, l := range links {
		if l.Linked() {
			propagatePatch(cs.nodes[i].Patch, Direction(d), cs.nodes[l.Node].Patch, Direction(l.Side))
		}
	}
	return nil
}

// SettleJoins pulls every bridge patch back into agreement with the
// patches it connects.
func (cs *CompositeSurface) SettleJoins() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.settleJoins()
}

func (cs *CompositeSurface) settleJoins() error {
	var errs []error
	for i, node := range cs.nodes {
		if !node.Synthesized {
			continue
		}
		links, err := linkedSides(cs.graph, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for d, l := range links {
			if l.Linked() {
				propagatePatch(cs.nodes[l.Node].Patch, Direction(l.Side), node.Patch, Direction(d))
			}
		}
	}
	return errors.Join(errs...)
}

// updateNode regenerates the iso lines, the mesh and, when enabled, the
// interpolated mesh of one patch. The interpolating patch is a copy; the
// control net of the node is left as it is.
func (cs *CompositeSurface) updateNode(node *PatchNode) error {
	c := &cs.config
	p := node.Patch

	uLines, err := p.GenerateUIsoLines(c.IsoLineCount, c.PatchMaxOrder, c.PatchDivCount)
	if err != nil {
		return fmt.Errorf("u lines: %w", err)
	}
	vLines, err := p.GenerateVIsoLines(c.IsoLineCount, c.PatchMaxOrder, c.PatchDivCount)
	if err != nil {
		return fmt.Errorf("v lines: %w", err)
	}
	mesh, err := p.GenerateImage(c.PatchDivCount, c.PatchDivCount)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}

	var interpolated *Mesh
	if c.Interpolate {
		knots := make([]float64, len(c.InterpolationKnots))
		for k, f := range c.InterpolationKnots {
			knots[k] = f * p.Alpha()
		}
		ip := p.Clone()
		if err := ip.Interpolate(knots, knots, p.Points()); err != nil {
			return fmt.Errorf("interpolation: %w", err)
		}
		if interpolated, err = ip.GenerateImage(c.PatchDivCount, c.PatchDivCount); err != nil {
			return fmt.Errorf("interpolated mesh: %w", err)
		}
	}

	node.ULines, node.VLines = uLines, vLines
	node.Image, node.Interpolated = mesh, interpolated
	return nil
}

// UpdatePatch regenerates the images of patch i.
func (cs *CompositeSurface) UpdatePatch(i int) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if err := cs.checkIndex(i); err != nil {
		return err
	}
	return cs.updateNode(cs.nodes[i])
}

// UpdatePatches settles every join and then regenerates the images of
// every patch. All patches are attempted; the result reports each one.
func (cs *CompositeSurface) UpdatePatches() Outcomes {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.settleJoins(); err != nil {
		cs.logger.Warn("settling joins failed", "error", err)
	}
	out := forEachNode(len(cs.nodes), cs.config.EnableParallel, func(i int) error {
		return cs.updateNode(cs.nodes[i])
	})
	if !out.OK() {
		cs.logger.Warn("patch images failed", "patches", out.Failed())
	}
	return out
}

// RenderPatches draws every patch through r: the control net when
// controlNet is set, the mesh, the interpolated mesh if present, the u
// lines with their first derivatives and the v lines. Every patch is
// attempted; the failures are returned together.
func (cs *CompositeSurface) RenderPatches(r SurfaceRenderer, controlNet bool) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	out := forEachNode(len(cs.nodes), false, func(i int) error {
		return cs.renderNode(r, i, controlNet)
	})
	return out.Err()
}

func (cs *CompositeSurface) renderNode(r SurfaceRenderer, i int, controlNet bool) error {
	n := cs.nodes[i]
	if n.Image == nil {
		return ErrNoImage
	}

	var errs []error
	if controlNet {
		errs = append(errs, r.RenderControlNet(i, n.Patch.Points()))
	}
	errs = append(errs, r.RenderMesh(i, n.Image, n.Material, false))
	if n.Interpolated != nil {
		errs = append(errs, r.RenderMesh(i, n.Interpolated, n.Material, true))
	}

	for order := range cs.config.PatchMaxOrder + 1 {
		for _, line := range n.ULines {
			errs = append(errs, r.RenderIsoLine(i, ULines, order, line))
		}
	}
	for _, line := range n.VLines {
		errs = append(errs, r.RenderIsoLine(i, VLines, 0, line))
	}
	return errors.Join(errs...)
}

// CheckInvariants verifies that every adjacency is mutual.
func (cs *CompositeSurface) CheckInvariants() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.graph.CheckAll()
}
