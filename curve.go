package cagd

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tphakala/go-cagd/internal/soqah"
	"github.com/tphakala/go-cagd/internal/topology"
)

// ArcNode is one arc of a composite curve together with its display state.
type ArcNode struct {
	Arc   *Arc
	Style ArcStyle

	// Image is the latest sampled image, or nil before the first
	// GenerateImages call.
	Image *CurveImage

	// Synthesized marks a bridge created by JoinArcs.
	Synthesized bool
}

// CompositeCurve owns a growing collection of arcs and their left/right
// adjacency.
//
// Arcs are addressed by the index returned when they were added. Indices
// are stable: arcs are never removed or reordered. Control point edits do
// not propagate by themselves; call RefreshNeighbours after editing a
// joined arc, or Update to settle every join and resample.
//
// All methods are safe for concurrent use; they are serialized internally.
// Node hands out copies, so callers never share mutable state with it.
type CompositeCurve struct {
	config Config
	logger *slog.Logger

	mu    sync.Mutex
	nodes []*ArcNode
	graph *topology.Graph
}

// NewCompositeCurve creates an empty composite curve.
func NewCompositeCurve(config *Config) (*CompositeCurve, error) {
	c, err := resolve(config)
	if err != nil {
		return nil, err
	}
	return &CompositeCurve{
		config: c,
		logger: c.Logger.With("component", "composite-curve"),
		nodes:  make([]*ArcNode, 0, c.InitialCapacity),
		graph:  topology.New(soqah.SideCount, c.InitialCapacity),
	}, nil
}

// Config returns a copy of the configuration in use.
func (cc *CompositeCurve) Config() Config {
	return cc.config
}

// appendNode adds a node with a zeroed arc. The caller holds mu.
func (cc *CompositeCurve) appendNode(alpha float64, synthesized bool) (int, *ArcNode, error) {
	arc, err := soqah.NewArc(alpha)
	if err != nil {
		return 0, nil, err
	}
	i := cc.graph.Add()
	node := &ArcNode{
		Arc:         arc,
		Style:       cc.config.Style.ArcStyle(i),
		Synthesized: synthesized,
	}
	cc.nodes = append(cc.nodes, node)
	return i, node, nil
}

// AppendArc adds an unattached arc with every control point at the origin
// and returns its index.
func (cc *CompositeCurve) AppendArc() (int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	i, _, err := cc.appendNode(cc.config.Alpha, false)
	return i, err
}

// AppendArcWithPoints adds an unattached arc with the given control points.
func (cc *CompositeCurve) AppendArcWithPoints(points []Vec) (int, error) {
	if len(points) != PointCount {
		return 0, fmt.Errorf("%w: got %d control points, need %d", ErrInvalidPoint, len(points), PointCount)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	i, node, err := cc.appendNode(cc.config.Alpha, false)
	if err != nil {
		return 0, err
	}
	if err := node.Arc.SetPoints(points); err != nil {
		return 0, err
	}
	return i, nil
}

// ArcCount returns the number of arcs.
func (cc *CompositeCurve) ArcCount() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.nodes)
}

// Node returns a copy of arc i. Edits to the copy do not reach the
// composite; the image is shared and must be treated as read-only.
func (cc *CompositeCurve) Node(i int) (*ArcNode, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.checkIndex(i); err != nil {
		return nil, err
	}
	node := *cc.nodes[i]
	node.Arc = node.Arc.Clone()
	return &node, nil
}

func (cc *CompositeCurve) checkIndex(i int) error {
	if i < 0 || i >= len(cc.nodes) {
		return fmt.Errorf("%w: arc %d (have %d)", ErrIndexOutOfRange, i, len(cc.nodes))
	}
	return nil
}

func (cc *CompositeCurve) checkPoint(i, k int) error {
	if err := cc.checkIndex(i); err != nil {
		return err
	}
	if k < 0 || k >= PointCount {
		return fmt.Errorf("%w: point %d of arc %d", ErrInvalidPoint, k, i)
	}
	return nil
}

// ArcPoint returns control point k of arc i.
func (cc *CompositeCurve) ArcPoint(i, k int) (Vec, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.checkPoint(i, k); err != nil {
		return Vec{}, err
	}
	return cc.nodes[i].Arc.Point(k), nil
}

// SetArcPoint assigns control point k of arc i. Neighbours are not updated.
func (cc *CompositeCurve) SetArcPoint(i, k int, p Vec) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.checkPoint(i, k); err != nil {
		return err
	}
	cc.nodes[i].Arc.SetPoint(k, p)
	return nil
}

// SetArcAlpha changes the shape parameter of arc i.
func (cc *CompositeCurve) SetArcAlpha(i int, alpha float64) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.checkIndex(i); err != nil {
		return err
	}
	return cc.nodes[i].Arc.SetAlpha(alpha)
}

// Neighbour returns the arc attached to side s of arc i and which of its
// sides faces back. ok is false when nothing is attached.
func (cc *CompositeCurve) Neighbour(i int, s Side) (index int, facing Side, ok bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	l, ok := cc.graph.Neighbour(i, int(s))
	if !ok {
		return -1, 0, false
	}
	return l.Node, Side(l.Side), true
}

// reject logs and wraps a refused topology request.
func (cc *CompositeCurve) reject(op string, err error, args ...any) error {
	cc.logger.Warn(op+" rejected", append(args, "error", err)...)
	return fmt.Errorf("%w: %s: %w", ErrInvalidTopology, op, err)
}

// mustConnect links two sides that were validated beforehand.
func mustConnect(g *topology.Graph, a, sa, b, sb int) {
	if err := g.Connect(a, sa, b, sb); err != nil {
		panic(fmt.Sprintf("cagd: connecting validated sides failed: %v", err))
	}
}

// JoinArcs inserts a bridge arc between side dir1 of arc i1 and side dir2
// of arc i2. The bridge starts at the first edge point and ends at the
// second, with its inner control points mirrored through those edge points
// so the tangents line up. Its left side faces i1 and its right side i2.
//
// Both sides must be free. On failure nothing changes.
func (cc *CompositeCurve) JoinArcs(i1 int, dir1 Side, i2 int, dir2 Side) (int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	args := []any{"arc1", i1, "side1", dir1, "arc2", i2, "side2", dir2}
	if err := cc.graph.CanConnect(i1, int(dir1), i2, int(dir2)); err != nil {
		return -1, cc.reject("join arcs", err, args...)
	}

	n, bridge, err := cc.appendNode(cc.config.Alpha, true)
	if err != nil {
		return -1, err
	}

	e1, in1 := cc.nodes[i1].Arc.Edge(dir1)
	e2, in2 := cc.nodes[i2].Arc.Edge(dir2)
	bridge.Arc.SetAt(Left, 0, e1)
	bridge.Arc.SetAt(Left, 1, soqah.Reflect(e1, in1))
	bridge.Arc.SetAt(Right, 0, e2)
	bridge.Arc.SetAt(Right, 1, soqah.Reflect(e2, in2))

	mustConnect(cc.graph, i1, int(dir1), n, int(Left))
	mustConnect(cc.graph, i2, int(dir2), n, int(Right))

	cc.logger.Debug("arcs joined", append(args, "bridge", n)...)
	return n, nil
}

// MergeArcs welds side dir1 of arc i1 to side dir2 of arc i2 without a
// bridge: both edge points move to the midpoint of the two interior
// neighbours, and the arcs become each other's neighbours.
//
// Both sides must be free. On failure nothing changes.
func (cc *CompositeCurve) MergeArcs(i1 int, dir1 Side, i2 int, dir2 Side) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	args := []any{"arc1", i1, "side1", dir1, "arc2", i2, "side2", dir2}
	if err := cc.graph.CanConnect(i1, int(dir1), i2, int(dir2)); err != nil {
		return cc.reject("merge arcs", err, args...)
	}

	a1, a2 := cc.nodes[i1].Arc, cc.nodes[i2].Arc
	m := soqah.Midpoint(a1.At(dir1, 1), a2.At(dir2, 1))
	a1.SetAt(dir1, 0, m)
	a2.SetAt(dir2, 0, m)

	mustConnect(cc.graph, i1, int(dir1), i2, int(dir2))

	cc.logger.Debug("arcs merged", args...)
	return nil
}

// ContinueArc appends an arc that extends side dir of arc i along its end
// tangent: the control points of the new arc are e, 2e−p, 3e−2p and 4e−3p,
// where e is the edge point and p its interior neighbour. The new arc has
// the same shape parameter and faces i with its opposite side.
//
// The side must be free. On failure nothing changes.
func (cc *CompositeCurve) ContinueArc(i int, dir Side) (int, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	args := []any{"arc", i, "side", dir}
	if err := cc.graph.Free(i, int(dir)); err != nil {
		return -1, cc.reject("continue arc", err, args...)
	}

	src := cc.nodes[i].Arc
	n, node, err := cc.appendNode(src.Alpha(), false)
	if err != nil {
		return -1, err
	}

	facing := dir.Opposite()
	e, in := src.Edge(dir)
	for depth := range PointCount {
		node.Arc.SetAt(facing, depth, soqah.Extrapolate(e, in, depth))
	}

	mustConnect(cc.graph, i, int(dir), n, int(facing))

	cc.logger.Debug("arc continued", append(args, "arc_new", n)...)
	return n, nil
}

// propagateArc rewrites side to of arc dst from side from of arc src: the
// edge point is copied and the interior neighbour mirrored through it.
func propagateArc(src *Arc, from Side, dst *Arc, to Side) {
	e, in := src.Edge(from)
	dst.SetAt(to, 0, e)
	dst.SetAt(to, 1, soqah.Reflect(e, in))
}

// linkedSides returns the verified links of node i. The caller holds the lock.
func linkedSides(g *topology.Graph, i int) ([]topology.Link, error) {
	if err := g.Check(i); err != nil {
		return nil, err
	}
	return g.Links(i), nil
}

// RefreshNeighbours pushes the edges of arc i into the arcs attached to
// them, so that each neighbour again starts at the shared edge point with
// a mirrored tangent point.
func (cc *CompositeCurve) RefreshNeighbours(i int) error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if err := cc.checkIndex(i); err != nil {
		return err
	}

	links, err := linkedSides(cc.graph, i)
	if err != nil {
		return err
	}
	for s, l := range links {
		if l.Linked() {
			propagateArc(cc.nodes[i].Arc, Side(s), cc.nodes[l.Node].Arc, Side(l.Side))
		}
	}
	return nil
}

// SettleJoins pulls every bridge arc back into agreement with the arcs it
// connects. It must run before sampling after edits that were not followed
// by RefreshNeighbours.
func (cc *CompositeCurve) SettleJoins() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.settleJoins()
}

func (cc *CompositeCurve) settleJoins() error {
	var errs []error
	for i, node := range cc.nodes {
		if !node.Synthesized {
			continue
		}
		links, err := linkedSides(cc.graph, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for s, l := range links {
			if l.Linked() {
				propagateArc(cc.nodes[l.Node].Arc, Side(l.Side), node.Arc, Side(s))
			}
		}
	}
	return errors.Join(errs...)
}

// GenerateImages resamples every arc. All arcs are attempted; the result
// reports each one.
func (cc *CompositeCurve) GenerateImages(maxOrder, samples int) Outcomes {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.generateImages(maxOrder, samples)
}

func (cc *CompositeCurve) generateImages(maxOrder, samples int) Outcomes {
	return forEachNode(len(cc.nodes), cc.config.EnableParallel, func(i int) error {
		im, err := cc.nodes[i].Arc.GenerateImage(maxOrder, samples)
		if err != nil {
			return err
		}
		cc.nodes[i].Image = im
		return nil
	})
}

// Update settles every join and then resamples every arc with the
// configured order and sample count.
func (cc *CompositeCurve) Update() Outcomes {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if err := cc.settleJoins(); err != nil {
		cc.logger.Warn("settling joins failed", "error", err)
	}
	out := cc.generateImages(cc.config.MaxOrder, cc.config.SampleCount)
	if !out.OK() {
		cc.logger.Warn("arc images failed", "arcs", out.Failed())
	}
	return out
}

// Render draws the composite through r: the control polygons when
// controlPoints is set, then the sampled arcs, then their first and second
// derivatives as far as order allows. Every arc is attempted at every
// stage; the failures are returned together.
func (cc *CompositeCurve) Render(r CurveRenderer, order int, controlPoints bool) error {
	if order < 0 || order > maxArcOrder {
		return fmt.Errorf("%w: render order %d (max %d)", ErrUnsupportedOrder, order, maxArcOrder)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	var errs []error
	if controlPoints {
		out := forEachNode(len(cc.nodes), false, func(i int) error {
			n := cc.nodes[i]
			return r.RenderControlPolygon(i, n.Arc.Points(), n.Style.Control)
		})
		errs = append(errs, out.Err())
	}

	for o := range order + 1 {
		out := forEachNode(len(cc.nodes), false, func(i int) error {
			n := cc.nodes[i]
			if n.Image == nil {
				return ErrNoImage
			}
			if o > n.Image.MaxOrder {
				return fmt.Errorf("%w: image holds order %d, render needs %d", ErrUnsupportedOrder, n.Image.MaxOrder, o)
			}
			return r.RenderCurve(i, o, n.Image, n.Style.Image[o])
		})
		if err := out.Err(); err != nil {
			errs = append(errs, fmt.Errorf("order %d: %w", o, err))
		}
	}
	return errors.Join(errs...)
}

// CheckInvariants verifies that every adjacency is mutual.
func (cc *CompositeCurve) CheckInvariants() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.graph.CheckAll()
}
