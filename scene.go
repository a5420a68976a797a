package cagd

import (
	"fmt"
	"io"

	"github.com/tphakala/go-cagd/internal/soqah"
	"github.com/tphakala/go-cagd/internal/topology"
	"gopkg.in/yaml.v3"
)

// Point is the serialized form of a control point.
type Point [3]float64

// PointOf converts v to its serialized form.
func PointOf(v Vec) Point {
	return Point{v.X, v.Y, v.Z}
}

// Vec converts p back to a vector.
func (p Point) Vec() Vec {
	return Vec{X: p[0], Y: p[1], Z: p[2]}
}

// Scene is a serializable snapshot of a composite curve and a composite
// surface. Either part may be absent.
type Scene struct {
	Curve   *CurveSnapshot   `yaml:"curve,omitempty"`
	Surface *SurfaceSnapshot `yaml:"surface,omitempty"`
}

// CurveSnapshot records every arc of a composite curve in index order.
type CurveSnapshot struct {
	Arcs []ArcRecord `yaml:"arcs"`
}

// ArcRecord is one arc and its links.
type ArcRecord struct {
	Alpha       float64   `yaml:"alpha"`
	Points      []Point   `yaml:"points,flow"`
	Links       []ArcLink `yaml:"links,omitempty"`
	Synthesized bool      `yaml:"synthesized,omitempty"`
}

// ArcLink attaches side Side of the owning arc to side Facing of arc Arc.
type ArcLink struct {
	Side   Side `yaml:"side"`
	Arc    int  `yaml:"arc"`
	Facing Side `yaml:"facing"`
}

// SurfaceSnapshot records every patch of a composite surface in index order.
type SurfaceSnapshot struct {
	Patches []PatchRecord `yaml:"patches"`
}

// PatchRecord is one patch, its material and its links. Points holds the
// grid row by row.
type PatchRecord struct {
	Alpha       float64     `yaml:"alpha"`
	Points      [][]Point   `yaml:"points,flow"`
	Material    int         `yaml:"material"`
	Links       []PatchLink `yaml:"links,omitempty"`
	Synthesized bool        `yaml:"synthesized,omitempty"`
}

// PatchLink attaches edge Edge of the owning patch to edge Facing of patch
// Patch.
type PatchLink struct {
	Edge   Direction `yaml:"edge"`
	Patch  int       `yaml:"patch"`
	Facing Direction `yaml:"facing"`
}

// WriteScene encodes s as YAML.
func WriteScene(w io.Writer, s *Scene) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return enc.Close()
}

// ReadScene decodes a YAML scene. Unknown fields are rejected.
func ReadScene(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return &s, nil
}

// Snapshot records the current arcs and adjacency.
func (cc *CompositeCurve) Snapshot() *CurveSnapshot {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	snap := &CurveSnapshot{Arcs: make([]ArcRecord, len(cc.nodes))}
	for i, n := range cc.nodes {
		rec := ArcRecord{Alpha: n.Arc.Alpha(), Synthesized: n.Synthesized}
		for _, p := range n.Arc.Points() {
			rec.Points = append(rec.Points, PointOf(p))
		}
		for s, l := range cc.graph.Links(i) {
			if l.Linked() {
				rec.Links = append(rec.Links, ArcLink{Side: Side(s), Arc: l.Node, Facing: Side(l.Side)})
			}
		}
		snap.Arcs[i] = rec
	}
	return snap
}

// Snapshot records the current patches, materials and adjacency.
func (cs *CompositeSurface) Snapshot() *SurfaceSnapshot {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	snap := &SurfaceSnapshot{Patches: make([]PatchRecord, len(cs.nodes))}
	for i, n := range cs.nodes {
		rec := PatchRecord{Alpha: n.Patch.Alpha(), Material: n.Material, Synthesized: n.Synthesized}
		for _, row := range n.Patch.Points() {
			r := make([]Point, len(row))
			for k, p := range row {
				r[k] = PointOf(p)
			}
			rec.Points = append(rec.Points, r)
		}
		for d, l := range cs.graph.Links(i) {
			if l.Linked() {
				rec.Links = append(rec.Links, PatchLink{Edge: Direction(d), Patch: l.Node, Facing: Direction(l.Side)})
			}
		}
		snap.Patches[i] = rec
	}
	return snap
}

// newLinkTable returns n rows of sides free links.
func newLinkTable(n, sides int) [][]topology.Link {
	links := make([][]topology.Link, n)
	for i := range links {
		links[i] = make([]topology.Link, sides)
		for s := range links[i] {
			links[i][s] = topology.NoLink
		}
	}
	return links
}

// setLink records one end of a link, rejecting a side listed twice.
func setLink(links [][]topology.Link, i, side, node, facing, sides int) error {
	if side < 0 || side >= sides || facing < 0 || facing >= sides {
		return fmt.Errorf("%w: node %d side %d to side %d", ErrInvalidSide, i, side, facing)
	}
	if node < 0 {
		return fmt.Errorf("%w: node %d side %d targets node %d", ErrIndexOutOfRange, i, side, node)
	}
	if links[i][side].Linked() {
		return fmt.Errorf("%w: node %d side %d listed twice", ErrSideOccupied, i, side)
	}
	links[i][side] = topology.Link{Node: node, Side: facing}
	return nil
}

// RestoreCompositeCurve rebuilds a composite curve from a snapshot. The
// links must be mutual; nothing is returned otherwise.
func RestoreCompositeCurve(config *Config, snap *CurveSnapshot) (*CompositeCurve, error) {
	cc, err := NewCompositeCurve(config)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return cc, nil
	}

	links := newLinkTable(len(snap.Arcs), soqah.SideCount)
	for i, rec := range snap.Arcs {
		if len(rec.Points) != PointCount {
			return nil, fmt.Errorf("arc %d: %w: got %d control points, need %d", i, ErrInvalidPoint, len(rec.Points), PointCount)
		}
		_, node, err := cc.appendNode(rec.Alpha, rec.Synthesized)
		if err != nil {
			return nil, fmt.Errorf("arc %d: %w", i, err)
		}
		for k, p := range rec.Points {
			node.Arc.SetPoint(k, p.Vec())
		}
		for _, l := range rec.Links {
			if err := setLink(links, i, int(l.Side), l.Arc, int(l.Facing), soqah.SideCount); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, err)
			}
		}
	}

	g, err := topology.Restore(soqah.SideCount, links)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, err)
	}
	cc.graph = g
	return cc, nil
}

// RestoreCompositeSurface rebuilds a composite surface from a snapshot. The
// links must be mutual and every material known; nothing is returned
// otherwise.
func RestoreCompositeSurface(config *Config, snap *SurfaceSnapshot) (*CompositeSurface, error) {
	cs, err := NewCompositeSurface(config)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return cs, nil
	}

	links := newLinkTable(len(snap.Patches), soqah.DirectionCount)
	for i, rec := range snap.Patches {
		grid := make([][]Vec, len(rec.Points))
		for r, row := range rec.Points {
			grid[r] = make([]Vec, len(row))
			for c, p := range row {
				grid[r][c] = p.Vec()
			}
		}
		if err := checkGrid(grid); err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		if rec.Material < 0 || rec.Material >= cs.config.MaterialCount {
			return nil, fmt.Errorf("patch %d: %w: %d", i, ErrInvalidMaterial, rec.Material)
		}

		_, node, err := cs.appendNode(rec.Alpha, rec.Synthesized)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		if err := node.Patch.SetPoints(grid); err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		node.Material = rec.Material

		for _, l := range rec.Links {
			if err := setLink(links, i, int(l.Edge), l.Patch, int(l.Facing), soqah.DirectionCount); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, err)
			}
		}
	}

	g, err := topology.Restore(soqah.DirectionCount, links)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTopology, err)
	}
	cs.graph = g
	return cs, nil
}
