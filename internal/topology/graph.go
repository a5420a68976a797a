// Package topology keeps the adjacency of composite curves and surfaces.
//
// Nodes live in an append-only arena and are addressed by their insertion
// index, which never changes and is never reused. Each node has a fixed
// number of sides; a side is either free or linked to exactly one side of
// another (or the same) node, and every link is stored on both ends.
package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange indicates a node index not present in the arena.
	ErrIndexOutOfRange = errors.New("node index out of range")

	// ErrInvalidSide indicates a side number the arena does not have.
	ErrInvalidSide = errors.New("invalid side")

	// ErrSideOccupied indicates a side that is already linked.
	ErrSideOccupied = errors.New("side already linked")

	// ErrSameSide indicates a request to link a side to itself.
	ErrSameSide = errors.New("cannot link a side to itself")

	// ErrDanglingLink indicates a link whose far end does not point back.
	ErrDanglingLink = errors.New("dangling link")
)

// Link is one end of an adjacency: the neighbouring node and which of its
// sides faces back.
type Link struct {
	Node int
	Side int
}

// NoLink marks a free side.
var NoLink = Link{Node: -1, Side: -1}

// Linked reports whether l refers to a node.
func (l Link) Linked() bool {
	return l.Node >= 0
}

// Graph is an append-only adjacency arena. It is not safe for concurrent use.
type Graph struct {
	sides int
	links [][]Link
}

// New creates an empty arena whose nodes have the given number of sides.
func New(sides, capacity int) *Graph {
	return &Graph{
		sides: sides,
		links: make([][]Link, 0, max(capacity, 0)),
	}
}

// Sides returns the number of sides per node.
func (g *Graph) Sides() int {
	return g.sides
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.links)
}

// Contains reports whether i is a node index.
func (g *Graph) Contains(i int) bool {
	return i >= 0 && i < len(g.links)
}

// Add appends an unlinked node and returns its index.
func (g *Graph) Add() int {
	l := make([]Link, g.sides)
	for s := range l {
		l[s] = NoLink
	}
	g.links = append(g.links, l)
	return len(g.links) - 1
}

// Neighbour returns the link on side s of node i. The second result is false
// when the side is free or the arguments are out of range.
func (g *Graph) Neighbour(i, s int) (Link, bool) {
	if !g.Contains(i) || s < 0 || s >= g.sides {
		return NoLink, false
	}
	l := g.links[i][s]
	return l, l.Linked()
}

// Links returns a copy of every side of node i.
func (g *Graph) Links(i int) []Link {
	if !g.Contains(i) {
		return nil
	}
	return append([]Link(nil), g.links[i]...)
}

func (g *Graph) check(i, s int) error {
	if !g.Contains(i) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(g.links))
	}
	if s < 0 || s >= g.sides {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidSide, s, g.sides)
	}
	return nil
}

// Free returns nil if side s of node i exists and is not linked.
func (g *Graph) Free(i, s int) error {
	if err := g.check(i, s); err != nil {
		return err
	}
	if l := g.links[i][s]; l.Linked() {
		return fmt.Errorf("%w: node %d side %d links node %d", ErrSideOccupied, i, s, l.Node)
	}
	return nil
}

// CanConnect reports, without mutating anything, why Connect(a, sa, b, sb)
// would fail.
func (g *Graph) CanConnect(a, sa, b, sb int) error {
	if err := g.Free(a, sa); err != nil {
		return err
	}
	if err := g.Free(b, sb); err != nil {
		return err
	}
	if a == b && sa == sb {
		return fmt.Errorf("%w: node %d side %d", ErrSameSide, a, sa)
	}
	return nil
}

// Connect links side sa of node a with side sb of node b. Both sides must be
// free. On failure nothing changes.
func (g *Graph) Connect(a, sa, b, sb int) error {
	if err := g.CanConnect(a, sa, b, sb); err != nil {
		return err
	}
	g.links[a][sa] = Link{Node: b, Side: sb}
	g.links[b][sb] = Link{Node: a, Side: sa}
	return nil
}

// Check verifies that every link of node i points at an existing node whose
// facing side links back to i.
func (g *Graph) Check(i int) error {
	if !g.Contains(i) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(g.links))
	}
	for s, l := range g.links[i] {
		if !l.Linked() {
			continue
		}
		if !g.Contains(l.Node) || l.Side < 0 || l.Side >= g.sides {
			return fmt.Errorf("%w: node %d side %d targets node %d side %d", ErrDanglingLink, i, s, l.Node, l.Side)
		}
		if l.Node == i && l.Side == s {
			return fmt.Errorf("%w: node %d side %d", ErrSameSide, i, s)
		}
		if back := g.links[l.Node][l.Side]; back != (Link{Node: i, Side: s}) {
			return fmt.Errorf("%w: node %d side %d targets node %d side %d, which links node %d side %d",
				ErrDanglingLink, i, s, l.Node, l.Side, back.Node, back.Side)
		}
	}
	return nil
}

// CheckAll runs Check on every node and joins the failures.
func (g *Graph) CheckAll() error {
	var errs []error
	for i := range g.links {
		if err := g.Check(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Restore rebuilds an arena from per-node links, as produced by Links. A
// negative Node marks a free side. The result is rejected unless every
// link is mutual.
func Restore(sides int, links [][]Link) (*Graph, error) {
	g := New(sides, len(links))
	for i, row := range links {
		if len(row) != sides {
			return nil, fmt.Errorf("%w: node %d has %d sides, need %d", ErrInvalidSide, i, len(row), sides)
		}
		g.Add()
		for s, l := range row {
			if l.Linked() {
				g.links[i][s] = l
			}
		}
	}
	if err := g.CheckAll(); err != nil {
		return nil, err
	}
	return g, nil
}
