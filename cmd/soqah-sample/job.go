package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tphakala/go-cagd"
	"gopkg.in/yaml.v3"
)

// job is the document read by -in: a starting scene and the topology
// operations to apply to it, in order. A plain scene file is a job with no
// operations.
type job struct {
	cagd.Scene `yaml:",inline"`
	Ops        []operation `yaml:"ops,omitempty"`
}

// operation is one editing step. Which fields are used depends on Op:
//
//	join-arcs, merge-arcs        node, side, other, other_side
//	continue-arc                 node, side
//	join-patches, merge-patches  node, edge, other, other_edge
//	continue-patch               node, edge
//	set-arc-point                node, index: [k], point
//	set-patch-point              node, index: [row, col], point
//	set-arc-alpha                node, alpha
//	set-patch-alpha              node, alpha
//	set-material                 node, material
//	refresh-arc, refresh-patch   node
type operation struct {
	Op        string         `yaml:"op"`
	Node      int            `yaml:"node"`
	Side      cagd.Side      `yaml:"side,omitempty"`
	Other     int            `yaml:"other,omitempty"`
	OtherSide cagd.Side      `yaml:"other_side,omitempty"`
	Edge      cagd.Direction `yaml:"edge,omitempty"`
	OtherEdge cagd.Direction `yaml:"other_edge,omitempty"`
	Index     []int          `yaml:"index,omitempty,flow"`
	Point     *cagd.Point    `yaml:"point,omitempty,flow"`
	Alpha     float64        `yaml:"alpha,omitempty"`
	Material  int            `yaml:"material,omitempty"`
}

var (
	errUnknownOp   = errors.New("unknown operation")
	errMissingData = errors.New("missing operation data")
)

// loadJob reads a job file.
func loadJob(path string) (*job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return decodeJob(f)
}

func decodeJob(r io.Reader) (*job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var j job
	if err := dec.Decode(&j); err != nil {
		return nil, fmt.Errorf("invalid job file: %w", err)
	}
	return &j, nil
}

// demoJob lays out arcs demo arcs and patches demo patches and joins each
// consecutive pair with a bridge.
func demoJob(arcs, patches int, alpha float64) *job {
	j := &job{Scene: cagd.Scene{
		Curve:   &cagd.CurveSnapshot{},
		Surface: &cagd.SurfaceSnapshot{},
	}}

	for i := range arcs {
		rec := cagd.ArcRecord{Alpha: alpha}
		for _, p := range cagd.DefaultArcPoints(i) {
			rec.Points = append(rec.Points, cagd.PointOf(p))
		}
		j.Scene.Curve.Arcs = append(j.Scene.Curve.Arcs, rec)
		if i > 0 {
			j.Ops = append(j.Ops, operation{
				Op: "join-arcs", Node: i - 1, Side: cagd.Right, Other: i, OtherSide: cagd.Left,
			})
		}
	}

	for i := range patches {
		rec := cagd.PatchRecord{Alpha: alpha}
		for _, row := range cagd.DefaultPatchPoints(i) {
			r := make([]cagd.Point, len(row))
			for k, p := range row {
				r[k] = cagd.PointOf(p)
			}
			rec.Points = append(rec.Points, r)
		}
		j.Scene.Surface.Patches = append(j.Scene.Surface.Patches, rec)
		if i > 0 {
			j.Ops = append(j.Ops, operation{
				Op: "join-patches", Node: i - 1, Edge: cagd.South, Other: i, OtherEdge: cagd.North,
			})
		}
	}
	return j
}

// build restores the composites of the job's scene.
func (j *job) build(config *cagd.Config) (*cagd.CompositeCurve, *cagd.CompositeSurface, error) {
	cc, err := cagd.RestoreCompositeCurve(config, j.Scene.Curve)
	if err != nil {
		return nil, nil, fmt.Errorf("restoring curve: %w", err)
	}
	cs, err := cagd.RestoreCompositeSurface(config, j.Scene.Surface)
	if err != nil {
		return nil, nil, fmt.Errorf("restoring surface: %w", err)
	}
	return cc, cs, nil
}

// apply runs every operation and stops at the first failure.
func (j *job) apply(cc *cagd.CompositeCurve, cs *cagd.CompositeSurface) error {
	for n, op := range j.Ops {
		if err := op.apply(cc, cs); err != nil {
			return fmt.Errorf("operation %d (%s): %w", n, op.Op, err)
		}
	}
	return nil
}

func (op *operation) apply(cc *cagd.CompositeCurve, cs *cagd.CompositeSurface) error {
	var err error
	switch op.Op {
	case "join-arcs":
		_, err = cc.JoinArcs(op.Node, op.Side, op.Other, op.OtherSide)
	case "merge-arcs":
		err = cc.MergeArcs(op.Node, op.Side, op.Other, op.OtherSide)
	case "continue-arc":
		_, err = cc.ContinueArc(op.Node, op.Side)
	case "refresh-arc":
		err = cc.RefreshNeighbours(op.Node)
	case "set-arc-alpha":
		err = cc.SetArcAlpha(op.Node, op.Alpha)
	case "set-arc-point":
		if op.Point == nil || len(op.Index) != 1 {
			return fmt.Errorf("%w: need index [k] and point", errMissingData)
		}
		err = cc.SetArcPoint(op.Node, op.Index[0], op.Point.Vec())
	case "join-patches":
		_, err = cs.JoinPatches(op.Node, op.Edge, op.Other, op.OtherEdge)
	case "merge-patches":
		err = cs.MergePatches(op.Node, op.Edge, op.Other, op.OtherEdge)
	case "continue-patch":
		_, err = cs.ContinuePatch(op.Node, op.Edge)
	case "refresh-patch":
		err = cs.RefreshNeighbours(op.Node)
	case "set-patch-alpha":
		err = cs.SetPatchAlpha(op.Node, op.Alpha)
	case "set-patch-point":
		if op.Point == nil || len(op.Index) != 2 {
			return fmt.Errorf("%w: need index [row, col] and point", errMissingData)
		}
		err = cs.SetPatchPoint(op.Node, op.Index[0], op.Index[1], op.Point.Vec())
	case "set-material":
		err = cs.SetMaterialIndex(op.Node, op.Material)
	default:
		return fmt.Errorf("%w: %q", errUnknownOp, op.Op)
	}
	return err
}
