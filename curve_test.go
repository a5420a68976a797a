package cagd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cagd/internal/soqah"
	"github.com/tphakala/go-cagd/internal/testutil"
)

func TestCompositeCurve_AppendArc(t *testing.T) {
	c, _ := testConfig(t)
	cc, err := NewCompositeCurve(c)
	require.NoError(t, err)

	i, err := cc.AppendArc()
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	for _, p := range arcPoints(t, cc, 0) {
		assert.Equal(t, Vec{}, p)
	}

	j, err := cc.AppendArcWithPoints(DefaultArcPoints(1))
	require.NoError(t, err)
	assert.Equal(t, 1, j)
	assert.Equal(t, DefaultArcPoints(1), arcPoints(t, cc, 1))
	assert.Equal(t, 2, cc.ArcCount())

	_, err = cc.AppendArcWithPoints(DefaultArcPoints(0)[:3])
	require.ErrorIs(t, err, ErrInvalidPoint)
	assert.Equal(t, 2, cc.ArcCount())

	n, err := cc.Node(1)
	require.NoError(t, err)
	assert.False(t, n.Synthesized)
	assert.Nil(t, n.Image)
	assert.Equal(t, c.Style.ArcStyle(1), n.Style)

	_, err = cc.Node(2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestCompositeCurve_PointAccess(t *testing.T) {
	cc := newTestCurve(t, 1)

	require.NoError(t, cc.SetArcPoint(0, 2, Vec{X: 7}))
	p, err := cc.ArcPoint(0, 2)
	require.NoError(t, err)
	assert.Equal(t, Vec{X: 7}, p)

	_, err = cc.ArcPoint(0, 4)
	require.ErrorIs(t, err, ErrInvalidPoint)
	_, err = cc.ArcPoint(1, 0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	require.ErrorIs(t, cc.SetArcPoint(0, -1, Vec{}), ErrInvalidPoint)

	require.NoError(t, cc.SetArcAlpha(0, 2))
	n, err := cc.Node(0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, n.Arc.Alpha(), 0)
	require.ErrorIs(t, cc.SetArcAlpha(0, 0), ErrInvalidAlpha)
	n, err = cc.Node(0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, n.Arc.Alpha(), 0)
}

func TestCompositeCurve_NodeIsACopy(t *testing.T) {
	cc := newTestCurve(t, 1)
	require.True(t, cc.Update().OK())
	want := arcPoints(t, cc, 0)

	n, err := cc.Node(0)
	require.NoError(t, err)
	alpha := n.Arc.Alpha()
	n.Arc.SetPoint(0, Vec{X: 42})
	require.NoError(t, n.Arc.SetAlpha(alpha+1))
	n.Synthesized = true
	n.Style = ArcStyle{}

	assert.Equal(t, want, arcPoints(t, cc, 0))
	again, err := cc.Node(0)
	require.NoError(t, err)
	assert.InDelta(t, alpha, again.Arc.Alpha(), 0)
	assert.False(t, again.Synthesized)
	assert.NotEqual(t, ArcStyle{}, again.Style)
	assert.Same(t, n.Image, again.Image)
}

func TestCompositeCurve_JoinRoundTrip(t *testing.T) {
	cc := newTestCurve(t, 2)
	a0, a1 := arcPoints(t, cc, 0), arcPoints(t, cc, 1)

	n, err := cc.JoinArcs(0, Left, 1, Left)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, cc.ArcCount())

	b := arcPoints(t, cc, n)
	assert.Equal(t, a0[0], b[0])
	assert.Equal(t, soqah.Reflect(a0[0], a0[1]), b[1])
	assert.Equal(t, soqah.Reflect(a1[0], a1[1]), b[2])
	assert.Equal(t, a1[0], b[3])

	// the joined arcs are untouched
	assert.Equal(t, a0, arcPoints(t, cc, 0))
	assert.Equal(t, a1, arcPoints(t, cc, 1))

	node, err := cc.Node(n)
	require.NoError(t, err)
	assert.True(t, node.Synthesized)

	idx, facing, ok := cc.Neighbour(0, Left)
	require.True(t, ok)
	assert.Equal(t, n, idx)
	assert.Equal(t, Left, facing)

	idx, facing, ok = cc.Neighbour(1, Left)
	require.True(t, ok)
	assert.Equal(t, n, idx)
	assert.Equal(t, Right, facing)

	idx, facing, ok = cc.Neighbour(n, Right)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, Left, facing)

	_, _, ok = cc.Neighbour(0, Right)
	assert.False(t, ok)

	require.NoError(t, cc.CheckInvariants())
}

func TestCompositeCurve_JoinIsTangentContinuous(t *testing.T) {
	cc := newTestCurve(t, 2)
	n, err := cc.JoinArcs(0, Right, 1, Left)
	require.NoError(t, err)

	first, err := cc.Node(0)
	require.NoError(t, err)
	bridge, err := cc.Node(n)
	require.NoError(t, err)
	second, err := cc.Node(1)
	require.NoError(t, err)

	end, err := first.Arc.Derivatives(1, first.Arc.Alpha())
	require.NoError(t, err)
	start, err := bridge.Arc.Derivatives(1, 0)
	require.NoError(t, err)
	testutil.AssertVecInDelta(t, end[0], start[0], testutil.PartitionTolerance)
	testutil.AssertVecInDelta(t, end[1], start[1], testutil.PartitionTolerance)

	end, err = bridge.Arc.Derivatives(1, bridge.Arc.Alpha())
	require.NoError(t, err)
	start, err = second.Arc.Derivatives(1, 0)
	require.NoError(t, err)
	testutil.AssertVecInDelta(t, end[0], start[0], testutil.PartitionTolerance)
	testutil.AssertVecInDelta(t, end[1], start[1], testutil.PartitionTolerance)
}

func TestCompositeCurve_JoinRejections(t *testing.T) {
	tests := []struct {
		name   string
		i1     int
		dir1   Side
		i2     int
		dir2   Side
		target error
	}{
		{"second index out of range", 0, Left, 999, Left, ErrIndexOutOfRange},
		{"first index negative", -1, Left, 0, Right, ErrIndexOutOfRange},
		{"invalid side", 0, Side(7), 0, Right, ErrInvalidSide},
		{"same side twice", 0, Left, 0, Left, ErrSameSide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, logs := testConfig(t)
			cc, err := NewDemoCurve(c, 1)
			require.NoError(t, err)
			before := arcPoints(t, cc, 0)

			n, err := cc.JoinArcs(tt.i1, tt.dir1, tt.i2, tt.dir2)
			require.ErrorIs(t, err, ErrInvalidTopology)
			require.ErrorIs(t, err, tt.target)
			assert.Equal(t, -1, n)

			assert.Equal(t, 1, cc.ArcCount())
			assert.Equal(t, before, arcPoints(t, cc, 0))
			assert.Contains(t, logs.String(), "join arcs rejected")
			require.NoError(t, cc.CheckInvariants())
		})
	}
}

func TestCompositeCurve_JoinOccupiedSide(t *testing.T) {
	cc := newTestCurve(t, 3)

	bridge, err := cc.JoinArcs(0, Right, 1, Left)
	require.NoError(t, err)

	_, err = cc.JoinArcs(0, Right, 2, Left)
	require.ErrorIs(t, err, ErrSideOccupied)
	assert.Equal(t, 4, cc.ArcCount())

	idx, _, ok := cc.Neighbour(0, Right)
	require.True(t, ok)
	assert.Equal(t, bridge, idx)
	_, _, ok = cc.Neighbour(2, Left)
	assert.False(t, ok)
}

func TestCompositeCurve_JoinClosesLoop(t *testing.T) {
	cc := newTestCurve(t, 1)

	n, err := cc.JoinArcs(0, Right, 0, Left)
	require.NoError(t, err)
	require.NoError(t, cc.CheckInvariants())

	a := arcPoints(t, cc, 0)
	b := arcPoints(t, cc, n)
	assert.Equal(t, a[3], b[0])
	assert.Equal(t, a[0], b[3])
}

func TestCompositeCurve_MergeArcs(t *testing.T) {
	cc := newTestCurve(t, 2)
	a0, a1 := arcPoints(t, cc, 0), arcPoints(t, cc, 1)

	require.NoError(t, cc.MergeArcs(0, Right, 1, Left))
	assert.Equal(t, 2, cc.ArcCount())

	m := Vec{X: 0, Y: 1, Z: 2.5}
	testutil.AssertVecInDelta(t, soqah.Midpoint(a0[2], a1[1]), m, 0)

	got0, got1 := arcPoints(t, cc, 0), arcPoints(t, cc, 1)
	assert.Equal(t, m, got0[3])
	assert.Equal(t, m, got1[0])
	assert.Equal(t, a0[:3], got0[:3])
	assert.Equal(t, a1[1:], got1[1:])

	idx, facing, ok := cc.Neighbour(0, Right)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, Left, facing)

	err := cc.MergeArcs(1, Left, 0, Left)
	require.ErrorIs(t, err, ErrInvalidTopology)
	require.ErrorIs(t, err, ErrSideOccupied)
	require.NoError(t, cc.CheckInvariants())
}

func TestCompositeCurve_ContinueArc(t *testing.T) {
	tests := []struct {
		name   string
		dir    Side
		facing Side
		want   []Vec
	}{
		{"right", Right, Left, []Vec{
			{X: -1, Y: -1}, {X: -1, Y: -3}, {X: -1, Y: -5}, {X: -1, Y: -7},
		}},
		{"left", Left, Right, []Vec{
			{X: 1, Y: -3}, {X: 1, Y: -2}, {X: 1, Y: -1}, {X: 1, Y: 0},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := newTestCurve(t, 1)
			require.NoError(t, cc.SetArcAlpha(0, 2))

			n, err := cc.ContinueArc(0, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, tt.want, arcPoints(t, cc, n))

			node, err := cc.Node(n)
			require.NoError(t, err)
			assert.InDelta(t, 2.0, node.Arc.Alpha(), 0)
			assert.False(t, node.Synthesized)

			idx, facing, ok := cc.Neighbour(0, tt.dir)
			require.True(t, ok)
			assert.Equal(t, n, idx)
			assert.Equal(t, tt.facing, facing)

			_, err = cc.ContinueArc(0, tt.dir)
			require.ErrorIs(t, err, ErrSideOccupied)
			assert.Equal(t, 2, cc.ArcCount())
		})
	}
}

func TestCompositeCurve_ContinueInvalidIndex(t *testing.T) {
	cc := newTestCurve(t, 1)
	_, err := cc.ContinueArc(3, Left)
	require.ErrorIs(t, err, ErrInvalidTopology)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 1, cc.ArcCount())
}

func TestCompositeCurve_RefreshNeighbours(t *testing.T) {
	cc := newTestCurve(t, 2)
	n, err := cc.JoinArcs(0, Right, 1, Left)
	require.NoError(t, err)

	require.NoError(t, cc.SetArcPoint(0, 3, Vec{X: 3, Y: 3, Z: 3}))
	require.NoError(t, cc.SetArcPoint(0, 2, Vec{X: 2, Y: 2, Z: 2}))

	// edits do not propagate by themselves
	b, err := cc.ArcPoint(n, 0)
	require.NoError(t, err)
	assert.Equal(t, Vec{X: -1, Y: -1}, b)

	require.NoError(t, cc.RefreshNeighbours(0))
	first := arcPoints(t, cc, n)
	assert.Equal(t, Vec{X: 3, Y: 3, Z: 3}, first[0])
	assert.Equal(t, Vec{X: 4, Y: 4, Z: 4}, first[1])

	require.NoError(t, cc.RefreshNeighbours(0))
	assert.Equal(t, first, arcPoints(t, cc, n))

	require.ErrorIs(t, cc.RefreshNeighbours(9), ErrIndexOutOfRange)
}

func TestCompositeCurve_RefreshUsesFacingSide(t *testing.T) {
	cc := newTestCurve(t, 2)
	require.NoError(t, cc.MergeArcs(0, Left, 1, Left))

	require.NoError(t, cc.SetArcPoint(0, 0, Vec{X: 5}))
	require.NoError(t, cc.RefreshNeighbours(0))

	a0, a1 := arcPoints(t, cc, 0), arcPoints(t, cc, 1)
	assert.Equal(t, a0[0], a1[0])
	assert.Equal(t, soqah.Reflect(a0[0], a0[1]), a1[1])
	assert.Equal(t, DefaultArcPoints(1)[2:], a1[2:])
}

func TestCompositeCurve_RefreshKeepsMergedBoundary(t *testing.T) {
	cc := newTestCurve(t, 2)
	require.NoError(t, cc.MergeArcs(0, Right, 1, Left))
	merged := arcPoints(t, cc, 1)

	require.NoError(t, cc.RefreshNeighbours(0))
	got := arcPoints(t, cc, 1)
	testutil.AssertVecInDelta(t, merged[0], got[0], 0)
}

func TestCompositeCurve_UpdateSettlesJoins(t *testing.T) {
	cc := newTestCurve(t, 2)
	n, err := cc.JoinArcs(0, Right, 1, Left)
	require.NoError(t, err)

	require.NoError(t, cc.SetArcPoint(1, 0, Vec{X: 9, Y: 9, Z: 9}))

	out := cc.Update()
	require.True(t, out.OK(), "%v", out.Err())
	assert.Len(t, out, 3)

	b := arcPoints(t, cc, n)
	assert.Equal(t, Vec{X: 9, Y: 9, Z: 9}, b[3])
	assert.Equal(t, soqah.Reflect(Vec{X: 9, Y: 9, Z: 9}, DefaultArcPoints(1)[1]), b[2])

	// settling never rewrites user arcs
	assert.Equal(t, Vec{X: 9, Y: 9, Z: 9}, arcPoints(t, cc, 1)[0])

	for i := range 3 {
		node, err := cc.Node(i)
		require.NoError(t, err)
		require.NotNil(t, node.Image)
		assert.Equal(t, 40, node.Image.Len())
		assert.Equal(t, 2, node.Image.MaxOrder)
	}
}

func TestCompositeCurve_GenerateImagesReportsEveryArc(t *testing.T) {
	cc := newTestCurve(t, 3)

	out := cc.GenerateImages(3, 10)
	assert.False(t, out.OK())
	assert.Equal(t, []int{0, 1, 2}, out.Failed())
	require.ErrorIs(t, out.Err(), ErrUnsupportedOrder)

	out = cc.GenerateImages(1, 10)
	require.True(t, out.OK())
	node, err := cc.Node(2)
	require.NoError(t, err)
	assert.Equal(t, 10, node.Image.Len())
}

func TestCompositeCurve_Render(t *testing.T) {
	cc := newTestCurve(t, 2)
	r := newRecordingRenderer()

	require.ErrorIs(t, cc.Render(r, 0, false), ErrNoImage)

	require.True(t, cc.Update().OK())
	r = newRecordingRenderer()
	require.NoError(t, cc.Render(r, 2, true))

	assert.Equal(t, []string{
		"0:polygon/4", "1:polygon/4",
		"0:curve/0/40", "1:curve/0/40",
		"0:curve/1/40", "1:curve/1/40",
		"0:curve/2/40", "1:curve/2/40",
	}, r.calls)

	require.ErrorIs(t, cc.Render(r, 3, false), ErrUnsupportedOrder)
	require.ErrorIs(t, cc.Render(r, -1, false), ErrUnsupportedOrder)
}

func TestCompositeCurve_RenderAttemptsEveryArc(t *testing.T) {
	cc := newTestCurve(t, 3)
	require.True(t, cc.Update().OK())

	r := newRecordingRenderer()
	r.failNode = 1
	err := cc.Render(r, 1, true)
	require.ErrorIs(t, err, errRenderFailed)

	assert.Len(t, r.calls, 9)
	assert.Equal(t, 1, r.count("2:curve/1/40"))
}

func TestCompositeCurve_RenderBeyondSampledOrder(t *testing.T) {
	c, _ := testConfig(t)
	c.MaxOrder = 0
	cc, err := NewDemoCurve(c, 1)
	require.NoError(t, err)
	require.True(t, cc.Update().OK())

	r := newRecordingRenderer()
	require.ErrorIs(t, cc.Render(r, 1, false), ErrUnsupportedOrder)
	assert.Equal(t, []string{"0:curve/0/40"}, r.calls)
}

func TestCompositeCurve_ParallelMatchesSequential(t *testing.T) {
	build := func(parallel bool) *CompositeCurve {
		c, _ := testConfig(t)
		c.EnableParallel = parallel
		cc, err := NewDemoCurve(c, 6)
		require.NoError(t, err)
		_, err = cc.JoinArcs(0, Right, 1, Left)
		require.NoError(t, err)
		_, err = cc.ContinueArc(2, Left)
		require.NoError(t, err)
		require.True(t, cc.Update().OK())
		return cc
	}

	seq, par := build(false), build(true)
	require.Equal(t, seq.ArcCount(), par.ArcCount())
	for i := range seq.ArcCount() {
		a, err := seq.Node(i)
		require.NoError(t, err)
		b, err := par.Node(i)
		require.NoError(t, err)
		assert.Equal(t, a.Image, b.Image, "arc %d", i)
	}
}

func BenchmarkCompositeCurve_Update(b *testing.B) {
	for _, parallel := range []bool{false, true} {
		name := "sequential"
		if parallel {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			c := DefaultConfig()
			c.EnableParallel = parallel
			cc, err := NewDemoCurve(c, 64)
			if err != nil {
				b.Fatal(err)
			}
			for b.Loop() {
				if out := cc.Update(); !out.OK() {
					b.Fatal(out.Err())
				}
			}
		})
	}
}
