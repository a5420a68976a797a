package soqah

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cagd/internal/mathutil"
	"github.com/tphakala/go-cagd/internal/testutil"
	"gonum.org/v1/gonum/spatial/r3"
)

// gridPoint labels every cell with its own coordinates so that line
// addressing can be checked by value.
func gridPoint(row, col int) r3.Vec {
	return r3.Vec{X: float64(row), Y: float64(col), Z: float64(row * col)}
}

func newTestPatch(t *testing.T, alpha float64) *Patch {
	t.Helper()
	p, err := NewPatch(alpha)
	require.NoError(t, err)
	for r := range Size {
		for c := range Size {
			p.SetPoint(r, c, gridPoint(r, c))
		}
	}
	return p
}

func TestNewPatch(t *testing.T) {
	p, err := NewPatch(1.5)
	require.NoError(t, err)
	assert.Equal(t, Size, p.Rows())
	assert.Equal(t, Size, p.Cols())
	assert.InDelta(t, 1.5, p.Alpha(), 0)

	_, err = NewPatch(-2)
	require.ErrorIs(t, err, mathutil.ErrInvalidAlpha)
}

func TestPatch_InterpolatesCorners(t *testing.T) {
	for _, alpha := range []float64{0.5, 1, 2} {
		p := newTestPatch(t, alpha)

		corners := []struct {
			u, v     float64
			row, col int
		}{
			{0, 0, 0, 0},
			{0, alpha, 0, 3},
			{alpha, 0, 3, 0},
			{alpha, alpha, 3, 3},
		}
		for _, c := range corners {
			pd, err := p.PartialDerivatives(1, c.u, c.v)
			require.NoError(t, err)
			testutil.AssertVecInDelta(t, gridPoint(c.row, c.col), pd.Point(), testutil.PartitionTolerance,
				"α=%g corner (%d, %d)", alpha, c.row, c.col)
		}
	}
}

func TestPatch_SetAlphaRescalesBothDomains(t *testing.T) {
	p := newTestPatch(t, 1)

	require.NoError(t, p.SetAlpha(2.5))
	_, uHi := p.UInterval()
	_, vHi := p.VInterval()
	assert.InDelta(t, 2.5, uHi, 0)
	assert.InDelta(t, 2.5, vHi, 0)

	require.ErrorIs(t, p.SetAlpha(0), mathutil.ErrInvalidAlpha)
	_, uHi = p.UInterval()
	_, vHi = p.VInterval()
	assert.InDelta(t, 2.5, uHi, 0)
	assert.InDelta(t, 2.5, vHi, 0)
}

func TestPatch_CloneOwnsKernel(t *testing.T) {
	p := newTestPatch(t, 1)
	c := p.Clone()

	require.NoError(t, c.SetAlpha(2))
	c.SetPoint(1, 1, r3.Vec{})

	assert.InDelta(t, 1.0, p.Alpha(), 0)
	_, hi := p.UInterval()
	assert.InDelta(t, 1.0, hi, 0)
	assert.Equal(t, gridPoint(1, 1), p.Point(1, 1))
}

func TestPatch_LineAddressing(t *testing.T) {
	p := newTestPatch(t, 1)

	tests := []struct {
		dir   Direction
		depth int
		cell  func(k int) (int, int)
	}{
		{North, 0, func(k int) (int, int) { return k, 0 }},
		{North, 1, func(k int) (int, int) { return k, 1 }},
		{South, 0, func(k int) (int, int) { return k, 3 }},
		{South, 1, func(k int) (int, int) { return k, 2 }},
		{West, 0, func(k int) (int, int) { return 0, k }},
		{West, 2, func(k int) (int, int) { return 2, k }},
		{East, 0, func(k int) (int, int) { return 3, k }},
		{East, 1, func(k int) (int, int) { return 2, k }},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			line := p.Line(tt.dir, tt.depth)
			for k, pt := range line {
				assert.Equal(t, gridPoint(tt.cell(k)), pt, "k=%d depth=%d", k, tt.depth)
			}
		})
	}
}

func TestPatch_SetLineRoundTrip(t *testing.T) {
	p := newTestPatch(t, 1)

	var l Line
	for k := range l {
		l[k] = r3.Vec{X: -1, Y: float64(k)}
	}
	p.SetLine(East, 1, l)

	assert.Equal(t, l, p.Line(East, 1))
	assert.Equal(t, l, p.Line(West, 2))
	for k := range Size {
		assert.Equal(t, l[k], p.Point(2, k))
	}

	boundary, interior := p.Edge(East)
	assert.Equal(t, p.Line(East, 0), boundary)
	assert.Equal(t, l, interior)
}
