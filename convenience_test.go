package cagd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-cagd/internal/testutil"
)

func TestDefaultArcPoints(t *testing.T) {
	assert.Equal(t, []Vec{
		{X: 1, Y: 0, Z: 10},
		{X: 1, Y: 1, Z: 10},
		{X: -1, Y: 1, Z: 10},
		{X: -1, Y: -1, Z: 10},
	}, DefaultArcPoints(2))
}

func TestDefaultPatchPoints(t *testing.T) {
	grid := DefaultPatchPoints(1)
	require.Len(t, grid, PointCount)

	assert.Equal(t, Vec{X: -2, Y: 6, Z: 0}, grid[0][0])
	assert.Equal(t, Vec{X: 2, Y: 10, Z: 0}, grid[3][3])
	assert.Equal(t, Vec{X: -1, Y: 9, Z: 2}, grid[1][2])
	assert.Equal(t, Vec{X: 1, Y: 6, Z: 0}, grid[2][0])

	// every call returns a fresh grid
	grid[0][0] = Vec{}
	assert.NotEqual(t, grid[0][0], DefaultPatchPoints(1)[0][0])
}

func TestSampleArc(t *testing.T) {
	points := DefaultArcPoints(0)
	im, err := SampleArc(points, 1, 2, 11)
	require.NoError(t, err)

	assert.Equal(t, 11, im.Len())
	assert.Equal(t, 2, im.MaxOrder)
	testutil.AssertVecInDelta(t, points[0], im.Samples[0][0], testutil.PartitionTolerance)
	testutil.AssertVecInDelta(t, points[3], im.Samples[10][0], testutil.PartitionTolerance)

	_, err = SampleArc(points, -1, 2, 11)
	require.ErrorIs(t, err, ErrInvalidAlpha)
	_, err = SampleArc(points, 1, 2, 1)
	require.ErrorIs(t, err, ErrInvalidSampleCount)
}

func TestSamplePatch(t *testing.T) {
	grid := DefaultPatchPoints(0)
	m, err := SamplePatch(grid, 2, 5)
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 25)
	testutil.AssertVecInDelta(t, grid[0][0], m.Vertex(0, 0), testutil.PartitionTolerance)
	testutil.AssertVecInDelta(t, grid[3][3], m.Vertex(4, 4), testutil.PartitionTolerance)

	// the demo net is symmetric, so the center normal points straight up
	n := m.Normals[2*5+2]
	testutil.AssertVecInDelta(t, Vec{Z: 1}, n, testutil.PartitionTolerance)
}
