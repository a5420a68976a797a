package cagd

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errRenderFailed = errors.New("render failed")

// recordingRenderer logs every draw call and fails for one node index.
type recordingRenderer struct {
	mu       sync.Mutex
	calls    []string
	failNode int
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{failNode: -1}
}

func (r *recordingRenderer) record(index int, format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("%d:", index)+fmt.Sprintf(format, args...))
	if index == r.failNode {
		return errRenderFailed
	}
	return nil
}

func (r *recordingRenderer) RenderControlPolygon(index int, points []Vec, _ color.RGBA) error {
	return r.record(index, "polygon/%d", len(points))
}

func (r *recordingRenderer) RenderCurve(index, order int, im *CurveImage, _ color.RGBA) error {
	return r.record(index, "curve/%d/%d", order, im.Len())
}

func (r *recordingRenderer) RenderControlNet(index int, grid [][]Vec) error {
	return r.record(index, "net/%d", len(grid))
}

func (r *recordingRenderer) RenderMesh(index int, m *Mesh, material int, interpolated bool) error {
	return r.record(index, "mesh/%d/%t", material, interpolated)
}

func (r *recordingRenderer) RenderIsoLine(index int, family IsoFamily, order int, _ *CurveImage) error {
	return r.record(index, "iso/%s/%d", family, order)
}

func (r *recordingRenderer) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

// testConfig returns the default configuration with a logger writing into
// the returned buffer.
func testConfig(t *testing.T) (*Config, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c := DefaultConfig()
	c.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return c, &buf
}

func newTestCurve(t *testing.T, arcs int) *CompositeCurve {
	t.Helper()
	c, _ := testConfig(t)
	cc, err := NewDemoCurve(c, arcs)
	require.NoError(t, err)
	return cc
}

func newTestSurface(t *testing.T, patches int) *CompositeSurface {
	t.Helper()
	c, _ := testConfig(t)
	cs, err := NewDemoSurface(c, patches)
	require.NoError(t, err)
	return cs
}

func arcPoints(t *testing.T, cc *CompositeCurve, i int) []Vec {
	t.Helper()
	pts := make([]Vec, PointCount)
	for k := range pts {
		p, err := cc.ArcPoint(i, k)
		require.NoError(t, err)
		pts[k] = p
	}
	return pts
}

func patchPoints(t *testing.T, cs *CompositeSurface, i int) [][]Vec {
	t.Helper()
	n, err := cs.Node(i)
	require.NoError(t, err)
	return n.Patch.Points()
}
