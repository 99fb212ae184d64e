package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/sells-group/boundary-cli/internal/apperr"
)

func TestClosestOnSegment(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  geom.Coord
		want     geom.Coord
		distance float64
	}{
		{"perpendicular foot", geom.Coord{5, 3}, geom.Coord{0, 0}, geom.Coord{10, 0}, geom.Coord{5, 0}, 3},
		{"clamped to start", geom.Coord{-3, 4}, geom.Coord{0, 0}, geom.Coord{10, 0}, geom.Coord{0, 0}, 5},
		{"clamped to end", geom.Coord{13, -4}, geom.Coord{0, 0}, geom.Coord{10, 0}, geom.Coord{10, 0}, 5},
		{"on the segment", geom.Coord{2, 2}, geom.Coord{0, 0}, geom.Coord{4, 4}, geom.Coord{2, 2}, 0},
		{"degenerate segment", geom.Coord{3, 4}, geom.Coord{0, 0}, geom.Coord{0, 0}, geom.Coord{0, 0}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, d := ClosestOnSegment(tt.p, tt.a, tt.b)
			assert.InDelta(t, tt.want.X(), got.X(), 1e-12)
			assert.InDelta(t, tt.want.Y(), got.Y(), 1e-12)
			assert.InDelta(t, tt.distance, d, 1e-12)
		})
	}
}

func TestClosestOnSegment_MatchesGoGeom(t *testing.T) {
	a, b := geom.Coord{1, 2}, geom.Coord{7, -3}
	for _, p := range []geom.Coord{{0, 0}, {4, 4}, {9, -9}, {3.5, -0.5}, {-2, 6}} {
		_, d := ClosestOnSegment(p, a, b)
		assert.InDelta(t, xy.DistanceFromPointToLine(p, a, b), d, 1e-9)
	}
}

func TestVertexScan_Nearest(t *testing.T) {
	scan := NewVertexScan([]geom.Coord{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}})
	assert.Equal(t, 5, scan.Len())

	got, err := scan.Nearest(geom.Coord{0.9, 0.2})
	require.NoError(t, err)
	assert.Equal(t, geom.Coord{1, 0}, got.Coord)
	assert.Equal(t, 3, got.Index)
	assert.InDelta(t, math.Hypot(0.1, 0.2), got.Distance, 1e-12)
}

func TestVertexScan_TieKeepsFirst(t *testing.T) {
	scan := NewVertexScan([]geom.Coord{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}})

	got, err := scan.Nearest(geom.Coord{0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Index)
	assert.Equal(t, geom.Coord{0, 1}, got.Coord)
	assert.InDelta(t, 0.5, got.Distance, 1e-12)
}

func TestVertexScan_Empty(t *testing.T) {
	_, err := NewVertexScan(nil).Nearest(geom.Coord{0, 0})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestOutlineScan_AcrossRings(t *testing.T) {
	rings := Rings(squareWithHole())
	scan := NewOutlineScan(rings)

	// Closer to the hole than to the exterior.
	got, err := scan.Nearest(geom.Coord{5, 5.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got.Distance, 1e-12)
	assert.InDelta(t, 5, got.Coord.X(), 1e-12)
	assert.InDelta(t, 6, got.Coord.Y(), 1e-12)
	assert.GreaterOrEqual(t, got.Index, 4, "segment belongs to the hole ring")
}

func TestOutlineScan_OnEdge(t *testing.T) {
	scan := NewOutlineScan([][]geom.Coord{{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}})

	got, err := scan.Nearest(geom.Coord{0.5, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0, got.Distance, 1e-12)
	assert.Equal(t, 1, got.Index)
}

func TestOutlineScan_SinglePointRing(t *testing.T) {
	scan := NewOutlineScan([][]geom.Coord{{}, {{3, 4}}})
	got, err := scan.Nearest(geom.Coord{0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 5, got.Distance, 1e-12)
}

func TestOutlineScan_Empty(t *testing.T) {
	_, err := NewOutlineScan(nil).Nearest(geom.Coord{0, 0})
	assert.True(t, apperr.IsNotFound(err))
}

func TestOutlineNeverFartherThanVertex(t *testing.T) {
	poly := squareWithHole()
	outline := NewOutlineScan(Rings(poly))
	vertices := NewVertexScan(CollectVertices(poly))

	for _, p := range []geom.Coord{{-3, 2}, {5, 5}, {12, 7}, {4.5, 3.9}, {10, 10}, {0.01, 9.5}} {
		o, err := outline.Nearest(p)
		require.NoError(t, err)
		v, err := vertices.Nearest(p)
		require.NoError(t, err)
		assert.LessOrEqual(t, o.Distance, v.Distance+1e-12)
	}
}

func TestNearest_CoincidentVertex(t *testing.T) {
	poly := squareWithHole()
	var n Nearest = NewOutlineScan(Rings(poly))
	o, err := n.Nearest(geom.Coord{6, 4})
	require.NoError(t, err)

	n = NewVertexScan(CollectVertices(poly))
	v, err := n.Nearest(geom.Coord{6, 4})
	require.NoError(t, err)

	assert.Zero(t, o.Distance)
	assert.Zero(t, v.Distance)
}
