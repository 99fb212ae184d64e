package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func squareWithHole() *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 0, 10, 10, 10, 10, 0, 0, 0,
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4,
	}, []int{10, 20})
}

func TestVertices_PolygonOrder(t *testing.T) {
	got := CollectVertices(squareWithHole())
	require.Len(t, got, 10)
	assert.Equal(t, geom.Coord{0, 0}, got[0])
	assert.Equal(t, geom.Coord{0, 10}, got[1])
	assert.Equal(t, geom.Coord{4, 4}, got[5], "hole follows exterior")
}

func TestVertices_MultiPolygonOrder(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(squareWithHole()))
	require.NoError(t, mp.Push(geom.NewPolygonFlat(geom.XY, []float64{
		20, 20, 20, 21, 21, 21, 20, 20,
	}, []int{8})))

	got := CollectVertices(mp)
	require.Len(t, got, 14)
	assert.Equal(t, geom.Coord{20, 20}, got[10])
}

func TestVertices_Restartable(t *testing.T) {
	seq := Vertices(squareWithHole())

	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 10, first)
	assert.Equal(t, first, second)
}

func TestVertices_EarlyStop(t *testing.T) {
	var n int
	for range Vertices(squareWithHole()) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestVertices_Unsupported(t *testing.T) {
	assert.Empty(t, CollectVertices(geom.NewPointFlat(geom.XY, []float64{1, 1})))
	assert.Empty(t, CollectVertices(nil))
}

func TestVertices_XYZLayout(t *testing.T) {
	p := geom.NewPolygonFlat(geom.XYZ, []float64{
		0, 0, 5, 0, 1, 5, 1, 1, 5, 0, 0, 5,
	}, []int{12})
	got := CollectVertices(p)
	require.Len(t, got, 4)
	assert.Equal(t, geom.Coord{0, 1}, got[1])
}

func TestRings_Polygon(t *testing.T) {
	rings := Rings(squareWithHole())
	require.Len(t, rings, 2)
	assert.Len(t, rings[0], 5)
	assert.Len(t, rings[1], 5)
	assert.Equal(t, geom.Coord{4, 4}, rings[1][0])
}

func TestRings_MultiPolygonAndLines(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY)
	require.NoError(t, mp.Push(squareWithHole()))
	require.NoError(t, mp.Push(geom.NewPolygonFlat(geom.XY, []float64{
		20, 20, 20, 21, 21, 21, 20, 20,
	}, []int{8})))
	assert.Len(t, Rings(mp), 3)

	ls := geom.NewLineStringFlat(geom.XY, []float64{0, 0, 1, 1, 2, 0})
	require.Len(t, Rings(ls), 1)
	assert.Len(t, Rings(ls)[0], 3)

	mls := geom.NewMultiLineStringFlat(geom.XY, []float64{0, 0, 1, 1, 5, 5, 6, 6}, []int{4, 8})
	assert.Len(t, Rings(mls), 2)

	assert.Nil(t, Rings(geom.NewPointFlat(geom.XY, []float64{0, 0})))
}
