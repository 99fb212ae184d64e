// Package geo provides the planar boundary operations behind the corner
// comparison: vertex and ring enumeration, nearest-point search over an
// outline, and agreement classification.
package geo

import (
	"iter"

	"github.com/twpayne/go-geom"
)

// Vertices returns every vertex of g in ring traversal order: for each
// polygon, the exterior ring then its holes, coordinates in stored order.
// The sequence is lazy and can be ranged over any number of times.
func Vertices(g geom.T) iter.Seq[geom.Coord] {
	return func(yield func(geom.Coord) bool) {
		if !supported(g) {
			return
		}
		flat, stride := g.FlatCoords(), g.Stride()
		for i := 0; i+1 < len(flat); i += stride {
			if !yield(geom.Coord{flat[i], flat[i+1]}) {
				return
			}
		}
	}
}

// CollectVertices materialises Vertices(g).
func CollectVertices(g geom.T) []geom.Coord {
	var out []geom.Coord
	for c := range Vertices(g) {
		out = append(out, c)
	}
	return out
}

// Rings returns the outline components of g: each linear ring of each polygon
// (or each line of a line geometry) as its own coordinate slice.
func Rings(g geom.T) [][]geom.Coord {
	if !supported(g) {
		return nil
	}

	flat, stride := g.FlatCoords(), g.Stride()
	var ends []int
	switch t := g.(type) {
	case *geom.Polygon, *geom.MultiLineString:
		ends = t.Ends()
	case *geom.MultiPolygon:
		for _, e := range t.Endss() {
			ends = append(ends, e...)
		}
	default:
		ends = []int{len(flat)}
	}

	rings := make([][]geom.Coord, 0, len(ends))
	start := 0
	for _, end := range ends {
		if end <= start {
			continue
		}
		ring := make([]geom.Coord, 0, (end-start)/stride)
		for i := start; i+1 < end; i += stride {
			ring = append(ring, geom.Coord{flat[i], flat[i+1]})
		}
		rings = append(rings, ring)
		start = end
	}
	return rings
}

func supported(g geom.T) bool {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon, *geom.LinearRing,
		*geom.LineString, *geom.MultiLineString:
		return true
	}
	return false
}
