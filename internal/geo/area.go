package geo

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Area returns the planar area of a polygonal geometry whatever its ring
// winding: exteriors add, holes subtract. go-geom's own Area is signed by
// orientation, and neither shapefiles nor OSM exports agree on one.
// Non-polygonal geometries have zero area.
func Area(g geom.T) float64 {
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonArea(t)
	case *geom.MultiPolygon:
		var sum float64
		for i := 0; i < t.NumPolygons(); i++ {
			sum += polygonArea(t.Polygon(i))
		}
		return sum
	default:
		return 0
	}
}

func polygonArea(p *geom.Polygon) float64 {
	var a float64
	for i := 0; i < p.NumLinearRings(); i++ {
		r := math.Abs(xy.SignedArea(p.Layout(), p.LinearRing(i).FlatCoords()))
		if i == 0 {
			a += r
		} else {
			a -= r
		}
	}
	return a
}
