// Package projection converts between geographic longitude/latitude (NAD83,
// GRS80 ellipsoid) and the planar systems used for area and distance work.
package projection

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// GRS80 ellipsoid, shared by NAD83 and (to within millimetres) WGS84. Used by
// the transverse Mercator series; Albers takes it from wgs84.NAD83.
const (
	semiMajor  = 6378137.0
	flattening = 1 / 298.257222101
)

var e2 = flattening * (2 - flattening)

// Projection maps geographic degrees to planar metres and back.
type Projection interface {
	Name() string
	Forward(lon, lat float64) (x, y float64)
	Inverse(x, y float64) (lon, lat float64)
}

type identity struct{}

// Identity returns a projection that treats degrees as metres.
func Identity() Projection { return identity{} }

func (identity) Name() string { return "identity" }
func (identity) Forward(lon, lat float64) (float64, float64) { return lon, lat }
func (identity) Inverse(x, y float64) (float64, float64) { return x, y }

// ForwardCoord projects a single XY coordinate.
func ForwardCoord(p Projection, c geom.Coord) geom.Coord {
	x, y := p.Forward(c.X(), c.Y())
	return geom.Coord{x, y}
}

// InverseCoord unprojects a single XY coordinate.
func InverseCoord(p Projection, c geom.Coord) geom.Coord {
	lon, lat := p.Inverse(c.X(), c.Y())
	return geom.Coord{lon, lat}
}

// Project applies p.Forward to every coordinate of g.
func Project(g geom.T, p Projection) (geom.T, error) {
	return Transform(g, p.Forward)
}

// Transform returns a copy of g with fn applied to the first two ordinates of
// every coordinate. Structure (rings, parts, layout) is preserved exactly.
func Transform(g geom.T, fn func(x, y float64) (float64, float64)) (geom.T, error) {
	switch g.(type) {
	case nil:
		return nil, eris.New("projection: nil geometry")
	case *geom.Point, *geom.LineString, *geom.LinearRing,
		*geom.MultiLineString, *geom.Polygon, *geom.MultiPolygon:
	default:
		return nil, eris.Errorf("projection: unsupported geometry %T", g)
	}

	src := g.FlatCoords()
	stride := g.Stride()
	flat := make([]float64, len(src))
	copy(flat, src)
	for i := 0; i+1 < len(flat); i += stride {
		flat[i], flat[i+1] = fn(flat[i], flat[i+1])
	}

	switch t := g.(type) {
	case *geom.Point:
		return geom.NewPointFlat(t.Layout(), flat), nil
	case *geom.LineString:
		return geom.NewLineStringFlat(t.Layout(), flat), nil
	case *geom.LinearRing:
		return geom.NewLinearRingFlat(t.Layout(), flat), nil
	case *geom.MultiLineString:
		return geom.NewMultiLineStringFlat(t.Layout(), flat, t.Ends()), nil
	case *geom.Polygon:
		return geom.NewPolygonFlat(t.Layout(), flat, t.Ends()), nil
	default:
		mp := g.(*geom.MultiPolygon)
		return geom.NewMultiPolygonFlat(mp.Layout(), flat, mp.Endss()), nil
	}
}

func radians(d float64) float64 { return d * math.Pi / 180 }
func degrees(r float64) float64 { return r * 180 / math.Pi }
