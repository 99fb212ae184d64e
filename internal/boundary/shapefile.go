package boundary

import (
	"encoding/json"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"go.uber.org/zap"
)

// Shapefile attribute columns of TIGER/Line county subdivisions (COUSUB),
// which carry New England towns.
const (
	fieldGEOID = "geoid"
	fieldName  = "name"
)

// townAdminLevel is the OSM admin_level assigned to shapefile records.
const townAdminLevel = "8"

// LoadShapefile reads a polygon shapefile. Each record becomes a feature with
// ID "tiger/<GEOID>", the NAME attribute as its name and admin level 8.
// All attributes are kept in Properties.
func LoadShapefile(path string) (*Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	if _, ok := fieldIdx[fieldGEOID]; !ok {
		return nil, eris.Errorf("boundary: shapefile %s has no GEOID field", path)
	}

	c := &Collection{Path: path, Format: FormatShapefile}
	var skipped int

	for reader.Next() {
		_, shape := reader.Shape()

		props := make(map[string]any, len(fields))
		for name, idx := range fieldIdx {
			val := strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
			if val != "" {
				props[name] = val
			}
		}

		geoid, _ := props[fieldGEOID].(string)
		if geoid == "" {
			skipped++
			continue
		}

		f := &Feature{
			Index:      len(c.Features),
			ID:         "tiger/" + geoid,
			AdminLevel: townAdminLevel,
			Properties: props,
		}
		f.Name, f.HasName = props[fieldName].(string)

		if poly, ok := shape.(*shp.Polygon); ok {
			if mp := polygonToMultiPolygon(poly); mp != nil {
				f.Geometry = mp
				f.Coordinates, err = json.Marshal(multiPolygonCoords(mp))
				if err != nil {
					return nil, eris.Wrap(err, "boundary: encode shapefile coordinates")
				}
			}
		}

		c.Features = append(c.Features, f)
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records without GEOID",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return c, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
// Shapefile outer rings run clockwise and holes counter-clockwise; each hole
// is attached to the outer ring that precedes it.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	var current *geom.Polygon

	flush := func() {
		if current == nil {
			return
		}
		if err := mp.Push(current); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Error(err))
		}
		current = nil
	}

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}
		if end-start < 4 {
			zap.L().Debug("boundary: skipping degenerate ring", zap.Int32("part", i))
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)

		// Four or more points per ring, so orientation is always defined.
		if !xy.IsRingCounterClockwise(geom.XY, flat) || current == nil {
			flush()
			current = geom.NewPolygon(geom.XY)
		}
		if err := current.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
		}
	}
	flush()

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// multiPolygonCoords renders mp as a GeoJSON coordinate array.
func multiPolygonCoords(mp *geom.MultiPolygon) [][][][]float64 {
	out := make([][][][]float64, 0, mp.NumPolygons())
	for i := 0; i < mp.NumPolygons(); i++ {
		poly := mp.Polygon(i)
		rings := make([][][]float64, 0, poly.NumLinearRings())
		for j := 0; j < poly.NumLinearRings(); j++ {
			coords := poly.LinearRing(j).Coords()
			ring := make([][]float64, len(coords))
			for k, c := range coords {
				ring[k] = []float64{c.X(), c.Y()}
			}
			rings = append(rings, ring)
		}
		out = append(out, rings)
	}
	return out
}
