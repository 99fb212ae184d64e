package report

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/boundary-cli/internal/compare"
)

// Overlay feature kinds, stored in the "kind" property.
const (
	KindBoundary = "boundary"
	KindSurvey   = "survey"
	KindCorner   = "corner"
	KindOffset   = "offset"
)

// Overlay builds a FeatureCollection that draws the mapped boundary, the
// surveyed corners joined into a closed loop, one labelled point per corner,
// and the segment from each corner to its nearest outline point.
func Overlay(name string, boundary geom.T, rows []compare.Row) (*geojson.FeatureCollection, error) {
	if boundary == nil {
		return nil, eris.New("report: overlay needs a boundary geometry")
	}

	fc := &geojson.FeatureCollection{}
	fc.Features = append(fc.Features, &geojson.Feature{
		ID:       name,
		Geometry: boundary,
		Properties: map[string]any{
			"kind": KindBoundary,
			"name": name,
		},
	})

	if len(rows) == 0 {
		return fc, nil
	}

	loop := make([]float64, 0, 2*(len(rows)+1))
	for _, r := range rows {
		loop = append(loop, r.Lon, r.Lat)
	}
	loop = append(loop, rows[0].Lon, rows[0].Lat)
	fc.Features = append(fc.Features, &geojson.Feature{
		Geometry: geom.NewLineStringFlat(geom.XY, loop),
		Properties: map[string]any{
			"kind": KindSurvey,
			"name": name + " survey",
		},
	})

	for i, r := range rows {
		fc.Features = append(fc.Features,
			&geojson.Feature{
				Geometry: geom.NewPointFlat(geom.XY, []float64{r.Lon, r.Lat}),
				Properties: map[string]any{
					"kind":                   KindCorner,
					"label":                  r.CornerName,
					"order":                  i + 1,
					"distance_to_boundary_m": r.DistanceToBoundary,
					"distance_to_vertex_m":   r.DistanceToVertex,
					"agreement":              r.Agreement(),
				},
			},
			&geojson.Feature{
				Geometry: geom.NewLineStringFlat(geom.XY, []float64{
					r.Lon, r.Lat, r.NearestBoundaryLon, r.NearestBoundaryLat,
				}),
				Properties: map[string]any{
					"kind":  KindOffset,
					"label": r.CornerName,
				},
			},
		)
	}
	return fc, nil
}

// EncodeOverlay renders the overlay as indented GeoJSON.
func EncodeOverlay(name string, boundary geom.T, rows []compare.Row) ([]byte, error) {
	fc, err := Overlay(name, boundary, rows)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "report: encode overlay")
	}
	return append(data, '\n'), nil
}
