// Package boundary loads administrative boundary features and selects the
// boundary of a single municipality.
package boundary

import (
	"encoding/json"
	"strconv"

	"github.com/twpayne/go-geom"
)

// Source formats.
const (
	FormatAuto      = "auto"
	FormatGeoJSON   = "geojson"
	FormatShapefile = "shapefile"
)

// Property keys used by Overpass GeoJSON exports.
const (
	PropID         = "@id"
	PropGeometry   = "@geometry"
	PropName       = "name"
	PropAdminLevel = "admin_level"
	PropBorderType = "border_type"
	PropWikidata   = "wikidata"
	PropWikipedia  = "wikipedia"

	boundsMarker = "bounds"
)

// Feature is one boundary record. It is not modified after loading.
type Feature struct {
	Index      int
	ID         string
	Name       string
	HasName    bool
	AdminLevel string
	BorderType string
	Wikidata   string
	Wikipedia  string
	Marker     string // value of @geometry, "bounds" for bbox-only records
	Properties map[string]any
	Geometry   geom.T // nil when the source geometry is null

	// Coordinates is the source coordinate array, kept verbatim for output.
	Coordinates json.RawMessage
}

// IsBoundsMarker reports whether the feature is a bbox-only marker record.
func (f *Feature) IsBoundsMarker() bool {
	return f.Marker == boundsMarker
}

// IsPolygonal reports whether the feature has a Polygon or MultiPolygon geometry.
func (f *Feature) IsPolygonal() bool {
	switch f.Geometry.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	}
	return false
}

// HasGeometry reports whether the feature carries at least one coordinate.
func (f *Feature) HasGeometry() bool {
	switch g := f.Geometry.(type) {
	case nil:
		return false
	case *geom.GeometryCollection:
		return g.NumGeoms() > 0
	default:
		return len(g.FlatCoords()) > 0
	}
}

// Collection is an ordered set of features from one source file.
type Collection struct {
	Path     string
	Format   string
	Features []*Feature
}

// DefaultIDPrefix returns the feature ID prefix that marks a municipality
// record for the given source format.
func DefaultIDPrefix(format string) string {
	if format == FormatShapefile {
		return "tiger/"
	}
	return "relation/"
}

// propString reads a scalar property as a string. Numbers are formatted
// without a trailing fraction so admin_level 8 and "8" compare equal.
func propString(props map[string]any, key string) (string, bool) {
	switch v := props[key].(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Property returns a scalar property as a string and whether it was present
// and non-null.
func (f *Feature) Property(key string) (string, bool) {
	return propString(f.Properties, key)
}
