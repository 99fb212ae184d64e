package boundary

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-cli/internal/apperr"
)

type rawCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Properties json.RawMessage `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// Load reads a feature collection, picking the decoder from format or, for
// FormatAuto, from the file extension. A .zip path is always read as an
// archive holding one source file.
func Load(path, format string) (*Collection, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return LoadArchive(path)
	}
	if format == "" || format == FormatAuto {
		format = FormatGeoJSON
		if strings.EqualFold(filepath.Ext(path), ".shp") {
			format = FormatShapefile
		}
	}

	switch format {
	case FormatGeoJSON:
		return LoadGeoJSON(path)
	case FormatShapefile:
		return LoadShapefile(path)
	default:
		return nil, eris.Errorf("boundary: unknown input format %q", format)
	}
}

// LoadGeoJSON reads a GeoJSON FeatureCollection from path.
func LoadGeoJSON(path string) (*Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	c, err := DecodeGeoJSON(f)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: load %s", path)
	}
	c.Path = path
	return c, nil
}

// DecodeGeoJSON decodes a GeoJSON FeatureCollection. Every feature must carry
// a properties object, and every feature other than a bounds marker must carry
// a string @id; violations are returned as *apperr.SchemaError.
func DecodeGeoJSON(r io.Reader) (*Collection, error) {
	var raw rawCollection
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "boundary: decode feature collection")
	}
	if raw.Type != "" && raw.Type != "FeatureCollection" {
		return nil, eris.Errorf("boundary: expected FeatureCollection, got %q", raw.Type)
	}

	log := zap.L().With(zap.String("component", "boundary.geojson"))

	c := &Collection{Format: FormatGeoJSON, Features: make([]*Feature, 0, len(raw.Features))}
	for i, rf := range raw.Features {
		f, err := decodeFeature(i, rf)
		if err != nil {
			return nil, err
		}
		c.Features = append(c.Features, f)
	}

	log.Debug("decoded feature collection", zap.Int("features", len(c.Features)))
	return c, nil
}

func decodeFeature(i int, rf rawFeature) (*Feature, error) {
	if isNull(rf.Properties) {
		return nil, &apperr.SchemaError{Index: i, Field: "properties"}
	}
	var props map[string]any
	if err := json.Unmarshal(rf.Properties, &props); err != nil {
		return nil, &apperr.SchemaError{Index: i, Field: "properties", Err: err}
	}

	f := &Feature{Index: i, Properties: props}
	f.Marker, _ = propString(props, PropGeometry)
	f.Name, f.HasName = propString(props, PropName)
	f.AdminLevel, _ = propString(props, PropAdminLevel)
	f.BorderType, _ = propString(props, PropBorderType)
	f.Wikidata, _ = propString(props, PropWikidata)
	f.Wikipedia, _ = propString(props, PropWikipedia)

	id, ok := props[PropID].(string)
	if !ok && !f.IsBoundsMarker() {
		return nil, &apperr.SchemaError{Index: i, Field: PropID}
	}
	f.ID = id

	if isNull(rf.Geometry) {
		return f, nil
	}

	var g geom.T
	if err := geojson.Unmarshal(rf.Geometry, &g); err != nil {
		return nil, &apperr.SchemaError{Index: i, Field: "geometry", Err: err}
	}
	f.Geometry = g

	var coords struct {
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(rf.Geometry, &coords); err != nil {
		return nil, &apperr.SchemaError{Index: i, Field: "geometry", Err: err}
	}
	f.Coordinates = coords.Coordinates

	return f, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
