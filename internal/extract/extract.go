// Package extract turns a boundary feature collection into flat municipality
// records with equal-area areas.
package extract

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-cli/internal/apperr"
	"github.com/sells-group/boundary-cli/internal/boundary"
	"github.com/sells-group/boundary-cli/internal/geo"
	"github.com/sells-group/boundary-cli/internal/projection"
)

// SquareMetersPerSquareMile converts international square miles.
const SquareMetersPerSquareMile = 2589988.110336

// Municipality is one incorporated town or city. Nullable source properties
// stay nil so they serialize as JSON null.
type Municipality struct {
	RelationID   string          `json:"relation_id"`
	Name         string          `json:"name"`
	AdminLevel   string          `json:"admin_level"`
	BorderType   *string         `json:"border_type"`
	Wikidata     *string         `json:"wikidata"`
	Wikipedia    *string         `json:"wikipedia"`
	AreaSqMeters float64         `json:"area_sq_meters"`
	AreaSqMiles  *float64        `json:"area_sq_miles,omitempty"`
	Coordinates  json.RawMessage `json:"coordinates"`

	// Geometry is the source geometry in geographic degrees.
	Geometry geom.T `json:"-"`
}

// Options filter and shape the extraction.
type Options struct {
	AdminLevel string // required admin_level, "8" for towns
	IDPrefix   string // required feature ID prefix, see boundary.DefaultIDPrefix
	OmitMiles  bool   // leave area_sq_miles out of the records

	// Projection must be equal-area. Nil means projection.ConusAlbers.
	Projection projection.Projection
}

// DefaultOptions returns the options for an Overpass GeoJSON export.
func DefaultOptions() Options {
	return Options{
		AdminLevel: "8",
		IDPrefix:   boundary.DefaultIDPrefix(boundary.FormatGeoJSON),
	}
}

// Extract returns one record per polygonal feature in c that matches opts, in
// source order. Bounds markers and features without a surface geometry are
// skipped before any filter applies.
func Extract(c *boundary.Collection, opts Options) ([]Municipality, error) {
	if c == nil {
		return nil, eris.New("extract: nil collection")
	}
	proj := opts.Projection
	if proj == nil {
		proj = projection.ConusAlbers()
	}
	log := zap.L().With(zap.String("projection", proj.Name()))

	var (
		out      []Municipality
		skipped  int
		filtered int
	)
	for _, f := range c.Features {
		if f.IsBoundsMarker() || !f.HasGeometry() || !f.IsPolygonal() {
			skipped++
			continue
		}
		if f.ID == "" {
			return nil, &apperr.SchemaError{Index: f.Index, Field: boundary.PropID}
		}
		if f.AdminLevel != opts.AdminLevel || !f.HasName || !strings.HasPrefix(f.ID, opts.IDPrefix) {
			filtered++
			continue
		}

		m, err := build(f, proj, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	log.Debug("extract: done",
		zap.Int("features", len(c.Features)),
		zap.Int("municipalities", len(out)),
		zap.Int("skipped", skipped),
		zap.Int("filtered", filtered),
	)
	return out, nil
}

func build(f *boundary.Feature, proj projection.Projection, opts Options) (Municipality, error) {
	projected, err := projection.Project(f.Geometry, proj)
	if err != nil {
		return Municipality{}, eris.Wrapf(err, "extract: project %s", f.ID)
	}
	area := geo.Area(projected)

	m := Municipality{
		RelationID:   f.ID,
		Name:         f.Name,
		AdminLevel:   f.AdminLevel,
		BorderType:   optional(f, boundary.PropBorderType),
		Wikidata:     optional(f, boundary.PropWikidata),
		Wikipedia:    optional(f, boundary.PropWikipedia),
		AreaSqMeters: area,
		Coordinates:  f.Coordinates,
		Geometry:     f.Geometry,
	}
	if !opts.OmitMiles {
		miles := area / SquareMetersPerSquareMile
		m.AreaSqMiles = &miles
	}
	return m, nil
}

func optional(f *boundary.Feature, key string) *string {
	v, ok := f.Property(key)
	if !ok {
		return nil
	}
	return &v
}
