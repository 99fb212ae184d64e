// Package compare measures how far surveyed corners lie from a mapped
// municipal boundary.
package compare

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-cli/internal/apperr"
	"github.com/sells-group/boundary-cli/internal/geo"
	"github.com/sells-group/boundary-cli/internal/projection"
	"github.com/sells-group/boundary-cli/internal/survey"
)

// Row is one corner of the inaccuracy report. Distances are planar metres in
// the comparison projection; coordinates are geographic degrees.
type Row struct {
	CornerName         string  `json:"corner_name"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	NearestBoundaryLat float64 `json:"nearest_boundary_lat"`
	NearestBoundaryLon float64 `json:"nearest_boundary_lon"`
	DistanceToBoundary float64 `json:"distance_to_boundary_m"`
	NearestVertexLat   float64 `json:"nearest_vertex_lat"`
	NearestVertexLon   float64 `json:"nearest_vertex_lon"`
	DistanceToVertex   float64 `json:"distance_to_vertex_m"`
}

// Agreement classifies the row with geo.Classify.
func (r Row) Agreement() string {
	return geo.Classify(r.DistanceToBoundary, r.DistanceToVertex)
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithOutlineSearch replaces the default segment scan used for the nearest
// outline point. The search receives projected coordinates.
func WithOutlineSearch(n geo.Nearest) Option {
	return func(c *Comparator) {
		c.outline = n
	}
}

// WithVertexSearch replaces the default exhaustive vertex scan. Candidate
// indexes must refer to geo.Vertices order of the boundary geometry.
func WithVertexSearch(n geo.Nearest) Option {
	return func(c *Comparator) {
		c.vertices = n
	}
}

// Comparator holds one boundary projected into a planar system.
type Comparator struct {
	proj       projection.Projection
	geographic []geom.Coord // vertices in source order, geographic degrees
	outline    geo.Nearest
	vertices   geo.Nearest
}

// New projects the outline and vertices of boundary with proj. It returns
// *apperr.NotFoundError when the geometry has no vertices.
func New(boundary geom.T, proj projection.Projection, opts ...Option) (*Comparator, error) {
	if boundary == nil {
		return nil, apperr.NewNotFoundError("boundary geometry")
	}

	geographic := geo.CollectVertices(boundary)
	if len(geographic) == 0 {
		return nil, apperr.NewNotFoundError("boundary vertices (geometry has no usable outline)")
	}

	projected := make([]geom.Coord, len(geographic))
	for i, c := range geographic {
		projected[i] = projection.ForwardCoord(proj, c)
	}

	rings := geo.Rings(boundary)
	for _, ring := range rings {
		for i, c := range ring {
			ring[i] = projection.ForwardCoord(proj, c)
		}
	}

	c := &Comparator{
		proj:       proj,
		geographic: geographic,
		outline:    geo.NewOutlineScan(rings),
		vertices:   geo.NewVertexScan(projected),
	}
	for _, opt := range opts {
		opt(c)
	}

	zap.L().Debug("compare: boundary projected",
		zap.String("projection", proj.Name()),
		zap.Int("vertices", len(geographic)),
		zap.Int("rings", len(rings)),
	)
	return c, nil
}

// Compare produces one row per corner, in input order. Any corner with
// malformed coordinates fails the whole comparison.
func (c *Comparator) Compare(corners []survey.Corner) ([]Row, error) {
	rows := make([]Row, 0, len(corners))
	for _, corner := range corners {
		row, err := c.CompareOne(corner)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CompareOne measures a single corner against the boundary.
func (c *Comparator) CompareOne(corner survey.Corner) (Row, error) {
	lat, lon, err := corner.LatLon()
	if err != nil {
		return Row{}, eris.Wrapf(err, "compare: corner %q", corner.Name)
	}

	q := projection.ForwardCoord(c.proj, geom.Coord{lon, lat})

	onOutline, err := c.outline.Nearest(q)
	if err != nil {
		return Row{}, eris.Wrap(err, "compare: nearest outline point")
	}
	vertex, err := c.vertices.Nearest(q)
	if err != nil {
		return Row{}, eris.Wrap(err, "compare: nearest vertex")
	}
	if vertex.Index < 0 || vertex.Index >= len(c.geographic) {
		return Row{}, eris.Errorf("compare: vertex index %d out of range", vertex.Index)
	}

	boundaryPt := projection.InverseCoord(c.proj, onOutline.Coord)
	vertexPt := c.geographic[vertex.Index]

	return Row{
		CornerName:         corner.Name,
		Lat:                lat,
		Lon:                lon,
		NearestBoundaryLat: boundaryPt.Y(),
		NearestBoundaryLon: boundaryPt.X(),
		DistanceToBoundary: onOutline.Distance,
		NearestVertexLat:   vertexPt.Y(),
		NearestVertexLon:   vertexPt.X(),
		DistanceToVertex:   vertex.Distance,
	}, nil
}

// Summary aggregates a report.
type Summary struct {
	Corners       int
	MaxBoundaryM  float64
	MeanBoundaryM float64
	MaxVertexM    float64
	MeanVertexM   float64
	WorstCorner   string
	Agreement     map[string]int
}

// Summarize computes report-wide statistics. WorstCorner is the corner
// farthest from the outline.
func Summarize(rows []Row) Summary {
	s := Summary{Corners: len(rows), Agreement: make(map[string]int)}
	if len(rows) == 0 {
		return s
	}

	var sumB, sumV float64
	for i, r := range rows {
		sumB += r.DistanceToBoundary
		sumV += r.DistanceToVertex
		if i == 0 || r.DistanceToBoundary > s.MaxBoundaryM {
			s.MaxBoundaryM = r.DistanceToBoundary
			s.WorstCorner = r.CornerName
		}
		s.MaxVertexM = max(s.MaxVertexM, r.DistanceToVertex)
		s.Agreement[r.Agreement()]++
	}
	s.MeanBoundaryM = sumB / float64(len(rows))
	s.MeanVertexM = sumV / float64(len(rows))
	return s
}
