package projection

import "github.com/wroge/wgs84"

// Albers is an ellipsoidal Albers equal-area conic projection on NAD83.
type Albers struct {
	name string
	crs  wgs84.ProjectedReferenceSystem
}

// NewAlbers builds an Albers projection from standard parallels lat1, lat2,
// origin latitude lat0 and central meridian lon0, all in degrees.
func NewAlbers(name string, lat1, lat2, lat0, lon0 float64) *Albers {
	return &Albers{
		name: name,
		crs:  wgs84.NAD83().AlbersEqualAreaConic(lon0, lat0, lat1, lat2, 0, 0),
	}
}

// ConusAlbers is NAD83 / Conus Albers (EPSG:5070).
func ConusAlbers() *Albers {
	return NewAlbers("EPSG:5070", 29.5, 45.5, 23, -96)
}

// Name returns the projection's identifier.
func (a *Albers) Name() string { return a.name }

// Forward projects longitude/latitude degrees to metres. The datum shift
// through geocentric WGS84 is skipped: input is already NAD83.
func (a *Albers) Forward(lon, lat float64) (float64, float64) {
	return a.crs.Projection.FromLonLat(lon, lat, a.crs.Datum)
}

// Inverse converts metres back to longitude/latitude degrees.
func (a *Albers) Inverse(x, y float64) (float64, float64) {
	return a.crs.Projection.ToLonLat(x, y, a.crs.Datum)
}
