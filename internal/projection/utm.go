package projection

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

const (
	utmScale        = 0.9996
	utmFalseEasting = 500000.0
	utmFalseSouth   = 10000000.0
)

// TransverseMercator is a UTM zone on the GRS80 ellipsoid, using the series
// expansions of Snyder (USGS PP 1395, ch. 8).
type TransverseMercator struct {
	zone   int
	south  bool
	lon0   float64 // radians
	falseN float64
}

// UTM returns the NAD83 UTM projection for zone 1..60.
func UTM(zone int, south bool) (*TransverseMercator, error) {
	if zone < 1 || zone > 60 {
		return nil, eris.Errorf("projection: UTM zone %d out of range 1..60", zone)
	}
	tm := &TransverseMercator{
		zone:  zone,
		south: south,
		lon0:  radians(float64(zone*6 - 183)),
	}
	if south {
		tm.falseN = utmFalseSouth
	}
	return tm, nil
}

// ZoneFor returns the UTM zone containing the given longitude.
func ZoneFor(lon float64) int {
	z := int(math.Floor((lon+180)/6)) + 1
	return min(max(z, 1), 60)
}

// Name returns the EPSG code for northern NAD83 zones, a descriptive name otherwise.
func (t *TransverseMercator) Name() string {
	if !t.south && t.zone <= 23 && t.zone >= 1 {
		return fmt.Sprintf("EPSG:269%02d", t.zone)
	}
	hemi := "N"
	if t.south {
		hemi = "S"
	}
	return fmt.Sprintf("UTM %d%s (GRS80)", t.zone, hemi)
}

// CentralMeridian returns the zone's central meridian in degrees.
func (t *TransverseMercator) CentralMeridian() float64 { return degrees(t.lon0) }

var (
	ep2 = e2 / (1 - e2)
	e4  = e2 * e2
	e6  = e4 * e2

	m0 = 1 - e2/4 - 3*e4/64 - 5*e6/256
	m2 = 3*e2/8 + 3*e4/32 + 45*e6/1024
	m4 = 15*e4/256 + 45*e6/1024
	m6 = 35 * e6 / 3072
)

// meridianArc is the distance along the meridian from the equator to phi.
func meridianArc(phi float64) float64 {
	return semiMajor * (m0*phi - m2*math.Sin(2*phi) + m4*math.Sin(4*phi) - m6*math.Sin(6*phi))
}

// Forward projects longitude/latitude degrees to easting/northing metres.
func (t *TransverseMercator) Forward(lon, lat float64) (float64, float64) {
	phi := radians(lat)
	sin, cos, tan := math.Sin(phi), math.Cos(phi), math.Tan(phi)

	n := semiMajor / math.Sqrt(1-e2*sin*sin)
	tt := tan * tan
	c := ep2 * cos * cos
	a := (radians(lon) - t.lon0) * cos

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	x := utmScale*n*(a+(1-tt+c)*a3/6+(5-18*tt+tt*tt+72*c-58*ep2)*a5/120) + utmFalseEasting
	y := utmScale*(meridianArc(phi)+n*tan*(a2/2+(5-tt+9*c+4*c*c)*a4/24+
		(61-58*tt+tt*tt+600*c-330*ep2)*a6/720)) + t.falseN

	return x, y
}

// Inverse converts easting/northing metres back to longitude/latitude degrees.
func (t *TransverseMercator) Inverse(x, y float64) (float64, float64) {
	x -= utmFalseEasting
	y -= t.falseN

	mu := y / utmScale / (semiMajor * m0)
	sq := math.Sqrt(1 - e2)
	e1 := (1 - sq) / (1 + sq)
	e12 := e1 * e1
	e13 := e12 * e1
	e14 := e13 * e1

	phi1 := mu + (3*e1/2-27*e13/32)*math.Sin(2*mu) +
		(21*e12/16-55*e14/32)*math.Sin(4*mu) +
		(151*e13/96)*math.Sin(6*mu) +
		(1097*e14/512)*math.Sin(8*mu)

	sin, cos, tan := math.Sin(phi1), math.Cos(phi1), math.Tan(phi1)
	es := 1 - e2*sin*sin
	c1 := ep2 * cos * cos
	t1 := tan * tan
	n1 := semiMajor / math.Sqrt(es)
	r1 := semiMajor * (1 - e2) / math.Pow(es, 1.5)
	d := x / (n1 * utmScale)

	d2 := d * d
	d3 := d2 * d
	d4 := d3 * d
	d5 := d4 * d
	d6 := d5 * d

	phi := phi1 - (n1*tan/r1)*(d2/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*d4/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*d6/720)
	lam := t.lon0 + (d-(1+2*t1+c1)*d3/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*d5/120)/cos

	return degrees(lam), degrees(phi)
}
