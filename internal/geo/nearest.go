package geo

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/boundary-cli/internal/apperr"
)

// Candidate is the result of a nearest search.
type Candidate struct {
	Coord    geom.Coord
	Index    int // vertex or segment index in enumeration order
	Distance float64
}

// Nearest finds the closest candidate to a planar query point.
// Implementations return the first minimum in their enumeration order.
type Nearest interface {
	Nearest(p geom.Coord) (Candidate, error)
}

// VertexScan is an exhaustive nearest-vertex search.
type VertexScan struct {
	coords []geom.Coord
}

// NewVertexScan returns a VertexScan over coords.
func NewVertexScan(coords []geom.Coord) *VertexScan {
	return &VertexScan{coords: coords}
}

// Len returns the number of vertices scanned.
func (s *VertexScan) Len() int { return len(s.coords) }

// Nearest returns the closest vertex to p.
func (s *VertexScan) Nearest(p geom.Coord) (Candidate, error) {
	if len(s.coords) == 0 {
		return Candidate{}, apperr.NewNotFoundError("boundary vertices (empty vertex set)")
	}

	best := Candidate{Index: -1, Distance: math.Inf(1)}
	for i, c := range s.coords {
		if d := Distance(p, c); d < best.Distance {
			best = Candidate{Coord: c, Index: i, Distance: d}
		}
	}
	return best, nil
}

// OutlineScan is a point-to-polyline search over every segment of every ring.
type OutlineScan struct {
	rings [][]geom.Coord
}

// NewOutlineScan returns an OutlineScan over rings. All rings form a single
// candidate set; holes count the same as exterior rings.
func NewOutlineScan(rings [][]geom.Coord) *OutlineScan {
	return &OutlineScan{rings: rings}
}

// Nearest returns the closest point on the outline to p. Index counts
// segments across rings; a single-coordinate ring counts as one segment.
func (s *OutlineScan) Nearest(p geom.Coord) (Candidate, error) {
	best := Candidate{Index: -1, Distance: math.Inf(1)}
	seg := 0
	for _, ring := range s.rings {
		switch len(ring) {
		case 0:
			continue
		case 1:
			if d := Distance(p, ring[0]); d < best.Distance {
				best = Candidate{Coord: ring[0], Index: seg, Distance: d}
			}
			seg++
			continue
		}
		for i := 1; i < len(ring); i++ {
			c, d := ClosestOnSegment(p, ring[i-1], ring[i])
			if d < best.Distance {
				best = Candidate{Coord: c, Index: seg, Distance: d}
			}
			seg++
		}
	}

	if best.Index < 0 {
		return Candidate{}, apperr.NewNotFoundError("boundary outline (no segments)")
	}
	return best, nil
}

// ClosestOnSegment projects p onto segment ab, clamped to the endpoints, and
// returns the projected point with its distance from p.
func ClosestOnSegment(p, a, b geom.Coord) (geom.Coord, float64) {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return geom.Coord{a.X(), a.Y()}, Distance(p, a)
	}

	t := ((p.X()-a.X())*dx + (p.Y()-a.Y())*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	c := geom.Coord{a.X() + t*dx, a.Y() + t*dy}
	return c, Distance(p, c)
}

// Distance is the planar Euclidean distance between a and b.
func Distance(a, b geom.Coord) float64 {
	return math.Hypot(a.X()-b.X(), a.Y()-b.Y())
}
