package geo

// Agreement classes for a surveyed corner against a mapped boundary.
const (
	ClassCoincident = "coincident"
	ClassClose      = "close"
	ClassOffset     = "offset"
	ClassDivergent  = "divergent"
)

// Distance thresholds for classification (metres).
const (
	coincidentThreshold = 1.0   // survey-grade agreement
	closeThreshold      = 10.0  // typical OSM tracing error
	offsetThreshold     = 100.0 // beyond this the outline follows a different line
)

// Classify returns the agreement class for a corner given its distance to the
// nearest outline point and to the nearest vertex.
// Rules:
//   - coincident: a vertex within 1m
//   - close: outline within 10m
//   - offset: outline within 100m
//   - divergent: outline farther than 100m
func Classify(boundaryM, vertexM float64) string {
	switch {
	case vertexM <= coincidentThreshold:
		return ClassCoincident
	case boundaryM <= closeThreshold:
		return ClassClose
	case boundaryM <= offsetThreshold:
		return ClassOffset
	default:
		return ClassDivergent
	}
}
