package models

// Axis names the horizontal direction with the larger metric extent in a
// cleaned dataset. It is advisory display metadata; the centroid math does
// not correct along it.
type Axis string

const (
	AxisNorthSouth Axis = "north-south"
	AxisEastWest   Axis = "east-west"
)

// CombinedConfidenceRadiusMeters is the fixed 2-statute-mile search-area
// circle drawn around a combined origin. It is deliberately not derived
// from the data.
const CombinedConfidenceRadiusMeters = 3218.688

// OriginEstimate is the per-dataset transmitter origin estimate. It is a
// pure function of the cleaned samples; every analysis run recomputes it
// from scratch.
type OriginEstimate struct {
	DatasetID string  `json:"sourceDatasetId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Confidence ramps linearly with the number of contributing samples
	// and saturates at 50. It weights the combined origin; it is not a
	// probability.
	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sampleCount"`

	// Bounding extents of the strongest-signal subset, in meters.
	NSSpanMeters    float64 `json:"nsSpanMeters"`
	EWSpanMeters    float64 `json:"ewSpanMeters"`
	InformativeAxis Axis    `json:"informativeAxis"`
}

// CombinedOrigin merges the visible datasets' estimates into one point with
// a fixed-radius search circle.
type CombinedOrigin struct {
	Latitude               float64 `json:"latitude"`
	Longitude              float64 `json:"longitude"`
	ConfidenceRadiusMeters float64 `json:"confidenceRadiusMeters"`
}
