// Package estimator derives transmitter origin estimates from cleaned
// sample sequences and merges per-dataset estimates into a combined origin.
// Every function here is pure: estimates are recomputed in full from their
// inputs on every run and nothing is carried over between runs.
package estimator

import (
	"math"
	"sort"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/spatial"
	"github.com/sigfinder/sigfinder-go/internal/stats"
)

const (
	// topFraction selects the strongest-signal subset the centroid is
	// computed over.
	topFraction = 0.6

	// confidenceSaturation is the contributing-sample count at which the
	// confidence ramp reaches 1.0.
	confidenceSaturation = 50

	// metersPerDegreeLat converts latitude degrees to meters; longitude
	// degrees additionally scale by cos(latitude).
	metersPerDegreeLat = 111320.0
)

// Estimate computes the weighted-centroid origin of one cleaned dataset.
// Returns nil for an empty input: "no estimate" is a valid outcome and
// callers skip the dataset downstream.
func Estimate(datasetID string, cleaned []models.Sample) *models.OriginEstimate {
	valid := make([]models.Sample, 0, len(cleaned))
	for _, s := range cleaned {
		if spatial.ValidCoordinate(s.Latitude, s.Longitude) {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	top := strongestSubset(valid)

	// Power-domain weighting: w = 10^(rssi/10), so stronger signals
	// dominate non-linearly.
	lats := make([]float64, len(top))
	lons := make([]float64, len(top))
	weights := make([]float64, len(top))
	for i, s := range top {
		lats[i] = s.Latitude
		lons[i] = s.Longitude
		weights[i] = math.Pow(10, s.RSSI/10)
	}

	nsSpan, ewSpan := spanMeters(lats, lons)
	axis := models.AxisNorthSouth
	if ewSpan > nsSpan {
		axis = models.AxisEastWest
	}

	confidence := float64(len(top)) / confidenceSaturation
	if confidence > 1 {
		confidence = 1
	}

	return &models.OriginEstimate{
		DatasetID:       datasetID,
		Latitude:        stats.WeightedMean(lats, weights),
		Longitude:       stats.WeightedMean(lons, weights),
		Confidence:      confidence,
		SampleCount:     len(top),
		NSSpanMeters:    nsSpan,
		EWSpanMeters:    ewSpan,
		InformativeAxis: axis,
	}
}

// strongestSubset returns the top 60% of samples by RSSI (rounded up,
// minimum one sample), strongest first.
func strongestSubset(samples []models.Sample) []models.Sample {
	sorted := make([]models.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RSSI > sorted[j].RSSI
	})

	k := int(math.Ceil(float64(len(sorted)) * topFraction))
	if k < 1 {
		k = 1
	}
	if k > len(sorted) {
		k = len(sorted)
	}
	return sorted[:k]
}

// spanMeters converts the subset's bounding extents to meters. The wider
// axis carries more positional signal; the caller records it as advisory
// metadata only and applies no numeric correction along it.
func spanMeters(lats, lons []float64) (nsSpan, ewSpan float64) {
	meanLat := stats.Mean(lats)
	nsSpan = (stats.Max(lats) - stats.Min(lats)) * metersPerDegreeLat
	ewSpan = (stats.Max(lons) - stats.Min(lons)) * metersPerDegreeLat * math.Cos(meanLat*math.Pi/180)
	return nsSpan, ewSpan
}

// Combine merges the origin estimates of the currently visible datasets
// into one confidence-weighted centroid. Returns nil when the visible set
// contributed no estimates; the caller renders "no combined origin". The
// confidence radius is a fixed search-area indicator, never derived from
// the inputs.
func Combine(estimates []models.OriginEstimate) *models.CombinedOrigin {
	if len(estimates) == 0 {
		return nil
	}

	lats := make([]float64, len(estimates))
	lons := make([]float64, len(estimates))
	weights := make([]float64, len(estimates))
	for i, est := range estimates {
		lats[i] = est.Latitude
		lons[i] = est.Longitude
		weights[i] = est.Confidence
	}

	return &models.CombinedOrigin{
		Latitude:               stats.WeightedMean(lats, weights),
		Longitude:              stats.WeightedMean(lons, weights),
		ConfidenceRadiusMeters: models.CombinedConfidenceRadiusMeters,
	}
}
