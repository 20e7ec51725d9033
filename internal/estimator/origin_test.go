package estimator

import (
	"math"
	"testing"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

func sample(lat, lon, rssi float64) models.Sample {
	return models.Sample{
		Timestamp: time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC),
		Latitude:  lat,
		Longitude: lon,
		RSSI:      rssi,
	}
}

func TestEstimateEmptyInput(t *testing.T) {
	if est := Estimate("d1", nil); est != nil {
		t.Fatalf("expected no estimate for empty input, got %+v", est)
	}
	if est := Estimate("d1", []models.Sample{}); est != nil {
		t.Fatalf("expected no estimate for empty slice, got %+v", est)
	}
}

func TestEstimateSingleSample(t *testing.T) {
	est := Estimate("d1", []models.Sample{sample(10.5, 20.25, -80)})
	if est == nil {
		t.Fatal("expected an estimate")
	}
	if est.Latitude != 10.5 || est.Longitude != 20.25 {
		t.Fatalf("estimate at (%f, %f), want sample position", est.Latitude, est.Longitude)
	}
	if math.Abs(est.Confidence-1.0/50) > 1e-12 {
		t.Fatalf("confidence = %f, want 1/50", est.Confidence)
	}
	if est.DatasetID != "d1" {
		t.Fatalf("dataset id = %q", est.DatasetID)
	}
}

func TestEstimateWeightedTowardStrongSignals(t *testing.T) {
	// Two samples survive the top-60% cut (ceil(0.6*2)=2); the stronger
	// one carries 10x the power weight, pulling the centroid toward it.
	samples := []models.Sample{
		sample(10.0, 20.0, -70),
		sample(11.0, 21.0, -80),
	}
	est := Estimate("d1", samples)
	if est == nil {
		t.Fatal("expected an estimate")
	}

	// w1 = 10^-7, w2 = 10^-8 -> centroid at 10 + 1/11 degrees.
	wantLat := (10.0*math.Pow(10, -7) + 11.0*math.Pow(10, -8)) / (math.Pow(10, -7) + math.Pow(10, -8))
	if math.Abs(est.Latitude-wantLat) > 1e-9 {
		t.Fatalf("latitude = %f, want %f", est.Latitude, wantLat)
	}
	if est.Latitude >= 10.5 {
		t.Fatalf("centroid %f not pulled toward the stronger sample", est.Latitude)
	}
}

func TestEstimateTopSubsetSelection(t *testing.T) {
	// 5 samples: top 60% keeps ceil(3) = 3 strongest. The weak far-away
	// pair must not influence the centroid.
	samples := []models.Sample{
		sample(10.0, 20.0, -60),
		sample(10.001, 20.001, -61),
		sample(10.002, 20.002, -62),
		sample(50.0, 80.0, -119),
		sample(-50.0, -80.0, -120),
	}
	est := Estimate("d1", samples)
	if est == nil {
		t.Fatal("expected an estimate")
	}
	if est.SampleCount != 3 {
		t.Fatalf("contributing samples = %d, want 3", est.SampleCount)
	}
	if est.Latitude < 10.0 || est.Latitude > 10.002 {
		t.Fatalf("latitude %f outside the strong cluster", est.Latitude)
	}
}

func TestEstimateInformativeAxis(t *testing.T) {
	tests := []struct {
		name    string
		samples []models.Sample
		want    models.Axis
	}{
		{
			name: "north-south spread",
			samples: []models.Sample{
				sample(10.00, 20.0, -80),
				sample(10.10, 20.0, -81),
			},
			want: models.AxisNorthSouth,
		},
		{
			name: "east-west spread",
			samples: []models.Sample{
				sample(10.0, 20.00, -80),
				sample(10.0, 20.10, -81),
			},
			want: models.AxisEastWest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			est := Estimate("d1", tc.samples)
			if est == nil {
				t.Fatal("expected an estimate")
			}
			if est.InformativeAxis != tc.want {
				t.Fatalf("informative axis = %q, want %q", est.InformativeAxis, tc.want)
			}
		})
	}
}

func TestEstimateConfidenceSaturates(t *testing.T) {
	samples := make([]models.Sample, 100)
	for i := range samples {
		samples[i] = sample(10.0, 20.0, -80)
	}
	est := Estimate("d1", samples)
	if est == nil {
		t.Fatal("expected an estimate")
	}
	if est.Confidence != 1.0 {
		t.Fatalf("confidence = %f, want saturation at 1.0", est.Confidence)
	}
}

func TestEstimateDiscardsInvalidCoordinates(t *testing.T) {
	samples := []models.Sample{
		sample(10.0, 20.0, -80),
		sample(95.0, 20.0, -70), // invalid latitude, treated as absent
	}
	est := Estimate("d1", samples)
	if est == nil {
		t.Fatal("expected an estimate from the remaining valid sample")
	}
	if est.Latitude != 10.0 {
		t.Fatalf("latitude = %f, want 10.0", est.Latitude)
	}
}

func TestCombineEmpty(t *testing.T) {
	if got := Combine(nil); got != nil {
		t.Fatalf("expected no combined origin, got %+v", got)
	}
}

func TestCombineWeightedMean(t *testing.T) {
	estimates := []models.OriginEstimate{
		{DatasetID: "a", Latitude: 10.0, Longitude: 20.0, Confidence: 0.4},
		{DatasetID: "b", Latitude: 10.1, Longitude: 20.1, Confidence: 0.6},
	}

	combined := Combine(estimates)
	if combined == nil {
		t.Fatal("expected a combined origin")
	}

	wantLat := (10.0*0.4 + 10.1*0.6) / 1.0
	wantLon := (20.0*0.4 + 20.1*0.6) / 1.0
	if math.Abs(combined.Latitude-wantLat) > 1e-9 || math.Abs(combined.Longitude-wantLon) > 1e-9 {
		t.Fatalf("combined = (%f, %f), want (%f, %f)",
			combined.Latitude, combined.Longitude, wantLat, wantLon)
	}
	if combined.ConfidenceRadiusMeters != models.CombinedConfidenceRadiusMeters {
		t.Fatalf("radius = %f, want the fixed 2-mile constant", combined.ConfidenceRadiusMeters)
	}
}

func TestCombineIgnoresHiddenDatasetsByConstruction(t *testing.T) {
	// The aggregator receives only the visible snapshot; C's estimate is
	// simply not in the input, so the result equals the A+B mean no
	// matter what C contains.
	visible := []models.OriginEstimate{
		{DatasetID: "a", Latitude: 10.0, Longitude: 20.0, Confidence: 0.4},
		{DatasetID: "b", Latitude: 10.1, Longitude: 20.1, Confidence: 0.6},
	}
	withHidden := Combine(visible)
	allThree := Combine(append(visible, models.OriginEstimate{
		DatasetID: "c", Latitude: -33.0, Longitude: 151.0, Confidence: 0.9,
	}))

	if withHidden.Latitude == allThree.Latitude {
		t.Fatal("visibility change did not affect the combined origin")
	}
}
