package render

import (
	"math"
	"testing"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

func sample(lat, lon, rssi float64) models.Sample {
	return models.Sample{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Latitude:  lat,
		Longitude: lon,
		RSSI:      rssi,
	}
}

func TestBuildSkipsHiddenDatasets(t *testing.T) {
	datasets := []models.Dataset{
		{ID: "a", Name: "a", Color: "#FF0000", Visible: true, Samples: []models.Sample{sample(10, 20, -80), sample(10.001, 20.001, -81)}},
		{ID: "b", Name: "b", Color: "#00FF00", Visible: false, Samples: []models.Sample{sample(50, 60, -70)}},
	}

	p := Build(datasets, nil, nil, nil)

	if len(p.Tracks) != 1 {
		t.Fatalf("tracks = %d, want 1", len(p.Tracks))
	}
	if p.Tracks[0].DatasetID != "a" {
		t.Errorf("track dataset = %s, want a", p.Tracks[0].DatasetID)
	}
	if p.Bounds == nil {
		t.Fatal("expected bounds")
	}
	if p.Bounds.MaxLat > 11 {
		t.Errorf("hidden dataset leaked into bounds: %+v", p.Bounds)
	}
}

func TestBuildEmptyIsValid(t *testing.T) {
	p := Build(nil, nil, nil, nil)
	if len(p.Tracks) != 0 || len(p.Heatmap) != 0 || p.Bounds != nil || p.Combined != nil {
		t.Errorf("empty build produced content: %+v", p)
	}
	if p.Markers == nil || p.Origins == nil {
		t.Error("markers and origins should marshal as [] rather than null")
	}
}

func TestBuildExtendsBoundsWithMarkers(t *testing.T) {
	datasets := []models.Dataset{
		{ID: "a", Visible: true, Samples: []models.Sample{sample(10, 20, -80), sample(10.01, 20.01, -81)}},
	}
	markers := []models.Marker{{Latitude: 12, Longitude: 22, RSSI: -60}}

	p := Build(datasets, markers, nil, nil)

	if p.Bounds == nil {
		t.Fatal("expected bounds")
	}
	if p.Bounds.MaxLat != 12 || p.Bounds.MaxLon != 22 {
		t.Errorf("bounds not extended by marker: %+v", p.Bounds)
	}
}

func TestHeatmapBinsNearbyPoints(t *testing.T) {
	// Two samples a few meters apart share one 100 m cell; a third far away
	// lands in its own cell.
	datasets := []models.Dataset{
		{ID: "a", Visible: true, Samples: []models.Sample{
			sample(10.00000, 20.00000, -80),
			sample(10.00001, 20.00001, -80),
			sample(10.10000, 20.10000, -80),
		}},
	}

	p := Build(datasets, nil, nil, nil)

	if len(p.Heatmap) != 2 {
		t.Fatalf("heatmap cells = %d, want 2", len(p.Heatmap))
	}
	total := 0
	maxWeight := 0
	for _, h := range p.Heatmap {
		total += h.Weight
		if h.Weight > maxWeight {
			maxWeight = h.Weight
		}
	}
	if total != 3 || maxWeight != 2 {
		t.Errorf("heatmap weights total=%d max=%d, want 3 and 2", total, maxWeight)
	}
}

func TestOriginsCarryOffsetFromCombined(t *testing.T) {
	origins := []models.OriginEstimate{
		{DatasetID: "a", Latitude: 10.0, Longitude: 20.0, Confidence: 0.5},
	}
	combined := &models.CombinedOrigin{Latitude: 10.01, Longitude: 20.0}

	p := Build(nil, nil, origins, combined)

	if len(p.Origins) != 1 {
		t.Fatalf("origins = %d, want 1", len(p.Origins))
	}
	got := p.Origins[0]
	// 0.01 degrees of latitude is roughly 1.1 km.
	if got.OffsetFromCombinedMeters < 1000 || got.OffsetFromCombinedMeters > 1300 {
		t.Errorf("offset = %v m, want about 1.1 km", got.OffsetFromCombinedMeters)
	}
	// The origin lies due south of the combined point.
	if math.Abs(got.BearingFromCombinedDeg-180) > 1 {
		t.Errorf("bearing = %v, want about 180", got.BearingFromCombinedDeg)
	}

	// Without a combined origin the estimates pass through unannotated.
	p = Build(nil, nil, origins, nil)
	if p.Origins[0].OffsetFromCombinedMeters != 0 {
		t.Errorf("unexpected offset without a combined origin: %v", p.Origins[0].OffsetFromCombinedMeters)
	}
}

func TestBoundsIncludeOrigins(t *testing.T) {
	datasets := []models.Dataset{
		{ID: "a", Visible: true, Samples: []models.Sample{sample(10, 20, -80), sample(10.01, 20.01, -81)}},
	}
	origins := []models.OriginEstimate{{DatasetID: "a", Latitude: 10.5, Longitude: 20.5}}

	p := Build(datasets, nil, origins, nil)
	if p.Bounds == nil {
		t.Fatal("expected bounds")
	}
	if p.Bounds.MaxLat != 10.5 || p.Bounds.MaxLon != 20.5 {
		t.Errorf("bounds not extended by origin: %+v", p.Bounds)
	}
}

func TestMercatorRoundTrip(t *testing.T) {
	for _, tc := range [][2]float64{{0, 0}, {45.5, -122.6}, {-33.9, 151.2}} {
		x, y := toMercator(tc[0], tc[1])
		lat, lon := fromMercator(x, y)
		if math.Abs(lat-tc[0]) > 1e-9 || math.Abs(lon-tc[1]) > 1e-9 {
			t.Errorf("round trip (%v,%v) -> (%v,%v)", tc[0], tc[1], lat, lon)
		}
	}
}

func TestOutlineIsSimplified(t *testing.T) {
	// A long straight line collapses to its endpoints.
	samples := make([]models.Sample, 0, 50)
	for i := 0; i < 50; i++ {
		samples = append(samples, sample(10+float64(i)*0.0001, 20, -80))
	}
	p := Build([]models.Dataset{{ID: "a", Visible: true, Samples: samples}}, nil, nil, nil)

	if len(p.Tracks) != 1 {
		t.Fatal("expected one track")
	}
	if got := len(p.Tracks[0].Outline); got >= 50 {
		t.Errorf("outline length = %d, want fewer points than input", got)
	}
	if len(p.Tracks[0].Points) != 50 {
		t.Errorf("full track should keep all points, got %d", len(p.Tracks[0].Points))
	}
}
