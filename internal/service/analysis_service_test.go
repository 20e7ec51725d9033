package service

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

// csvFor builds a minimal importable log with n samples at one location.
// Samples are spaced 3 s apart so the oscillation filter sees calm windows.
func csvFor(lat, lon, rssi float64, n int) string {
	var b strings.Builder
	b.WriteString("Timestamp,Latitude,Longitude,Fix Quality,Num Satellites,RMC Status,RSSI (dBm)\n")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := base.Add(time.Duration(i) * 3 * time.Second)
		fmt.Fprintf(&b, "%s,%.6f,%.6f,1,8,A,%.1f\n", ts.Format(time.RFC3339), lat, lon, rssi)
	}
	return b.String()
}

func loadDataset(t *testing.T, svc *DatasetService, name, csv string) *models.Dataset {
	t.Helper()
	ds, err := svc.Load(name, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return ds
}

func newAnalysisFixture(t *testing.T) (*DatasetService, *AnalysisService) {
	t.Helper()
	datasets := NewDatasetService(nil, nil)
	live, err := NewLiveService(-80, t.TempDir(), nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	analysis := NewAnalysisService(-100, datasets, live, nil, nil)
	return datasets, analysis
}

func TestRunCombinesOnlyVisibleDatasets(t *testing.T) {
	datasets, analysis := newAnalysisFixture(t)

	loadDataset(t, datasets, "a", csvFor(10, 20, -80, 4))
	loadDataset(t, datasets, "b", csvFor(10.1, 20.1, -80, 4))
	c := loadDataset(t, datasets, "c", csvFor(50, 60, -50, 4))
	if err := datasets.SetVisible(c.ID, false); err != nil {
		t.Fatal(err)
	}

	result, err := analysis.Run(nil)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Origins) != 2 {
		t.Fatalf("origins = %d, want 2", len(result.Origins))
	}
	if result.Combined == nil {
		t.Fatal("expected a combined origin")
	}
	// Equal confidences: the combined origin is the plain midpoint.
	if math.Abs(result.Combined.Latitude-10.05) > 1e-9 || math.Abs(result.Combined.Longitude-20.05) > 1e-9 {
		t.Errorf("combined = (%v, %v), want (10.05, 20.05)", result.Combined.Latitude, result.Combined.Longitude)
	}
	if result.Combined.ConfidenceRadiusMeters != models.CombinedConfidenceRadiusMeters {
		t.Errorf("radius = %v, want %v", result.Combined.ConfidenceRadiusMeters, models.CombinedConfidenceRadiusMeters)
	}
}

func TestRunWithNoVisibleDatasetsIsEmpty(t *testing.T) {
	datasets, analysis := newAnalysisFixture(t)

	ds := loadDataset(t, datasets, "a", csvFor(10, 20, -80, 4))
	if err := datasets.SetVisible(ds.ID, false); err != nil {
		t.Fatal(err)
	}

	result, err := analysis.Run(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Origins) != 0 || result.Combined != nil {
		t.Errorf("expected empty result, got %d origins combined=%v", len(result.Origins), result.Combined)
	}
}

func TestRunCutoffOverrideDropsWeakDataset(t *testing.T) {
	datasets, analysis := newAnalysisFixture(t)

	loadDataset(t, datasets, "strong", csvFor(10, 20, -80, 4))
	loadDataset(t, datasets, "weak", csvFor(11, 21, -95, 4))

	cutoff := -90.0
	result, err := analysis.Run(&cutoff)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Origins) != 1 {
		t.Fatalf("origins = %d, want 1 after cutoff", len(result.Origins))
	}
	if result.MinRSSI != cutoff {
		t.Errorf("minRssi = %v, want %v", result.MinRSSI, cutoff)
	}
	if math.Abs(result.Combined.Latitude-10) > 1e-9 {
		t.Errorf("combined lat = %v, want 10", result.Combined.Latitude)
	}
}

func TestDatasetColorsCycleInLoadOrder(t *testing.T) {
	datasets, _ := newAnalysisFixture(t)

	first := loadDataset(t, datasets, "a", csvFor(10, 20, -80, 1))
	second := loadDataset(t, datasets, "b", csvFor(10, 20, -80, 1))

	if first.Color != models.ColorForIndex(0) || second.Color != models.ColorForIndex(1) {
		t.Errorf("colors = %s, %s; want cycle order", first.Color, second.Color)
	}
	if !first.Visible || !second.Visible {
		t.Error("datasets should be visible by default")
	}
}

func TestDatasetGetReportsRSSISummary(t *testing.T) {
	datasets, _ := newAnalysisFixture(t)

	var b strings.Builder
	b.WriteString("Timestamp,Latitude,Longitude,Fix Quality,Num Satellites,RMC Status,RSSI (dBm)\n")
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, rssi := range []float64{-90, -80, -70, -100} {
		fmt.Fprintf(&b, "%s,10.0,20.0,1,8,A,%.1f\n", base.Add(time.Duration(i)*3*time.Second).Format(time.RFC3339), rssi)
	}
	ds := loadDataset(t, datasets, "a", b.String())

	got, err := datasets.Get(ds.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RSSISummary == nil {
		t.Fatal("expected an RSSI summary on the detail response")
	}
	s := got.RSSISummary
	if s.MinDbm != -100 || s.MaxDbm != -70 {
		t.Errorf("min/max = %v/%v, want -100/-70", s.MinDbm, s.MaxDbm)
	}
	if math.Abs(s.MeanDbm-(-85)) > 1e-9 || math.Abs(s.MedianDbm-(-85)) > 1e-9 {
		t.Errorf("mean/median = %v/%v, want -85/-85", s.MeanDbm, s.MedianDbm)
	}
}

func TestDatasetListVisibleOnly(t *testing.T) {
	datasets, _ := newAnalysisFixture(t)

	loadDataset(t, datasets, "a", csvFor(10, 20, -80, 1))
	hidden := loadDataset(t, datasets, "b", csvFor(10, 20, -80, 1))
	if err := datasets.SetVisible(hidden.ID, false); err != nil {
		t.Fatal(err)
	}

	all := datasets.List(models.DatasetFilter{})
	visible := datasets.List(models.DatasetFilter{VisibleOnly: true})
	if len(all) != 2 || len(visible) != 1 {
		t.Fatalf("list sizes = %d/%d, want 2/1", len(all), len(visible))
	}
	if visible[0].Name != "a" {
		t.Errorf("visible dataset = %s, want a", visible[0].Name)
	}
}

func TestDatasetLoadFromPath(t *testing.T) {
	datasets, _ := newAnalysisFixture(t)

	path := filepath.Join(t.TempDir(), "drive_log.csv")
	if err := os.WriteFile(path, []byte(csvFor(10, 20, -80, 2)), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := datasets.LoadFile("", path)
	if err != nil {
		t.Fatal(err)
	}
	if ds.Name != "drive_log.csv" {
		t.Errorf("name = %s, want the file name", ds.Name)
	}
	if ds.SampleCount != 2 {
		t.Errorf("sample count = %d, want 2", ds.SampleCount)
	}
}

func TestDatasetDeleteRemovesFromSnapshot(t *testing.T) {
	datasets, _ := newAnalysisFixture(t)

	ds := loadDataset(t, datasets, "a", csvFor(10, 20, -80, 2))
	if err := datasets.Delete(ds.ID); err != nil {
		t.Fatal(err)
	}
	if err := datasets.Delete(ds.ID); err != ErrDatasetNotFound {
		t.Errorf("second delete err = %v, want ErrDatasetNotFound", err)
	}
	if got := len(datasets.VisibleSnapshot()); got != 0 {
		t.Errorf("snapshot size = %d, want 0", got)
	}
}
