// Package service implements the application logic on top of the engine
// packages: dataset management, the live tracking session and offline
// analysis.
package service

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sigfinder/sigfinder-go/internal/csvlog"
	"github.com/sigfinder/sigfinder-go/internal/metrics"
	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/repository"
	"github.com/sigfinder/sigfinder-go/internal/stats"
)

// ErrDatasetNotFound is returned when a dataset ID is unknown.
var ErrDatasetNotFound = fmt.Errorf("dataset not found")

// DatasetService manages loaded RSSI log datasets. Samples live in memory;
// the catalog row (name, color, visibility) is persisted so the dataset list
// survives restarts even though samples must be re-imported.
type DatasetService struct {
	mu        sync.RWMutex
	datasets  map[string]*models.Dataset
	loadOrder []string

	repo      *repository.DatasetRepository
	collector *metrics.Collector
}

// NewDatasetService creates a new dataset service
func NewDatasetService(repo *repository.DatasetRepository, collector *metrics.Collector) *DatasetService {
	return &DatasetService{
		datasets:  make(map[string]*models.Dataset),
		repo:      repo,
		collector: collector,
	}
}

// Load imports a CSV log under the given display name. Malformed rows are
// skipped and counted; an importable file with zero valid samples is still a
// valid (empty) dataset.
func (s *DatasetService) Load(name string, r io.Reader) (*models.Dataset, error) {
	samples, skipped, err := csvlog.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to import dataset %q: %w", name, err)
	}
	return s.adopt(name, samples, skipped)
}

// LoadFile imports a CSV log from a path on the server, the way the desktop
// tooling loads session logs in place. The display name defaults to the
// file name.
func (s *DatasetService) LoadFile(name, path string) (*models.Dataset, error) {
	if name == "" {
		name = filepath.Base(path)
	}
	samples, skipped, err := csvlog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to import dataset %q: %w", name, err)
	}
	return s.adopt(name, samples, skipped)
}

func (s *DatasetService) adopt(name string, samples []models.Sample, skipped int) (*models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds := &models.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		Color:       models.ColorForIndex(len(s.loadOrder)),
		Visible:     true,
		LoadedAt:    time.Now().UTC(),
		Samples:     samples,
		SampleCount: len(samples),
		SkippedRows: skipped,
	}

	if s.repo != nil {
		if err := s.repo.Insert(ds); err != nil {
			return nil, err
		}
	}

	s.datasets[ds.ID] = ds
	s.loadOrder = append(s.loadOrder, ds.ID)
	if s.collector != nil {
		s.collector.DatasetsLoaded.Set(float64(len(s.datasets)))
	}

	out := *ds
	return &out, nil
}

// List returns the dataset catalog in load order, without samples.
func (s *DatasetService) List(filter models.DatasetFilter) []models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Dataset, 0, len(s.loadOrder))
	for _, id := range s.loadOrder {
		ds := *s.datasets[id]
		if filter.VisibleOnly && !ds.Visible {
			continue
		}
		ds.Samples = nil
		out = append(out, ds)
	}
	return out
}

// Get returns one dataset with its samples and raw RSSI summary.
func (s *DatasetService) Get(id string) (*models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.datasets[id]
	if !ok {
		return nil, ErrDatasetNotFound
	}
	out := *ds
	if len(out.Samples) > 0 {
		values := make([]float64, len(out.Samples))
		for i, sample := range out.Samples {
			values[i] = sample.RSSI
		}
		out.RSSISummary = &models.RSSISummary{
			MinDbm:    stats.Min(values),
			MaxDbm:    stats.Max(values),
			MeanDbm:   stats.Mean(values),
			MedianDbm: stats.Median(values),
		}
	}
	return &out, nil
}

// Restore reloads the persisted dataset catalog. Samples are not persisted,
// so restored datasets stay empty until their file is imported again.
func (s *DatasetService) Restore() (int, error) {
	if s.repo == nil {
		return 0, nil
	}
	rows, err := s.repo.List()
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if _, ok := s.datasets[row.ID]; ok {
			continue
		}
		ds := row
		s.datasets[ds.ID] = &ds
		s.loadOrder = append(s.loadOrder, ds.ID)
	}
	if s.collector != nil {
		s.collector.DatasetsLoaded.Set(float64(len(s.datasets)))
	}
	return len(rows), nil
}

// SetVisible toggles whether a dataset participates in analysis and rendering.
func (s *DatasetService) SetVisible(id string, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, ok := s.datasets[id]
	if !ok {
		return ErrDatasetNotFound
	}
	ds.Visible = visible

	if s.repo != nil {
		if err := s.repo.SetVisible(id, visible); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a dataset entirely.
func (s *DatasetService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.datasets[id]; !ok {
		return ErrDatasetNotFound
	}
	delete(s.datasets, id)
	for i, other := range s.loadOrder {
		if other == id {
			s.loadOrder = append(s.loadOrder[:i], s.loadOrder[i+1:]...)
			break
		}
	}

	if s.collector != nil {
		s.collector.DatasetsLoaded.Set(float64(len(s.datasets)))
	}
	if s.repo != nil {
		return s.repo.Delete(id)
	}
	return nil
}

// VisibleSnapshot returns a stable copy of the visible datasets, samples
// included, for an analysis run. Samples are immutable so the slices are
// shared, not copied.
func (s *DatasetService) VisibleSnapshot() []models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Dataset, 0, len(s.loadOrder))
	for _, id := range s.loadOrder {
		ds := s.datasets[id]
		if !ds.Visible {
			continue
		}
		out = append(out, *ds)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoadedAt.Before(out[j].LoadedAt) })
	return out
}
