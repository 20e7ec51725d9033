package service

import (
	"sync"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/estimator"
	"github.com/sigfinder/sigfinder-go/internal/metrics"
	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/pipeline"
	"github.com/sigfinder/sigfinder-go/internal/render"
	websock "github.com/sigfinder/sigfinder-go/internal/websocket"
)

// AnalysisResult is the outcome of one offline run.
type AnalysisResult struct {
	MinRSSI    float64                 `json:"minRssi"`
	Origins    []models.OriginEstimate `json:"origins"`
	Combined   *models.CombinedOrigin  `json:"combined,omitempty"`
	Render     render.Payload          `json:"render"`
	DurationMs int64                   `json:"durationMs"`
}

// AnalysisService runs the offline filter pipeline and origin estimation
// over the visible datasets.
type AnalysisService struct {
	mu      sync.Mutex
	minRSSI float64

	datasets  *DatasetService
	live      *LiveService
	hub       *websock.Hub
	collector *metrics.Collector
}

// NewAnalysisService creates an analysis service with the given default
// minimum RSSI cutoff.
func NewAnalysisService(minRSSI float64, datasets *DatasetService, live *LiveService, hub *websock.Hub, collector *metrics.Collector) *AnalysisService {
	return &AnalysisService{
		minRSSI:   minRSSI,
		datasets:  datasets,
		live:      live,
		hub:       hub,
		collector: collector,
	}
}

// MinRSSI returns the session's current cutoff.
func (s *AnalysisService) MinRSSI() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minRSSI
}

// SetMinRSSI updates the session cutoff used when a run does not override it.
func (s *AnalysisService) SetMinRSSI(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minRSSI = v
}

// Run filters every visible dataset, estimates per-dataset origins and the
// combined origin, and assembles the render payload. Visibility is
// snapshotted at the start of the run; mid-run toggles take effect on the
// next run. Datasets are processed concurrently since the pipeline is pure.
func (s *AnalysisService) Run(override *float64) (*AnalysisResult, error) {
	start := time.Now()

	minRSSI := s.MinRSSI()
	if override != nil {
		minRSSI = *override
	}

	snapshot := s.datasets.VisibleSnapshot()

	estimates := make([]*models.OriginEstimate, len(snapshot))
	cleaned := make([][]models.Sample, len(snapshot))

	var wg sync.WaitGroup
	for i := range snapshot {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds := snapshot[i]
			cleaned[i] = pipeline.Clean(ds.Samples, minRSSI)
			estimates[i] = estimator.Estimate(ds.ID, cleaned[i])
		}(i)
	}
	wg.Wait()

	origins := make([]models.OriginEstimate, 0, len(snapshot))
	for _, est := range estimates {
		if est != nil {
			origins = append(origins, *est)
		}
	}
	combined := estimator.Combine(origins)

	// Render over the cleaned samples so dropped rows never reach the map.
	renderSets := make([]models.Dataset, len(snapshot))
	for i, ds := range snapshot {
		renderSets[i] = ds
		renderSets[i].Samples = cleaned[i]
	}
	markers, err := s.live.Markers()
	if err != nil {
		return nil, err
	}
	payload := render.Build(renderSets, markers, origins, combined)

	result := &AnalysisResult{
		MinRSSI:    minRSSI,
		Origins:    origins,
		Combined:   combined,
		Render:     payload,
		DurationMs: time.Since(start).Milliseconds(),
	}

	if s.collector != nil {
		s.collector.AnalysisRuns.Inc()
		s.collector.AnalysisDuration.Observe(time.Since(start).Seconds())
	}
	if s.hub != nil {
		s.hub.Broadcast(websock.EventOrigin, result)
	}
	return result, nil
}
