package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/csvlog"
	"github.com/sigfinder/sigfinder-go/internal/metrics"
	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/nmea"
	"github.com/sigfinder/sigfinder-go/internal/repository"
	"github.com/sigfinder/sigfinder-go/internal/trigger"
	websock "github.com/sigfinder/sigfinder-go/internal/websocket"
)

// ErrNoSession is returned by ingest calls outside an active session.
var ErrNoSession = errors.New("no active session")

// LiveService owns the live tracking session: the current GPS fix, the
// trigger state machine, the CSV auto-logger and event broadcasting. One
// session is active at a time; all sample processing is serialized under the
// service mutex so trigger state transitions stay strictly ordered.
type LiveService struct {
	mu sync.Mutex

	running bool
	started time.Time
	paused  bool

	fix        *models.Sample // last position fix, nil before first GGA/RMC
	satellites int
	fixCount   int64
	lastRSSI   *float64

	triggerCfg   trigger.Config
	triggerState trigger.State

	logDir string
	logger *csvlog.Logger

	markers   *repository.MarkerRepository
	hub       *websock.Hub
	collector *metrics.Collector
}

// NewLiveService creates a live service with the given trigger threshold.
func NewLiveService(thresholdDbm float64, logDir string, markers *repository.MarkerRepository, hub *websock.Hub, collector *metrics.Collector) (*LiveService, error) {
	cfg := trigger.Config{ThresholdDbm: thresholdDbm}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LiveService{
		triggerCfg:   cfg,
		triggerState: trigger.NewState(),
		logDir:       logDir,
		markers:      markers,
		hub:          hub,
		collector:    collector,
	}, nil
}

// StartSession begins a new tracking session and opens a fresh auto-log.
// Trigger state resets so the first qualifying sample can fire.
func (s *LiveService) StartSession() (*models.LiveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, errors.New("session already running")
	}

	logger, err := csvlog.NewLogger(s.logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open auto-log: %w", err)
	}

	s.running = true
	s.started = time.Now().UTC()
	s.paused = false
	s.fix = nil
	s.satellites = 0
	s.fixCount = 0
	s.lastRSSI = nil
	s.logger = logger
	s.triggerState = trigger.NewState()

	status := s.statusLocked()
	s.broadcastStatus(status)
	return &status, nil
}

// StopSession ends the session and closes the auto-log. Markers persist.
func (s *LiveService) StopSession() (*models.LiveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrNoSession
	}

	s.running = false
	if s.logger != nil {
		if err := s.logger.Close(); err != nil {
			return nil, fmt.Errorf("failed to close auto-log: %w", err)
		}
		s.logger = nil
	}

	status := s.statusLocked()
	s.broadcastStatus(status)
	return &status, nil
}

// SetPaused suspends or resumes auto-logging without ending the session.
func (s *LiveService) SetPaused(paused bool) (*models.LiveStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrNoSession
	}
	s.paused = paused
	if s.logger != nil {
		s.logger.SetPaused(paused)
	}

	status := s.statusLocked()
	s.broadcastStatus(status)
	return &status, nil
}

// IngestNMEA updates the current fix from one NMEA sentence. Unsupported
// sentence types are ignored without error.
func (s *LiveService) IngestNMEA(line string) error {
	sentence, err := nmea.Parse(line)
	if err != nil {
		if errors.Is(err, nmea.ErrUnsupported) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrNoSession
	}

	if sentence.Satellites != nil {
		s.satellites = *sentence.Satellites
	}
	if !sentence.HasPosition() {
		return nil
	}

	fix := models.Sample{
		Timestamp: time.Now().UTC(),
		Latitude:  *sentence.Latitude,
		Longitude: *sentence.Longitude,
	}
	if sentence.FixQuality != nil {
		fix.FixQuality = *sentence.FixQuality
	} else if s.fix != nil {
		fix.FixQuality = s.fix.FixQuality
	}
	if sentence.Satellites != nil {
		fix.Satellites = *sentence.Satellites
	} else {
		fix.Satellites = s.satellites
	}
	if sentence.RMCStatus != nil {
		fix.RMCStatus = *sentence.RMCStatus
	} else if s.fix != nil {
		fix.RMCStatus = s.fix.RMCStatus
	}
	s.fix = &fix
	s.fixCount++

	s.broadcast(websock.EventPosition, fix)
	return nil
}

// IngestRSSI joins an RSSI reading with the current fix, logs the sample and
// runs the trigger. A reading arriving before any fix is processed without a
// position: it can re-arm the trigger but never fires or consumes the edge.
func (s *LiveService) IngestRSSI(rssi float64, at *time.Time) (*models.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrNoSession
	}

	ts := time.Now().UTC()
	if at != nil {
		ts = at.UTC()
	}

	sample := models.Sample{Timestamp: ts, RSSI: rssi}
	if s.fix != nil {
		sample.Latitude = s.fix.Latitude
		sample.Longitude = s.fix.Longitude
		sample.FixQuality = s.fix.FixQuality
		sample.Satellites = s.fix.Satellites
		sample.RMCStatus = s.fix.RMCStatus
	} else {
		// No fix yet: poison the coordinate so the trigger treats the
		// sample as position-less rather than at (0,0).
		sample.Latitude = 91
		sample.Longitude = 181
	}

	s.lastRSSI = &rssi
	if s.collector != nil {
		s.collector.SamplesIngested.Inc()
	}
	if s.logger != nil && s.fix != nil {
		if err := s.logger.Log(sample); err != nil {
			return nil, fmt.Errorf("failed to log sample: %w", err)
		}
	}

	wasArmed := s.triggerState.Armed
	state, marker := trigger.OnSample(sample, s.triggerState, s.triggerCfg)
	s.triggerState = state

	if marker == nil {
		if wasArmed && !state.Armed && s.collector != nil {
			s.collector.EdgesSuppressed.Inc()
		}
		return nil, nil
	}

	if s.markers != nil {
		if err := s.markers.Insert(marker); err != nil {
			return nil, err
		}
	}
	if s.collector != nil {
		s.collector.MarkersPlaced.Inc()
	}
	s.broadcast(websock.EventMarker, marker)
	return marker, nil
}

// Markers returns all persisted trigger markers.
func (s *LiveService) Markers() ([]models.Marker, error) {
	if s.markers == nil {
		return []models.Marker{}, nil
	}
	markers, err := s.markers.List()
	if err != nil {
		return nil, err
	}
	if markers == nil {
		markers = []models.Marker{}
	}
	return markers, nil
}

// ClearMarkers deletes all markers and resets the spacing memory. The armed
// flag is untouched so clearing never causes a spurious fire.
func (s *LiveService) ClearMarkers() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.triggerState = trigger.ClearMarkers(s.triggerState)
	if s.markers != nil {
		return s.markers.DeleteAll()
	}
	return nil
}

// TriggerConfig returns the active trigger settings.
func (s *LiveService) TriggerConfig() trigger.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.triggerCfg
}

// SetTriggerConfig validates and applies new trigger settings. The armed
// state is preserved across threshold changes.
func (s *LiveService) SetTriggerConfig(cfg trigger.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggerCfg = cfg
	return nil
}

// Status reports the current session state.
func (s *LiveService) Status() models.LiveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *LiveService) statusLocked() models.LiveStatus {
	status := models.LiveStatus{
		Running:      s.running,
		Paused:       s.paused,
		Armed:        s.triggerState.Armed,
		ThresholdDbm: s.triggerCfg.ThresholdDbm,
		Satellites:   s.satellites,
		FixCount:     s.fixCount,
		LastRSSI:     s.lastRSSI,
		MarkerCount:  len(s.triggerState.MarkerPositions),
	}
	if s.running {
		started := s.started
		status.StartedAt = &started
	}
	if s.fix != nil {
		status.Latitude = &s.fix.Latitude
		status.Longitude = &s.fix.Longitude
		status.FixQuality = s.fix.FixQuality
		status.RMCStatus = s.fix.RMCStatus
		fixAt := s.fix.Timestamp
		status.LastFixAt = &fixAt
	}
	if s.logger != nil {
		status.LogFile = s.logger.Path()
	}
	return status
}

func (s *LiveService) broadcastStatus(status models.LiveStatus) {
	s.broadcast(websock.EventStatus, status)
}

func (s *LiveService) broadcast(event string, payload interface{}) {
	if s.hub != nil {
		s.hub.Broadcast(event, payload)
	}
}
