package trigger

import (
	"fmt"
	"math"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/spatial"
)

const (
	// MinThresholdDbm and MaxThresholdDbm bound the configurable trigger
	// threshold.
	MinThresholdDbm = -200.0
	MaxThresholdDbm = 0.0

	// MinMarkerSpacingMeters is the minimum distance a new marker must keep
	// from every existing marker. Closer rising edges are consumed without
	// placing a marker so lingering above threshold near a marker does not
	// spam the map.
	MinMarkerSpacingMeters = 50.0
)

// Config holds the live trigger settings.
type Config struct {
	ThresholdDbm float64
}

// Validate checks the threshold range.
func (c Config) Validate() error {
	if math.IsNaN(c.ThresholdDbm) || c.ThresholdDbm < MinThresholdDbm || c.ThresholdDbm > MaxThresholdDbm {
		return fmt.Errorf("trigger threshold %.1f dBm outside [%.1f, %.1f]",
			c.ThresholdDbm, MinThresholdDbm, MaxThresholdDbm)
	}
	return nil
}

// Position is a placed marker location.
type Position struct {
	Latitude  float64
	Longitude float64
}

// State is the per-session trigger state. It is an explicit value threaded
// through each OnSample call; the caller owns it and no ambient state is
// read or written.
type State struct {
	// Armed is true when the last observed RSSI was below threshold,
	// i.e. the next at-or-above-threshold sample is a rising edge.
	Armed bool

	// MarkerPositions records where markers have been placed, in
	// placement order.
	MarkerPositions []Position
}

// NewState returns the state a fresh live session starts with: armed, no
// markers.
func NewState() State {
	return State{Armed: true}
}

// ClearMarkers empties the recorded marker positions. The armed flag is
// deliberately untouched; clearing the map is not a threshold crossing.
func ClearMarkers(s State) State {
	s.MarkerPositions = nil
	return s
}

// OnSample advances the two-state trigger machine with one sample and
// returns the new state plus a marker when a sufficiently spaced rising
// edge fired. Samples with invalid coordinates cannot place markers and are
// treated as absent for the edge decision.
func OnSample(sample models.Sample, state State, cfg Config) (State, *models.Marker) {
	if sample.RSSI < cfg.ThresholdDbm {
		// Below threshold: the edge has reset.
		state.Armed = true
		return state, nil
	}

	if !state.Armed {
		// Already past the edge, not yet re-armed.
		return state, nil
	}

	if !spatial.ValidCoordinate(sample.Latitude, sample.Longitude) {
		return state, nil
	}

	// Rising edge. The edge is consumed regardless of spacing; re-arming
	// only happens once RSSI drops back below threshold.
	state.Armed = false

	for _, pos := range state.MarkerPositions {
		d, err := spatial.Distance(sample.Latitude, sample.Longitude, pos.Latitude, pos.Longitude)
		if err != nil {
			continue
		}
		if d < MinMarkerSpacingMeters {
			return state, nil
		}
	}

	marker := &models.Marker{
		Latitude:            sample.Latitude,
		Longitude:           sample.Longitude,
		RSSI:                sample.RSSI,
		Timestamp:           sample.Timestamp,
		RangeEstimateMeters: rangeEstimate(sample.RSSI, cfg.ThresholdDbm),
	}

	positions := make([]Position, len(state.MarkerPositions), len(state.MarkerPositions)+1)
	copy(positions, state.MarkerPositions)
	state.MarkerPositions = append(positions, Position{
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
	})

	return state, marker
}

// rangeEstimate converts the margin between the measured RSSI and the
// detection threshold into a distance using the ratio form of free-space
// path loss, with a 1 m reference.
func rangeEstimate(rssiDbm, thresholdDbm float64) float64 {
	deltaDb := thresholdDbm - rssiDbm
	return math.Pow(10, deltaDb/20.0)
}
