// Package pipeline cleans one dataset's sample sequence before origin
// estimation: RSSI threshold filter, IQR outlier removal, then removal of
// oscillating noise segments. Each stage runs exactly once, in that order,
// and time order is preserved throughout. An empty result is a valid
// outcome, not an error.
package pipeline

import (
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
	"github.com/sigfinder/sigfinder-go/internal/spatial"
	"github.com/sigfinder/sigfinder-go/internal/stats"
)

const (
	// DefaultMinRSSI is the session default for the threshold stage.
	DefaultMinRSSI = -100.0

	// OscillationWindow is the sliding window the noise detector scans.
	OscillationWindow = 2 * time.Second

	// MaxOscillationsPerWindow is the highest number of RSSI direction
	// reversals a window may contain before all of its samples are
	// flagged as noise (>5 per 2 s is a 2.5 Hz oscillation rate).
	MaxOscillationsPerWindow = 5

	// iqrMinSamples is the smallest population quartiles are meaningful
	// for; below it the outlier stage is skipped.
	iqrMinSamples = 4
)

// Clean runs the full filter pipeline over a time-ordered sample sequence.
func Clean(samples []models.Sample, minRSSI float64) []models.Sample {
	kept := thresholdFilter(samples, minRSSI)
	kept = iqrFilter(kept)
	return oscillationFilter(kept)
}

// thresholdFilter drops samples below the minimum RSSI and samples whose
// coordinates are invalid (the latter are treated as absent per the error
// model, never as fatal).
func thresholdFilter(samples []models.Sample, minRSSI float64) []models.Sample {
	kept := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.RSSI < minRSSI {
			continue
		}
		if !spatial.ValidCoordinate(s.Latitude, s.Longitude) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// iqrFilter removes RSSI outliers outside [Q1-1.5*IQR, Q3+1.5*IQR] using
// linear-interpolation quartiles. Skipped entirely when fewer than four
// samples remain.
func iqrFilter(samples []models.Sample) []models.Sample {
	if len(samples) < iqrMinSamples {
		return samples
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.RSSI
	}
	lower, upper := stats.OutlierBounds(values)

	kept := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.RSSI < lower || s.RSSI > upper {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// oscillationFilter slides a 2-second window over the time-ordered samples,
// counts RSSI direction reversals inside each window, and drops every
// sample belonging to any window with more than MaxOscillationsPerWindow
// reversals. Flags are collected in one pass so overlapping windows remove
// a sample exactly once.
func oscillationFilter(samples []models.Sample) []models.Sample {
	if len(samples) < 3 {
		return samples
	}

	noisy := make([]bool, len(samples))
	for start := 0; start < len(samples); start++ {
		end := start
		windowEnd := samples[start].Timestamp.Add(OscillationWindow)
		for end+1 < len(samples) && !samples[end+1].Timestamp.After(windowEnd) {
			end++
		}

		if countReversals(samples[start:end+1]) > MaxOscillationsPerWindow {
			for i := start; i <= end; i++ {
				noisy[i] = true
			}
		}
	}

	kept := make([]models.Sample, 0, len(samples))
	for i, s := range samples {
		if noisy[i] {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// countReversals counts local direction reversals of the RSSI deltas
// between consecutive samples. Zero deltas carry the previous direction.
func countReversals(window []models.Sample) int {
	reversals := 0
	prevSign := 0
	for i := 1; i < len(window); i++ {
		delta := window[i].RSSI - window[i-1].RSSI
		sign := 0
		switch {
		case delta > 0:
			sign = 1
		case delta < 0:
			sign = -1
		default:
			continue
		}
		if prevSign != 0 && sign != prevSign {
			reversals++
		}
		prevSign = sign
	}
	return reversals
}
