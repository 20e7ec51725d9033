package models

import "time"

// Marker is a point placed on the live map by the trigger subsystem.
// Markers never mutate after creation; they persist until explicitly
// cleared or the session is reset.
type Marker struct {
	ID        int64     `json:"id,omitempty" db:"id"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	RSSI      float64   `json:"rssiDbm" db:"rssi"`
	Timestamp time.Time `json:"timestampUtc" db:"timestamp"`

	// RangeEstimateMeters is the free-space path-loss range at which the
	// signal would fade to the trigger threshold, relative to a 1 m
	// reference. A coarse search hint, not a measurement.
	RangeEstimateMeters float64 `json:"rangeEstimateMeters" db:"range_estimate_m"`
}
