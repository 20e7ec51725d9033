package models

import "time"

// Sample is one calibrated GPS+RSSI measurement. RSSI arrives already
// offset-corrected by the acquisition layer; this core never re-calibrates.
// Samples are immutable once created.
type Sample struct {
	Timestamp time.Time `json:"timestampUtc"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	RSSI      float64   `json:"rssiDbm"`

	// GPS metadata, passed through to logs and displays but not used by
	// the analysis engine.
	FixQuality int    `json:"fixQuality,omitempty"`
	Satellites int    `json:"satelliteCount,omitempty"`
	RMCStatus  string `json:"rmcStatus,omitempty"`
}
