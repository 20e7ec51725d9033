package models

import "time"

// LiveStatus is the snapshot reported by GET /api/v1/live/status.
type LiveStatus struct {
	Running      bool       `json:"running"`
	Paused       bool       `json:"paused"`
	Armed        bool       `json:"armed"`
	ThresholdDbm float64    `json:"thresholdDbm"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	FixQuality   int        `json:"fixQuality"`
	Satellites   int        `json:"numSatellites"`
	RMCStatus    string     `json:"rmcStatus"`
	FixCount     int64      `json:"fixCount"`
	LastRSSI     *float64   `json:"lastRssiDbm,omitempty"`
	LastFixAt    *time.Time `json:"lastFixAt,omitempty"`
	MarkerCount  int        `json:"markerCount"`
	LogFile      string     `json:"logFile,omitempty"`
}

// RSSIIngest is the body of POST /api/v1/live/rssi. RSSI is a pointer so a
// 0 dBm reading still passes the required binding.
type RSSIIngest struct {
	RSSI      *float64   `json:"rssiDbm" binding:"required"`
	Timestamp *time.Time `json:"timestampUtc,omitempty"`
}

// NMEAIngest is the body of POST /api/v1/live/nmea.
type NMEAIngest struct {
	Sentence string `json:"sentence" binding:"required"`
}

// TriggerSettings is the body of PUT /api/v1/settings/trigger. The pointer
// keeps the valid 0 dBm boundary from failing the required binding.
type TriggerSettings struct {
	ThresholdDbm *float64 `json:"thresholdDbm" binding:"required"`
}

// AnalysisRequest is the body of POST /api/v1/analysis/run. A nil MinRSSI
// keeps the session's current setting.
type AnalysisRequest struct {
	MinRSSI *float64 `json:"minRssi,omitempty"`
}
