package models

import "time"

// DatasetColors is the display color cycle assigned to datasets by load
// order. More datasets than colors wrap around.
var DatasetColors = []string{
	"#FF0000", "#00FF00", "#0000FF", "#FF00FF",
	"#FFFF00", "#00FFFF", "#FFA500", "#800080",
}

// ColorForIndex returns the display color for the n-th loaded dataset.
func ColorForIndex(n int) string {
	if n < 0 {
		n = 0
	}
	return DatasetColors[n%len(DatasetColors)]
}

// Dataset is an ordered, time-sorted sequence of samples from one source
// (one CSV file or the live stream), plus its display identity. Datasets are
// owned by the analysis session and destroyed when unloaded.
type Dataset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Visible  bool      `json:"visible"`
	LoadedAt time.Time `json:"loadedAt"`
	Samples  []Sample  `json:"-"`

	// SampleCount mirrors len(Samples) for list responses that do not
	// carry the sample payload.
	SampleCount int `json:"sampleCount"`

	// SkippedRows counts malformed CSV rows dropped during load.
	SkippedRows int `json:"skippedRows,omitempty"`

	// RSSISummary is filled in on detail responses only.
	RSSISummary *RSSISummary `json:"rssiSummary,omitempty"`
}

// RSSISummary describes the signal-strength distribution of a dataset's raw
// samples, before any filtering.
type RSSISummary struct {
	MinDbm    float64 `json:"minDbm"`
	MaxDbm    float64 `json:"maxDbm"`
	MeanDbm   float64 `json:"meanDbm"`
	MedianDbm float64 `json:"medianDbm"`
}

// DatasetFilter selects datasets for queries.
type DatasetFilter struct {
	VisibleOnly bool `form:"visibleOnly"`
}
