// Package csvlog reads and writes the session log format shared with the
// acquisition tooling:
//
//	Timestamp,Latitude,Longitude,Fix Quality,Num Satellites,RMC Status,RSSI (dBm)
//
// The header row is required. Rows whose numeric fields do not parse are
// skipped individually; a bad row never fails the whole file.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

// Header is the canonical column order written by the session logger.
var Header = []string{
	"Timestamp", "Latitude", "Longitude",
	"Fix Quality", "Num Satellites", "RMC Status", "RSSI (dBm)",
}

// Column aliases accepted on read; older logs used snake_case names.
var columnAliases = map[string]string{
	"timestamp":      "Timestamp",
	"latitude":       "Latitude",
	"longitude":      "Longitude",
	"fix quality":    "Fix Quality",
	"num satellites": "Num Satellites",
	"rmc status":     "RMC Status",
	"rssi (dbm)":     "RSSI (dBm)",
	"rssi_dbm":       "RSSI (dBm)",
}

// LoadFile reads one dataset file. Returns the time-ordered samples and the
// number of rows skipped as malformed.
func LoadFile(path string) ([]models.Sample, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read decodes a dataset from r. Samples are returned sorted by timestamp
// so downstream time-window passes can rely on ordering.
func Read(r io.Reader) ([]models.Sample, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, they count as skipped
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := columnAliases[key]; ok {
			index[canonical] = i
		}
	}
	for _, required := range []string{"Timestamp", "Latitude", "Longitude", "RSSI (dBm)"} {
		if _, ok := index[required]; !ok {
			return nil, 0, fmt.Errorf("CSV header missing column %q", required)
		}
	}

	var samples []models.Sample
	skipped := 0

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		sample, ok := parseRow(record, index)
		if !ok {
			skipped++
			continue
		}
		samples = append(samples, sample)
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})

	return samples, skipped, nil
}

func parseRow(record []string, index map[string]int) (models.Sample, bool) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	ts, err := parseTimestamp(field("Timestamp"))
	if err != nil {
		return models.Sample{}, false
	}
	lat, err := strconv.ParseFloat(field("Latitude"), 64)
	if err != nil {
		return models.Sample{}, false
	}
	lon, err := strconv.ParseFloat(field("Longitude"), 64)
	if err != nil {
		return models.Sample{}, false
	}
	rssi, err := strconv.ParseFloat(field("RSSI (dBm)"), 64)
	if err != nil {
		return models.Sample{}, false
	}

	// 0,0 is the receiver's no-fix placeholder, not a position.
	if lat == 0 && lon == 0 {
		return models.Sample{}, false
	}

	sample := models.Sample{
		Timestamp: ts,
		Latitude:  lat,
		Longitude: lon,
		RSSI:      rssi,
		RMCStatus: field("RMC Status"),
	}
	if q, err := strconv.Atoi(field("Fix Quality")); err == nil {
		sample.FixQuality = q
	}
	if n, err := strconv.Atoi(field("Num Satellites")); err == nil {
		sample.Satellites = n
	}
	return sample, true
}

// parseTimestamp accepts the RFC3339 form the logger writes, with or
// without fractional seconds.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
