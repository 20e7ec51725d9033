// Package repository handles database access for markers and dataset
// metadata.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

// MarkerRepository handles database operations for trigger markers
type MarkerRepository struct {
	db *sql.DB
}

// NewMarkerRepository creates a new marker repository
func NewMarkerRepository(db *sql.DB) *MarkerRepository {
	return &MarkerRepository{db: db}
}

// Insert stores a marker and fills in its assigned ID
func (r *MarkerRepository) Insert(m *models.Marker) error {
	result, err := r.db.Exec(
		`INSERT INTO markers (latitude, longitude, rssi_dbm, range_estimate_m, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Latitude, m.Longitude, m.RSSI, m.RangeEstimateMeters, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert marker: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read marker id: %w", err)
	}
	m.ID = id
	return nil
}

// List returns all markers ordered oldest first
func (r *MarkerRepository) List() ([]models.Marker, error) {
	rows, err := r.db.Query(
		`SELECT id, latitude, longitude, rssi_dbm, range_estimate_m, created_at
		 FROM markers ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query markers: %w", err)
	}
	defer rows.Close()

	var markers []models.Marker
	for rows.Next() {
		var m models.Marker
		if err := rows.Scan(&m.ID, &m.Latitude, &m.Longitude, &m.RSSI, &m.RangeEstimateMeters, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate markers: %w", err)
	}

	return markers, nil
}

// DeleteAll removes every stored marker
func (r *MarkerRepository) DeleteAll() error {
	if _, err := r.db.Exec("DELETE FROM markers"); err != nil {
		return fmt.Errorf("failed to delete markers: %w", err)
	}
	return nil
}
