package repository

import (
	"database/sql"
	"fmt"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

// DatasetRepository handles database operations for dataset metadata.
// Samples themselves stay in memory; only the catalog row is persisted.
type DatasetRepository struct {
	db *sql.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// Insert stores a dataset catalog row
func (r *DatasetRepository) Insert(d *models.Dataset) error {
	_, err := r.db.Exec(
		`INSERT INTO datasets (id, name, color, visible, sample_count, skipped_rows, loaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Color, boolToInt(d.Visible), d.SampleCount, d.SkippedRows, d.LoadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	return nil
}

// List returns all dataset catalog rows ordered by load time
func (r *DatasetRepository) List() ([]models.Dataset, error) {
	rows, err := r.db.Query(
		`SELECT id, name, color, visible, sample_count, skipped_rows, loaded_at
		 FROM datasets ORDER BY loaded_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.Dataset
	for rows.Next() {
		var d models.Dataset
		var visible int
		if err := rows.Scan(&d.ID, &d.Name, &d.Color, &visible, &d.SampleCount, &d.SkippedRows, &d.LoadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		d.Visible = visible != 0
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate datasets: %w", err)
	}

	return datasets, nil
}

// SetVisible updates one dataset's visibility flag
func (r *DatasetRepository) SetVisible(id string, visible bool) error {
	result, err := r.db.Exec("UPDATE datasets SET visible = ? WHERE id = ?", boolToInt(visible), id)
	if err != nil {
		return fmt.Errorf("failed to update dataset visibility: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check dataset update: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes one dataset catalog row
func (r *DatasetRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check dataset delete: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
