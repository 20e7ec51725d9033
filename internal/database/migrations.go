package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration is one versioned schema change.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered schema history. Append only; never edit an
// applied entry.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_markers",
		SQL: `
			CREATE TABLE IF NOT EXISTS markers (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				rssi_dbm REAL NOT NULL,
				range_estimate_m REAL NOT NULL,
				created_at TIMESTAMP NOT NULL
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_datasets",
		SQL: `
			CREATE TABLE IF NOT EXISTS datasets (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				color TEXT NOT NULL,
				visible INTEGER NOT NULL DEFAULT 1,
				sample_count INTEGER NOT NULL DEFAULT 0,
				skipped_rows INTEGER NOT NULL DEFAULT 0,
				loaded_at TIMESTAMP NOT NULL
			)
		`,
	},
	{
		Version: 3,
		Name:    "index_markers_created_at",
		SQL:     `CREATE INDEX IF NOT EXISTS idx_markers_created_at ON markers(created_at)`,
	},
}

// RunMigrations applies every pending migration in version order.
func RunMigrations(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedVersions(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func applyMigration(db *sql.DB, m Migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(m.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", m.Version, err)
	}

	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}

	log.Printf("applied migration %d: %s", m.Version, m.Name)
	return nil
}
