// Package database owns the sqlite connection and schema migrations for
// persisted markers and dataset metadata.
package database

import (
	"database/sql"
	"log"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds database configuration.
type Config struct {
	Path string
}

// Init opens the sqlite database and applies connection pragmas. Safe to call
// more than once; only the first call takes effect.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)

		// WAL keeps live marker inserts from blocking analysis reads.
		for _, pragma := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=ON",
		} {
			if _, err = db.Exec(pragma); err != nil {
				return
			}
		}

		if err = db.Ping(); err != nil {
			return
		}

		log.Printf("database ready: %s", cfg.Path)
	})

	return err
}

// GetDB returns the database instance.
func GetDB() *sql.DB {
	if db == nil {
		log.Fatal("database not initialized, call Init first")
	}
	return db
}

// Close closes the database connection.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
