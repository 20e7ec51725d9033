// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
)

// Config holds the runtime configuration.
type Config struct {
	Port                string
	DBPath              string
	JWTSecret           string
	LogDir              string
	TriggerThresholdDbm float64
	MinRSSIDbm          float64
}

// Load reads configuration from environment variables, falling back to
// development defaults.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/sigfinder.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "./data/logs"
	}

	return &Config{
		Port:                port,
		DBPath:              dbPath,
		JWTSecret:           jwtSecret,
		LogDir:              logDir,
		TriggerThresholdDbm: envFloat("TRIGGER_THRESHOLD_DBM", -80),
		MinRSSIDbm:          envFloat("MIN_RSSI_DBM", -100),
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
