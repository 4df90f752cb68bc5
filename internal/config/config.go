package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DBPath            string
	LogLevel          string
	RecalcWorkerCount int
	RecalcQueueSize   int
	DNFThresholdHours int
	DNFSweepMinutes   int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:academy.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		RecalcWorkerCount: envIntOr("RECALC_WORKER_COUNT", 4),
		RecalcQueueSize:   envIntOr("RECALC_QUEUE_SIZE", 256),
		DNFThresholdHours: envIntOr("DNF_THRESHOLD_HOURS", 12),
		DNFSweepMinutes:   envIntOr("DNF_SWEEP_MINUTES", 30),
	}
}

// Validate checks that the loaded configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.RecalcWorkerCount <= 0 {
		return fmt.Errorf("RECALC_WORKER_COUNT must be positive")
	}
	if c.RecalcQueueSize <= 0 {
		return fmt.Errorf("RECALC_QUEUE_SIZE must be positive")
	}
	if c.DNFThresholdHours <= 0 {
		return fmt.Errorf("DNF_THRESHOLD_HOURS must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
