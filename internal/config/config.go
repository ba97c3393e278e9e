package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	RecalcWorkerCount   int
	RecalcQueueSize     int
	UpcomingReviewLimit int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:medpass.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		RecalcWorkerCount:   envIntOr("RECALC_WORKER_COUNT", 2),
		RecalcQueueSize:     envIntOr("RECALC_QUEUE_SIZE", 64),
		UpcomingReviewLimit: envIntOr("UPCOMING_REVIEW_LIMIT", 50),
	}
}

// Validate checks the configuration for values the server cannot run with.
// All problems are reported at once so a broken .env can be fixed in one pass.
func (c *Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.RecalcWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("RECALC_WORKER_COUNT must be at least 1 (got %d)", c.RecalcWorkerCount))
	}
	if c.RecalcQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("RECALC_QUEUE_SIZE must be at least 1 (got %d)", c.RecalcQueueSize))
	}
	if c.UpcomingReviewLimit < 1 {
		problems = append(problems, fmt.Sprintf("UPCOMING_REVIEW_LIMIT must be at least 1 (got %d)", c.UpcomingReviewLimit))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
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
