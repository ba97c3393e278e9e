package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/medpass/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		RecalcWorkerCount:   2,
		RecalcQueueSize:     64,
		UpcomingReviewLimit: 50,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "uppercase debug", level: "DEBUG"},
		{name: "uppercase info", level: "INFO"},
		{name: "uppercase warn", level: "WARN"},
		{name: "uppercase error", level: "ERROR"},
		{name: "lowercase is accepted", level: "debug"},
		{name: "invalid level", level: "INVALID", wantErr: true},
		{name: "empty level", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidWorkerSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero workers",
			mutate:        func(c *config.Config) { c.RecalcWorkerCount = 0 },
			expectedError: "RECALC_WORKER_COUNT",
		},
		{
			name:          "negative workers",
			mutate:        func(c *config.Config) { c.RecalcWorkerCount = -1 },
			expectedError: "RECALC_WORKER_COUNT",
		},
		{
			name:          "zero queue size",
			mutate:        func(c *config.Config) { c.RecalcQueueSize = 0 },
			expectedError: "RECALC_QUEUE_SIZE",
		},
		{
			name:          "zero upcoming limit",
			mutate:        func(c *config.Config) { c.UpcomingReviewLimit = 0 },
			expectedError: "UPCOMING_REVIEW_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:                "",
		DBPath:              "",
		LogLevel:            "INVALID",
		RecalcWorkerCount:   0,
		RecalcQueueSize:     0,
		UpcomingReviewLimit: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "RECALC_WORKER_COUNT")
	assert.Contains(t, errStr, "RECALC_QUEUE_SIZE")
	assert.Contains(t, errStr, "UPCOMING_REVIEW_LIMIT")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	// Save original values
	originalAddr := os.Getenv("ADDR")
	originalDBPath := os.Getenv("DB_PATH")

	defer func() {
		if originalAddr != "" {
			os.Setenv("ADDR", originalAddr)
		} else {
			os.Unsetenv("ADDR")
		}
		if originalDBPath != "" {
			os.Setenv("DB_PATH", originalDBPath)
		} else {
			os.Unsetenv("DB_PATH")
		}
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("DB_PATH", "custom.db")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "LOG_LEVEL", "RECALC_WORKER_COUNT", "RECALC_QUEUE_SIZE", "UPCOMING_REVIEW_LIMIT"} {
		original := os.Getenv(key)
		os.Unsetenv(key)
		defer func(k, v string) {
			if v != "" {
				os.Setenv(k, v)
			}
		}(key, original)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 2, cfg.RecalcWorkerCount)
	assert.Equal(t, 64, cfg.RecalcQueueSize)
	assert.Equal(t, 50, cfg.UpcomingReviewLimit)
}
