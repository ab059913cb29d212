package store

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Path string `json:"path"`

	MaxOpenConns int `json:"max_open_conns"`
	MaxIdleConns int `json:"max_idle_conns"`

	BusyTimeout time.Duration `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		Path:         "meetingmind.db",
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
	}
}

// LoadConfig reads store settings from the environment with defaults.
func LoadConfig() Config {
	cfg := DefaultConfig()
	if v := strings.TrimSpace(os.Getenv("ARTIFACT_DB_PATH")); v != "" {
		cfg.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("ARTIFACT_DB_MAX_OPEN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxOpenConns = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("ARTIFACT_DB_BUSY_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.BusyTimeout = d
		}
	}
	return cfg
}
