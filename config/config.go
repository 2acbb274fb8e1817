package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all reporting server configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Demo     DemoConfig     `toml:"demo"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int `toml:"port"`
	ReadTimeoutSec  int `toml:"read_timeout_sec"`
	WriteTimeoutSec int `toml:"write_timeout_sec"`
	IdleTimeoutSec  int `toml:"idle_timeout_sec"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// DemoConfig pins the reference date used by scenario loading and the
// forecast/risk reports, so demo data always lands in a queryable window.
// Empty means "use the wall clock".
type DemoConfig struct {
	ReferenceDate string `toml:"reference_date,omitempty"` // YYYY-MM-DD
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 15,
			IdleTimeoutSec:  60,
		},
		Database: DatabaseConfig{
			Path: "reporting.db",
		},
	}
}

// Load reads the config file at path, returning defaults if path is empty
// or the file doesn't exist.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ReferenceDate returns the pinned demo date, or nil when unset.
func (c Config) ReferenceDate() (*time.Time, error) {
	if c.Demo.ReferenceDate == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", c.Demo.ReferenceDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parsing demo reference_date: %w", err)
	}
	return &t, nil
}
