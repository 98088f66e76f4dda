// Package config holds the medscan configuration, persisted as YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all medscan settings.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`

	// Watch configures the scan-file drop directory.
	Watch WatchConfig `yaml:"watch"`

	// LogLevel is the zap level for CLI logging: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// WatchConfig configures the drop-directory watcher.
type WatchConfig struct {
	// Dir is the directory watched for incoming scan files.
	Dir string `yaml:"dir"`
	// Debounce is how long to wait after the last write event
	// before a file is ingested, e.g. "500ms".
	Debounce string `yaml:"debounce"`
	// Workers is the number of parallel decoders used for batch
	// ingestion.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: "medscan.db",
		Watch: WatchConfig{
			Dir:      "scans",
			Debounce: "500ms",
			Workers:  4,
		},
		LogLevel: "info",
	}
}

// Load reads a config file, applies defaults for missing fields, then
// applies environment overrides. A missing file is not an error: the
// defaults (plus overrides) are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets the environment win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MEDSCAN_DB"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("MEDSCAN_WATCH_DIR"); v != "" {
		c.Watch.Dir = v
	}
	if v := os.Getenv("MEDSCAN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// DebounceDuration parses the watch debounce, falling back to 500ms
// when unset or malformed.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// WorkerCount returns the batch-ingestion parallelism, at least 1.
func (c *Config) WorkerCount() int {
	if c.Watch.Workers < 1 {
		return 1
	}
	return c.Watch.Workers
}
