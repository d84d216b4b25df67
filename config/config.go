// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Schemas  []FamilyConfig `yaml:"schemas"`
	Database DatabaseConfig `yaml:"database"`
	AutoMap  AutoMapConfig  `yaml:"automap"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// FamilyConfig configures one schema family: a directory of definition
// files sharing a filename prefix.
type FamilyConfig struct {
	ID     string `yaml:"id"`
	Prefix string `yaml:"prefix"`
	Dir    string `yaml:"dir"`
	Watch  bool   `yaml:"watch"` // reload order tables on file changes
}

// DatabaseConfig configures the mapping store database.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "memory"
	DSN    string `yaml:"dsn"`
}

// AutoMapConfig configures mapping proposal.
type AutoMapConfig struct {
	Threshold float64 `yaml:"threshold"` // minimum similarity score for a proposal
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"` // address for the /metrics endpoint
	Path    string `yaml:"path"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration usable without a config file: in-memory
// mapping store, no schema families, console logging.
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	setDefaults(cfg)
	return cfg
}

// LoadWithFallback tries to load from file, falls back to defaults plus
// environment variables when the file does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// applyEnvOverrides applies MAPFORGE_* environment variables. Environment
// variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MAPFORGE_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("MAPFORGE_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("MAPFORGE_AUTOMAP_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.AutoMap.Threshold = f
		}
	}
	if v := os.Getenv("MAPFORGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MAPFORGE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("MAPFORGE_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("MAPFORGE_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "memory"
	}
	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		cfg.Database.DSN = "mapforge.db"
	}
	if cfg.AutoMap.Threshold == 0 {
		cfg.AutoMap.Threshold = 0.5
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = "127.0.0.1:9090"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	switch cfg.Database.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
	if cfg.AutoMap.Threshold < 0 || cfg.AutoMap.Threshold > 1 {
		return fmt.Errorf("automap threshold %v out of range [0, 1]", cfg.AutoMap.Threshold)
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}

	seen := make(map[string]bool, len(cfg.Schemas))
	for i, fam := range cfg.Schemas {
		if fam.ID == "" {
			return fmt.Errorf("schemas[%d]: missing id", i)
		}
		if seen[fam.ID] {
			return fmt.Errorf("schemas[%d]: duplicate family id %q", i, fam.ID)
		}
		seen[fam.ID] = true
		if fam.Prefix == "" {
			return fmt.Errorf("schema family %s: missing prefix", fam.ID)
		}
		if fam.Dir == "" {
			return fmt.Errorf("schema family %s: missing dir", fam.ID)
		}
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
