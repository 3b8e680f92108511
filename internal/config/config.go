// Package config loads reminderd's YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is reminderd's on-disk configuration.
type Config struct {
	StorePath           string `yaml:"store_path"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	DefaultTimezone     string `yaml:"default_timezone"`
}

// PollInterval converts PollIntervalSeconds to a time.Duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Load reads and parses the YAML config file at path, filling in defaults
// for anything left unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StorePath == "" {
		c.StorePath = "reminderd.db"
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = 1
	}
	if c.DefaultTimezone == "" {
		c.DefaultTimezone = "UTC"
	}
}
