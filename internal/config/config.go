// Package config provides configuration management for fibremap.
//
// Config file locations (priority order):
//  1. $FIBREMAP_CONFIG
//  2. ./fibremap.yaml, ./fibremap.yml, ./fibremap.toml
//  3. $XDG_CONFIG_HOME/fibremap/config.{yaml,yml,toml}
//  4. ~/.config/fibremap/config.{yaml,yml,toml}
//  5. /etc/fibremap/config.{yaml,yml,toml}
//
// Files ending in .toml are decoded as TOML, everything else as YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultAddr          = ":3000"
	defaultDatabasePath  = "./fibremap.db"
	defaultMetricsPath   = "/metrics"
	defaultReadTimeout   = 15 * time.Second
	defaultIdleTimeout   = 60 * time.Second
	defaultIdleTTL       = 30 * time.Minute
	defaultMaxSessions   = 1000
	defaultSweepInterval = time.Minute
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	// Decode over the defaults so omitted keys keep their default values
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the config once command line overrides are applied
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(defaultReadTimeout)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(defaultIdleTimeout)
	}
	if c.Sessions.IdleTTL == 0 {
		c.Sessions.IdleTTL = Duration(defaultIdleTTL)
	}
	if c.Sessions.MaxSessions == 0 {
		c.Sessions.MaxSessions = defaultMaxSessions
	}
	if c.Sessions.SweepInterval == 0 {
		c.Sessions.SweepInterval = Duration(defaultSweepInterval)
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = defaultMetricsPath
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Listen: %s, Source: %s (watch: %t, poll: %s)\n",
		c.Server.Addr, c.Source.URI, c.Source.Watch, c.Source.PollInterval.Duration())
	summary += fmt.Sprintf("Sessions: max %d, idle TTL %s, sweep %s",
		c.Sessions.MaxSessions, c.Sessions.IdleTTL.Duration(), c.Sessions.SweepInterval.Duration())
	if c.Metrics.Enabled {
		summary += fmt.Sprintf(", metrics at %s", c.Metrics.Path)
	}
	return summary
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
