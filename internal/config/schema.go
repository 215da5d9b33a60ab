package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server" toml:"server"`
	Source   SourceConfig   `yaml:"source" toml:"source"`
	Sessions SessionsConfig `yaml:"sessions" toml:"sessions"`
	Database DatabaseConfig `yaml:"database" toml:"database"`
	Metrics  MetricsConfig  `yaml:"metrics" toml:"metrics"`
}

// ServerConfig holds HTTP server settings. WriteTimeout is zero by default
// because SSE streams stay open indefinitely.
type ServerConfig struct {
	Addr         string   `yaml:"addr" toml:"addr" validate:"required"`
	ReadTimeout  Duration `yaml:"read_timeout" toml:"read_timeout" validate:"gte=0"`
	WriteTimeout Duration `yaml:"write_timeout" toml:"write_timeout" validate:"gte=0"`
	IdleTimeout  Duration `yaml:"idle_timeout" toml:"idle_timeout" validate:"gte=0"`
}

// SourceConfig names the topology document.
// URI is a path, file://, http(s)://, s3://bucket/key or sqlite://path.
// Watch applies to local files, PollInterval to every other source.
type SourceConfig struct {
	URI          string   `yaml:"uri" toml:"uri" validate:"required"`
	Watch        bool     `yaml:"watch" toml:"watch"`
	PollInterval Duration `yaml:"poll_interval" toml:"poll_interval" validate:"gte=0"`
}

// SessionsConfig bounds the view session table
type SessionsConfig struct {
	IdleTTL       Duration `yaml:"idle_ttl" toml:"idle_ttl" validate:"gte=0"`
	MaxSessions   int      `yaml:"max_sessions" toml:"max_sessions" validate:"gte=0"`
	SweepInterval Duration `yaml:"sweep_interval" toml:"sweep_interval" validate:"gte=0"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path" validate:"omitempty,startswith=/"`
}

// Duration wraps time.Duration for YAML and TOML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, used by TOML
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
