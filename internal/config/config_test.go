package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Sessions.IdleTTL.Duration() != 30*time.Minute {
		t.Errorf("Sessions.IdleTTL = %v, want 30m", cfg.Sessions.IdleTTL.Duration())
	}
	if cfg.Sessions.MaxSessions != 1000 {
		t.Errorf("Sessions.MaxSessions = %d, want 1000", cfg.Sessions.MaxSessions)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v, want enabled at /metrics", cfg.Metrics)
	}
	if cfg.Server.WriteTimeout != 0 {
		t.Errorf("Server.WriteTimeout = %v, want 0", cfg.Server.WriteTimeout.Duration())
	}
}

func TestLoadFromPath(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "fibremap.yaml",
			content: `
server:
  addr: "127.0.0.1:8080"
  read_timeout: 5s
source:
  uri: ./network.json
  watch: true
  poll_interval: 2m
sessions:
  idle_ttl: 10m
metrics:
  enabled: false
`,
		},
		{
			name: "toml",
			file: "fibremap.toml",
			content: `
[server]
addr = "127.0.0.1:8080"
read_timeout = "5s"

[source]
uri = "./network.json"
watch = true
poll_interval = "2m"

[sessions]
idle_ttl = "10m"

[metrics]
enabled = false
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			cfg, got, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("LoadFromPath() error: %v", err)
			}
			if got != path {
				t.Errorf("path = %q, want %q", got, path)
			}

			if cfg.Server.Addr != "127.0.0.1:8080" {
				t.Errorf("Server.Addr = %q", cfg.Server.Addr)
			}
			if cfg.Server.ReadTimeout.Duration() != 5*time.Second {
				t.Errorf("Server.ReadTimeout = %v", cfg.Server.ReadTimeout.Duration())
			}
			if cfg.Source.URI != "./network.json" || !cfg.Source.Watch {
				t.Errorf("Source = %+v", cfg.Source)
			}
			if cfg.Source.PollInterval.Duration() != 2*time.Minute {
				t.Errorf("Source.PollInterval = %v", cfg.Source.PollInterval.Duration())
			}
			if cfg.Sessions.IdleTTL.Duration() != 10*time.Minute {
				t.Errorf("Sessions.IdleTTL = %v", cfg.Sessions.IdleTTL.Duration())
			}
			if cfg.Metrics.Enabled {
				t.Error("Metrics.Enabled should be false")
			}

			// Omitted keys keep their defaults
			if cfg.Sessions.MaxSessions != 1000 {
				t.Errorf("Sessions.MaxSessions = %d, want default 1000", cfg.Sessions.MaxSessions)
			}
			if cfg.Metrics.Path != "/metrics" {
				t.Errorf("Metrics.Path = %q, want default", cfg.Metrics.Path)
			}
		})
	}
}

func TestLoadFromPathErrors(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("sessions:\n  idle_ttl: forever\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := LoadFromPath(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		err := DefaultConfig().Validate()
		if err == nil || !strings.Contains(err.Error(), "URI") {
			t.Errorf("Validate() = %v, want error naming URI", err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Source.URI = "network.json"
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error: %v", err)
		}
	})

	t.Run("negative session cap", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Source.URI = "network.json"
		cfg.Sessions.MaxSessions = -1
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for negative max_sessions")
		}
	})

	t.Run("relative metrics path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Source.URI = "network.json"
		cfg.Metrics.Path = "metrics"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for metrics path without leading slash")
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := DefaultConfig()
			cfg.Source.URI = "s3://maps/network.json"
			cfg.Sessions.IdleTTL = Duration(5 * time.Minute)

			if err := cfg.Save(path); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			loaded, _, err := LoadFromPath(path)
			if err != nil {
				t.Fatalf("LoadFromPath() error: %v", err)
			}
			if loaded.Source.URI != cfg.Source.URI {
				t.Errorf("Source.URI = %q, want %q", loaded.Source.URI, cfg.Source.URI)
			}
			if loaded.Sessions.IdleTTL != cfg.Sessions.IdleTTL {
				t.Errorf("Sessions.IdleTTL = %v, want %v", loaded.Sessions.IdleTTL.Duration(), cfg.Sessions.IdleTTL.Duration())
			}
		})
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "fibremap.yaml")

	if err := DefaultConfig().Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.toml")
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %q, want explicit %q", found, explicit)
	}

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	if found := FindConfigPath(); found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}
}

func TestFindConfigPathTOML(t *testing.T) {
	t.Run("working directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := DefaultConfig().Save(filepath.Join(tmpDir, "fibremap.toml")); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		t.Chdir(tmpDir)
		t.Setenv(EnvConfigPath, "")

		found := FindConfigPath()
		if filepath.Base(found) != "fibremap.toml" {
			t.Errorf("FindConfigPath() = %q, want fibremap.toml", found)
		}
		if _, _, err := LoadFromPath(found); err != nil {
			t.Errorf("LoadFromPath() error: %v", err)
		}
	})

	t.Run("xdg directory", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(EnvConfigPath, "")
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)

		want := filepath.Join(xdg, "fibremap", "config.toml")
		if err := DefaultConfig().Save(want); err != nil {
			t.Fatalf("Save() error: %v", err)
		}

		if found := FindConfigPath(); found != want {
			t.Errorf("FindConfigPath() = %q, want %q", found, want)
		}
	})
}

func TestDefaultConfigPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	want := filepath.Join(xdg, "fibremap", "config.yaml")
	if got := DefaultConfigPath(); got != want {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if got := DefaultConfigPath(); got != "fibremap.yaml" {
		t.Errorf("DefaultConfigPath() without home = %q, want fibremap.yaml", got)
	}
}

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText() error: %v", err)
	}
	if d.Duration() != 90*time.Second {
		t.Errorf("Duration() = %v, want 90s", d.Duration())
	}

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error: %v", err)
	}
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q, want 1m30s", text)
	}

	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("expected error for invalid duration")
	}
}
