package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath names an explicit config file
const EnvConfigPath = "FIBREMAP_CONFIG"

const appDir = "fibremap"

// Names tried in each search directory. YAML wins over TOML in the same
// directory.
var (
	localNames  = []string{"fibremap.yaml", "fibremap.yml", "fibremap.toml"}
	sharedNames = []string{"config.yaml", "config.yml", "config.toml"}
)

// searchDirs returns the directories FindConfigPath looks in after the
// working directory, most specific first
func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, appDir))
	}
	if home := os.Getenv("HOME"); home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", appDir))
	}
	return append(dirs, filepath.Join("/etc", appDir))
}

// FindConfigPath returns the first config file found, or "" if none:
// $FIBREMAP_CONFIG, then fibremap.{yaml,yml,toml} in the working directory,
// then config.{yaml,yml,toml} under $XDG_CONFIG_HOME/fibremap,
// ~/.config/fibremap and /etc/fibremap.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	for _, name := range localNames {
		if fileExists(name) {
			if abs, err := filepath.Abs(name); err == nil {
				return abs
			}
			return name
		}
	}

	for _, dir := range searchDirs() {
		for _, name := range sharedNames {
			if path := filepath.Join(dir, name); fileExists(path) {
				return path
			}
		}
	}

	return ""
}

// DefaultConfigPath is where `fibremap config init` writes when no path is
// given: the per-user config directory, or ./fibremap.yaml without a home.
func DefaultConfigPath() string {
	dirs := searchDirs()
	if len(dirs) > 1 {
		return filepath.Join(dirs[0], sharedNames[0])
	}
	return localNames[0]
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
