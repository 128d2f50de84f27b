package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/sadopc/chop/internal/core/kv"
)

const appName = "chop"

// Environment variables that override the file.
const (
	EnvAPIBaseURL = "CHOP_API_BASE_URL"
	EnvAPIKey     = "CHOP_API_KEY"
	EnvLogLevel   = "CHOP_LOG_LEVEL"
)

// Path returns the config file location, $XDG_CONFIG_HOME/chop/config.yaml.
func Path() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load loads configuration from Path.
func Load() Config {
	return LoadFile(Path())
}

// LoadFile reads path over the defaults. A missing or invalid file keeps the
// defaults; environment overrides apply either way.
func LoadFile(path string) Config {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		parsed := DefaultConfig()
		if yaml.Unmarshal(data, &parsed) == nil {
			cfg = parsed
		}
	}

	applyEnv(&cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Identity.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// StoragePath returns the storage location for the configured backend.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	name := "chop.db"
	if c.Storage.Backend == kv.BackendFile {
		name = "chop.json"
	}
	return filepath.Join(xdg.DataHome, appName, name)
}

// LogPath returns the log file for the TUI: the configured file or
// $XDG_STATE_HOME/chop/chop.log.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(xdg.StateHome, appName, "chop.log")
}

// ThemesDir returns the directory scanned for custom theme files.
func ThemesDir() string {
	return filepath.Join(xdg.ConfigHome, appName, "themes")
}
