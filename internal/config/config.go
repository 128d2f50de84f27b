package config

import (
	"time"

	"github.com/sadopc/chop/internal/core/kv"
	"github.com/sadopc/chop/internal/core/tlsconf"
)

// Config holds the application configuration.
type Config struct {
	Theme       string           `yaml:"theme"`
	APIBaseURL  string           `yaml:"api_base_url"`
	ShortenPath string           `yaml:"shorten_path"`
	Timeout     time.Duration    `yaml:"timeout"`
	Proxy       string           `yaml:"proxy"`
	TLS         tlsconf.Settings `yaml:"tls"`
	Storage     StorageConfig    `yaml:"storage"`
	Identity    IdentityConfig   `yaml:"identity"`
	Log         LogConfig        `yaml:"log"`
}

// StorageConfig selects where history and the session are kept. An empty
// Path means the default file under the XDG data dir.
type StorageConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// IdentityConfig addresses the identity service.
type IdentityConfig struct {
	APIKey             string `yaml:"api_key"`
	BaseURL            string `yaml:"base_url"`
	TokenURL           string `yaml:"token_url"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	SessionPassphrase  string `yaml:"session_passphrase"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:       "catppuccin-mocha",
		APIBaseURL:  "http://127.0.0.1:8787",
		ShortenPath: "shorten",
		Timeout:     15 * time.Second,
		Storage: StorageConfig{
			Backend: kv.BackendSQLite,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
