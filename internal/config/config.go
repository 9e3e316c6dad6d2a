// Package config provides configuration management for paw-gallery.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Page cache defaults
	DefaultPageCacheEntries = 256
	DefaultPageCacheExpiry  = 15 * time.Minute

	// Media files are immutable once crawled, cache them for a week
	DefaultMediaMaxAge = 7 * 24 * 3600
)

// MainConfig holds the main configuration for paw-gallery
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Dataset settings
	Data DataConfig `json:"data"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort int    `json:"listen_port" env:"PORT"`
	SSL        bool   `json:"ssl"`
	CertFile   string `json:"cert_file,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`
	StaticDir  string `json:"static_dir"`

	// Page cache tuning
	PageCacheEntries int `json:"page_cache_entries"`
	PageCacheExpiry  int `json:"page_cache_expiry"` // minutes

	// bcrypt hash guarding /debug routes; empty disables them
	AdminTokenHash string `json:"-" env:"ADMIN_TOKEN_HASH"`
}

// DataConfig holds dataset file configuration
type DataConfig struct {
	JSONPath    string `json:"json_path" env:"DATA_JSON_PATH"`
	BaseDir     string `json:"base_dir" env:"DATA_BASE_DIR"`
	MediaMaxAge int    `json:"media_max_age" env:"MEDIA_MAX_AGE_SECONDS"` // seconds
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort:       8080,
			SSL:              false,
			StaticDir:        "web/static",
			PageCacheEntries: DefaultPageCacheEntries,
			PageCacheExpiry:  int(DefaultPageCacheExpiry / time.Minute),
		},
		Data: DataConfig{
			JSONPath:    "data/characters.json",
			BaseDir:     "data",
			MediaMaxAge: DefaultMediaMaxAge,
		},
	}
}

// LoadFromEnv overlays environment variables onto cfg.
// Flags parsed in cmd/web take precedence and are applied after this.
func (cfg *MainConfig) LoadFromEnv() error {
	if err := env.Parse(&cfg.Web); err != nil {
		return fmt.Errorf("parse web env: %w", err)
	}
	if err := env.Parse(&cfg.Data); err != nil {
		return fmt.Errorf("parse data env: %w", err)
	}
	return nil
}
