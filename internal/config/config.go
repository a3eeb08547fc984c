// Package config provides configuration management for the mirror daemon.
// Values come from a config file, environment variables, and defaults via
// Viper; the keys mirror the original flat config document.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/webmirror/internal/logger"
)

// Default configuration values.
const (
	DefaultPort               = 8080
	DefaultRefreshIntervalSec = 60
	DefaultUserAgent          = "webmirror/1.0 (+https://github.com/jonesrussell/webmirror)"
	DefaultCacheDir           = "./cache"
)

// maxPort is the highest valid TCP port.
const maxPort = 65535

// ErrInvalidConfig is the base error for configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Display configures the optional browser window.
type Display struct {
	// Enabled opens a browser window pointed at the local mirror.
	Enabled bool `mapstructure:"enabled"`
	// Kiosk opens the window full screen without chrome.
	Kiosk bool `mapstructure:"kiosk"`
}

// Config represents the application configuration. It is immutable for the
// process lifetime once loaded.
type Config struct {
	// TargetURL is the absolute URL of the page to mirror.
	TargetURL string `mapstructure:"target-url"`
	// CacheDir is the cache root directory.
	CacheDir string `mapstructure:"cache-dir"`
	// Port is the local port the static server binds to.
	Port int `mapstructure:"port"`
	// RefreshIntervalSec is the refresh interval in seconds. Clamped to a
	// 10 second minimum at use to bound request rate against the origin.
	RefreshIntervalSec int `mapstructure:"refresh-interval-sec"`
	// UserAgent is sent on every origin request.
	UserAgent string `mapstructure:"user-agent"`
	// PreloadPaths are extra paths, relative to TargetURL, fetched into the
	// cache even when the page does not reference them.
	PreloadPaths []string `mapstructure:"preload-paths"`
	// Display configures the optional browser window.
	Display Display `mapstructure:"display"`
	// Logger configures logging output.
	Logger logger.Config `mapstructure:"logger"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cache-dir", DefaultCacheDir)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("refresh-interval-sec", DefaultRefreshIntervalSec)
	v.SetDefault("user-agent", DefaultUserAgent)
	v.SetDefault("preload-paths", []string{})
	v.SetDefault("display.enabled", false)
	v.SetDefault("display.kiosk", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.TargetURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: target-url must be an absolute URL, got %q", ErrInvalidConfig, c.TargetURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: target-url scheme must be http or https, got %q", ErrInvalidConfig, u.Scheme)
	}

	if c.CacheDir == "" {
		return fmt.Errorf("%w: cache-dir is required", ErrInvalidConfig)
	}

	if c.Port < 1 || c.Port > maxPort {
		return fmt.Errorf("%w: port must be between 1 and %d, got %d", ErrInvalidConfig, maxPort, c.Port)
	}

	if c.RefreshIntervalSec < 1 {
		return fmt.Errorf("%w: refresh-interval-sec must be positive, got %d", ErrInvalidConfig, c.RefreshIntervalSec)
	}

	return nil
}

// Interval returns the configured refresh interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// StartURL returns the local URL the mirror is browsable at.
func (c *Config) StartURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d/index.html", c.Port)
}
