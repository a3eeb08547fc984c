package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/webmirror/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		TargetURL:          "https://example.com/dashboard",
		CacheDir:           "./cache",
		Port:               8080,
		RefreshIntervalSec: 60,
		UserAgent:          "test/1.0",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "valid configuration",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing target url",
			mutate:  func(c *config.Config) { c.TargetURL = "" },
			wantErr: true,
		},
		{
			name:    "relative target url",
			mutate:  func(c *config.Config) { c.TargetURL = "/dashboard" },
			wantErr: true,
		},
		{
			name:    "non-http scheme",
			mutate:  func(c *config.Config) { c.TargetURL = "ftp://example.com/x" },
			wantErr: true,
		},
		{
			name:    "missing cache dir",
			mutate:  func(c *config.Config) { c.CacheDir = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *config.Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero refresh interval",
			mutate:  func(c *config.Config) { c.RefreshIntervalSec = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	const doc = `{
  "target-url": "https://example.com/",
  "cache-dir": "/tmp/mirror-cache",
  "port": 9000,
  "refresh-interval-sec": 120,
  "user-agent": "kiosk/2.0",
  "preload-paths": ["extra/offline.js"]
}`

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	v := viper.New()
	config.SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := config.Load(v)
	require.NoError(t, err)

	require.Equal(t, "https://example.com/", cfg.TargetURL)
	require.Equal(t, "/tmp/mirror-cache", cfg.CacheDir)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 2*time.Minute, cfg.Interval())
	require.Equal(t, "kiosk/2.0", cfg.UserAgent)
	require.Equal(t, []string{"extra/offline.js"}, cfg.PreloadPaths)
	require.Equal(t, "http://127.0.0.1:9000/index.html", cfg.StartURL())
}

func TestLoad_DefaultsApply(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	v.Set("target-url", "https://example.com/")

	cfg, err := config.Load(v)
	require.NoError(t, err)

	require.Equal(t, config.DefaultPort, cfg.Port)
	require.Equal(t, config.DefaultRefreshIntervalSec, cfg.RefreshIntervalSec)
	require.Equal(t, config.DefaultCacheDir, cfg.CacheDir)
	require.False(t, cfg.Display.Enabled)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	t.Parallel()

	v := viper.New()
	config.SetDefaults(v)
	// No target-url set.

	_, err := config.Load(v)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
