// Package common provides shared dependency wiring for webmirror commands.
package common

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/jonesrussell/webmirror/internal/config"
	"github.com/jonesrussell/webmirror/internal/logger"
	"github.com/jonesrussell/webmirror/internal/metrics"
)

// Deps holds the dependencies every command needs.
type Deps struct {
	Config   *config.Config
	Logger   logger.Interface
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewCommandDeps loads configuration and builds the shared dependencies.
func NewCommandDeps() (*Deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	registry := prometheus.NewRegistry()

	return &Deps{
		Config:   cfg,
		Logger:   log,
		Metrics:  metrics.New(registry),
		Registry: registry,
	}, nil
}
