// Package metrics provides Prometheus collectors for the mirror daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Cycle result label values.
const (
	ResultChanged   = "changed"
	ResultUnchanged = "unchanged"
	ResultError     = "error"
)

// Metrics holds the daemon's Prometheus collectors.
type Metrics struct {
	// Cycles counts refresh cycles by result.
	Cycles *prometheus.CounterVec
	// AssetDownloads counts asset downloads that wrote new or changed bytes.
	AssetDownloads prometheus.Counter
	// Reloads counts reload commands delivered to the display surface.
	Reloads prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webmirror_cycles_total",
			Help: "Refresh cycles by result.",
		}, []string{"result"}),
		AssetDownloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webmirror_asset_downloads_total",
			Help: "Asset downloads that wrote new or changed bytes.",
		}),
		Reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webmirror_reloads_total",
			Help: "Reload commands delivered to the display surface.",
		}),
	}

	reg.MustRegister(m.Cycles, m.AssetDownloads, m.Reloads)

	return m
}

// NewUnregistered creates collectors without registering them, for tests.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}

// RecordCycle records one cycle outcome.
func (m *Metrics) RecordCycle(result string) {
	if m == nil {
		return
	}
	m.Cycles.WithLabelValues(result).Inc()
}

// RecordAssetDownload records one asset write.
func (m *Metrics) RecordAssetDownload() {
	if m == nil {
		return
	}
	m.AssetDownloads.Inc()
}

// RecordReload records one delivered reload command.
func (m *Metrics) RecordReload() {
	if m == nil {
		return
	}
	m.Reloads.Inc()
}
