// Package notifier delivers "content changed" signals from the refresh
// scheduler to the display surface as reload commands.
package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/webmirror/internal/display"
	"github.com/jonesrussell/webmirror/internal/logger"
	"github.com/jonesrussell/webmirror/internal/metrics"
)

// reloadTimeout bounds a single reload invocation so a wedged display
// surface cannot stall the consuming loop.
const reloadTimeout = 5 * time.Second

// Notifier consumes change signals and tells the display surface to
// reload. Reload failures are ignored: a missed reload is recovered at the
// next successful cycle's signal.
type Notifier struct {
	signals  <-chan struct{}
	reloader display.Reloader
	log      logger.Interface
	metrics  *metrics.Metrics

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a notifier consuming from signals.
func New(
	signals <-chan struct{},
	reloader display.Reloader,
	log logger.Interface,
	m *metrics.Metrics,
) *Notifier {
	return &Notifier{
		signals:  signals,
		reloader: reloader,
		log:      log,
		metrics:  m,
		stop:     make(chan struct{}),
	}
}

// Start launches the consuming loop on its own goroutine.
func (n *Notifier) Start() {
	n.wg.Add(1)

	go func() {
		defer n.wg.Done()
		n.run()
	}()
}

// Stop requests shutdown and waits for the loop to exit. Safe to call more
// than once.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.stop)
	})
	n.wg.Wait()
}

// run blocks on the signal queue until stopped.
func (n *Notifier) run() {
	for {
		select {
		case <-n.stop:
			return
		case <-n.signals:
			n.reload()
		}
	}
}

// reload invokes the display surface's reload command, swallowing any
// failure.
func (n *Notifier) reload() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := n.reloader.Reload(ctx); err != nil {
		n.log.Debug("reload failed", "error", err.Error())
		return
	}

	n.metrics.RecordReload()
	n.log.Info("display reloaded")
}
