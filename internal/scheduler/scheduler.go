// Package scheduler runs snapshot refresh cycles on a fixed interval and
// signals consumers when a cycle changed on-disk content.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/webmirror/internal/logger"
	"github.com/jonesrussell/webmirror/internal/metrics"
	"github.com/jonesrussell/webmirror/internal/snapshot"
)

// MinInterval bounds the request rate against the origin. Configured
// intervals below this are clamped up.
const MinInterval = 10 * time.Second

// stopPollGranularity caps how long a sleeping scheduler takes to observe
// a stop request.
const stopPollGranularity = time.Second

// Snapshotter runs one refresh cycle. Implemented by snapshot.Fetcher.
type Snapshotter interface {
	Fetch(ctx context.Context, cacheRoot, targetURL string, preloadPaths []string) (*snapshot.Result, error)
}

// Config holds the immutable parameters of the refresh loop.
type Config struct {
	TargetURL    string
	CacheRoot    string
	PreloadPaths []string
	Interval     time.Duration
}

// Scheduler owns the background refresh loop. Cycles never overlap: the
// loop runs one cycle, sleeps, and only then starts the next.
type Scheduler struct {
	fetcher Snapshotter
	cfg     Config
	signals chan<- struct{}
	log     logger.Interface
	metrics *metrics.Metrics

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a scheduler that pushes a signal onto signals whenever a
// cycle changed content. The configured interval is clamped to MinInterval.
func New(
	fetcher Snapshotter,
	cfg Config,
	signals chan<- struct{},
	log logger.Interface,
	m *metrics.Metrics,
) *Scheduler {
	if cfg.Interval < MinInterval {
		cfg.Interval = MinInterval
	}

	return &Scheduler{
		fetcher: fetcher,
		cfg:     cfg,
		signals: signals,
		log:     log,
		metrics: m,
		stop:    make(chan struct{}),
	}
}

// Interval returns the effective (clamped) refresh interval.
func (s *Scheduler) Interval() time.Duration {
	return s.cfg.Interval
}

// Start launches the refresh loop on its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop requests shutdown and waits for the loop to exit. Safe to call more
// than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	s.wg.Wait()
}

// run is the refresh loop: one cycle, one sleep, repeat until stopped.
func (s *Scheduler) run(ctx context.Context) {
	s.log.Info("refresh loop started",
		"target", s.cfg.TargetURL,
		"interval", s.cfg.Interval.String(),
	)

	for {
		s.cycle(ctx)

		if stopped := s.sleep(ctx); stopped {
			s.log.Info("refresh loop stopped")
			return
		}
	}
}

// cycle runs one snapshot fetch. Errors are informational only: a failed
// cycle means "likely offline, try again next interval".
func (s *Scheduler) cycle(ctx context.Context) {
	res, err := s.fetcher.Fetch(ctx, s.cfg.CacheRoot, s.cfg.TargetURL, s.cfg.PreloadPaths)
	if err != nil {
		s.metrics.RecordCycle(metrics.ResultError)
		s.log.Info("refresh cycle failed", "error", err.Error())
		return
	}

	if !res.Changed {
		s.metrics.RecordCycle(metrics.ResultUnchanged)
		return
	}

	s.metrics.RecordCycle(metrics.ResultChanged)
	s.log.Info("snapshot changed", "document", res.DocumentPath)

	// Non-blocking send: a pending signal already guarantees a reload, and
	// reloads are idempotent, so coalescing is safe.
	select {
	case s.signals <- struct{}{}:
	default:
	}
}

// sleep waits out the refresh interval in small slices so stop requests
// are observed promptly. Returns true when the scheduler should exit.
func (s *Scheduler) sleep(ctx context.Context) bool {
	remaining := s.cfg.Interval

	for remaining > 0 {
		slice := stopPollGranularity
		if remaining < slice {
			slice = remaining
		}

		select {
		case <-s.stop:
			return true
		case <-ctx.Done():
			return true
		case <-time.After(slice):
			remaining -= slice
		}
	}

	return false
}
