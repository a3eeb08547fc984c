package notifier_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/webmirror/internal/logger"
	"github.com/jonesrussell/webmirror/internal/metrics"
	"github.com/jonesrussell/webmirror/internal/notifier"
)

// fakeReloader counts reload invocations and can fail on demand.
type fakeReloader struct {
	calls atomic.Int64
	err   error
}

func (f *fakeReloader) Reload(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestNotifier_ReloadsOnSignal(t *testing.T) {
	t.Parallel()

	signals := make(chan struct{}, 1)
	reloader := &fakeReloader{}

	n := notifier.New(signals, reloader, logger.NewNoOp(), metrics.NewUnregistered())
	n.Start()
	defer n.Stop()

	signals <- struct{}{}

	require.Eventually(t, func() bool {
		return reloader.calls.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNotifier_IgnoresReloadFailures(t *testing.T) {
	t.Parallel()

	signals := make(chan struct{}, 2)
	reloader := &fakeReloader{err: errors.New("display not ready")}

	n := notifier.New(signals, reloader, logger.NewNoOp(), metrics.NewUnregistered())
	n.Start()
	defer n.Stop()

	signals <- struct{}{}
	signals <- struct{}{}

	// Both signals are consumed despite the failures.
	require.Eventually(t, func() bool {
		return reloader.calls.Load() == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestNotifier_StopIsPrompt(t *testing.T) {
	t.Parallel()

	n := notifier.New(make(chan struct{}), &fakeReloader{}, logger.NewNoOp(), metrics.NewUnregistered())
	n.Start()

	done := make(chan struct{})
	go func() {
		n.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return promptly")
	}
}
