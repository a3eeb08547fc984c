// Package run implements the daemon command: initial snapshot, static
// server, refresh scheduler, change notifier, and the optional display
// window, wired together for the process lifetime.
package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/webmirror/cmd/common"
	"github.com/jonesrussell/webmirror/internal/bootstrap"
	"github.com/jonesrussell/webmirror/internal/display"
	"github.com/jonesrussell/webmirror/internal/notifier"
	"github.com/jonesrussell/webmirror/internal/scheduler"
	"github.com/jonesrussell/webmirror/internal/server"
	"github.com/jonesrussell/webmirror/internal/snapshot"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// signalChannelBufferSize is the buffer for OS signal delivery.
const signalChannelBufferSize = 1

// Command creates the run command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the mirror daemon",
		Long: `Run the full mirror daemon: take an initial snapshot (falling back
to a bundled offline placeholder when the origin is unreachable), serve the
cache on the loopback interface, and refresh it on the configured interval.`,
		RunE: runDaemon,
	}
}

// runDaemon wires the components together and blocks until interrupted.
func runDaemon(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	cfg := deps.Config
	ctx := cmd.Context()

	fetcher := snapshot.NewFetcher(deps.Logger, deps.Metrics, cfg.UserAgent, 0)

	// First snapshot before anything serves. When the origin is down and no
	// prior cache exists, install the placeholder so the server always has
	// a document.
	if _, fetchErr := fetcher.Fetch(ctx, cfg.CacheDir, cfg.TargetURL, cfg.PreloadPaths); fetchErr != nil {
		deps.Logger.Warn("initial snapshot failed, falling back to placeholder",
			"error", fetchErr.Error(),
		)
		if _, installErr := bootstrap.InstallPlaceholder(cfg.CacheDir, cfg.TargetURL); installErr != nil {
			return fmt.Errorf("install placeholder: %w", installErr)
		}
	}

	srv := server.New(deps.Logger, deps.Registry, cfg.CacheDir, cfg.Port)
	serveErrs := srv.Start()

	reloader, window := openDisplay(ctx, deps, cfg.StartURL())

	signals := make(chan struct{}, 1)

	sched := scheduler.New(fetcher, scheduler.Config{
		TargetURL:    cfg.TargetURL,
		CacheRoot:    cfg.CacheDir,
		PreloadPaths: cfg.PreloadPaths,
		Interval:     cfg.Interval(),
	}, signals, deps.Logger, deps.Metrics)

	notif := notifier.New(signals, reloader, deps.Logger, deps.Metrics)

	sched.Start(ctx)
	notif.Start()

	deps.Logger.Info("mirror running", "url", cfg.StartURL(), "target", cfg.TargetURL)

	waitErr := waitForShutdown(ctx, deps, serveErrs)

	// Shutdown order: background loops first, then the server, then the
	// display surface.
	sched.Stop()
	notif.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		deps.Logger.Error("server shutdown failed", "error", shutdownErr.Error())
	}

	if window != nil {
		window.Close()
	}

	return waitErr
}

// openDisplay opens the configured display surface. A window that fails to
// open degrades to the no-op reloader rather than aborting the daemon.
func openDisplay(ctx context.Context, deps *common.Deps, startURL string) (display.Reloader, *display.Window) {
	if !deps.Config.Display.Enabled {
		return display.NewNoop(), nil
	}

	window, err := display.OpenWindow(ctx, deps.Logger, startURL, deps.Config.Display.Kiosk)
	if err != nil {
		deps.Logger.Warn("display window unavailable, continuing headless", "error", err.Error())
		return display.NewNoop(), nil
	}

	return window, window
}

// waitForShutdown blocks until an interrupt, a server error, or context
// cancellation.
func waitForShutdown(ctx context.Context, deps *common.Deps, serveErrs <-chan error) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case serveErr := <-serveErrs:
		deps.Logger.Error("server error", "error", serveErr.Error())
		return fmt.Errorf("server error: %w", serveErr)
	case sig := <-sigChan:
		deps.Logger.Info("shutdown signal received", "signal", sig.String())
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	}
}
