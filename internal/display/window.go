package display

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/jonesrussell/webmirror/internal/logger"
)

// Window drives a Chrome window over the DevTools protocol. It navigates
// to the mirror's local URL on open and reloads it on demand.
type Window struct {
	log logger.Interface

	browserCtx  context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// Ensure Window satisfies Reloader.
var _ Reloader = (*Window)(nil)

// OpenWindow launches a browser window and navigates it to startURL.
func OpenWindow(ctx context.Context, log logger.Interface, startURL string, kiosk bool) (*Window, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
	)
	if kiosk {
		opts = append(opts, chromedp.Flag("kiosk", true))
	}

	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	bctx, cancelCtx := chromedp.NewContext(actx)

	w := &Window{
		log:         log,
		browserCtx:  bctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}

	if err := chromedp.Run(bctx, chromedp.Navigate(startURL)); err != nil {
		w.Close()
		return nil, fmt.Errorf("open display window: %w", err)
	}

	log.Info("display window opened", "url", startURL)

	return w, nil
}

// Reload reloads the current view.
func (w *Window) Reload(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(w.browserCtx)
	defer cancel()

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	if err := chromedp.Run(runCtx, chromedp.Reload()); err != nil {
		return fmt.Errorf("reload display window: %w", err)
	}

	return nil
}

// Close tears the browser down.
func (w *Window) Close() {
	w.cancelCtx()
	w.cancelAlloc()
}
