package display

import "context"

// Noop is a reloader for headless operation: consumers of the mirror (for
// example a browser pointed at the local server) simply refresh manually
// or on their own schedule.
type Noop struct{}

// NewNoop creates a no-op reloader.
func NewNoop() Reloader {
	return Noop{}
}

// Reload does nothing.
func (Noop) Reload(context.Context) error {
	return nil
}
