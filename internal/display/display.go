// Package display abstracts the surface that renders the mirrored page.
package display

import "context"

// Reloader is the one command the mirror core needs from a display
// surface: reload the current view.
type Reloader interface {
	Reload(ctx context.Context) error
}
