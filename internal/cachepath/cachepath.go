// Package cachepath maps remote URLs to deterministic local paths under a
// cache root. The same URL always maps to the same path; query strings are
// ignored, so URLs differing only by query share one cache entry.
package cachepath

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrUnmappable is returned for URLs that cannot be mapped to a cache path.
// Callers are expected to skip such URLs rather than fail.
var ErrUnmappable = errors.New("URL cannot be mapped to a cache path")

// indexFile is the name used for URLs whose path has an empty final segment.
const indexFile = "index.html"

// Relative returns the slash-separated cache path for a URL, relative to the
// cache root: "<host>/<path>". URLs ending in "/" (or with no path) map to
// ".../index.html"; extension-less final segments get ".html" appended on
// the assumption that such routes serve HTML.
func Relative(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnmappable, rawURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: no host in %s", ErrUnmappable, rawURL)
	}

	rel := path.Join(u.Host, strings.TrimPrefix(u.Path, "/"))
	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		rel = path.Join(rel, indexFile)
	} else if path.Ext(rel) == "" {
		rel += ".html"
	}

	// path.Join cleans ".." segments; reject anything that still escapes.
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s escapes the cache root", ErrUnmappable, rawURL)
	}

	return rel, nil
}

// URLPath returns the absolute-from-root URL path ("/<host>/<path>") that a
// local static server uses to serve the cached copy of rawURL. Forward
// slashes regardless of platform.
func URLPath(rawURL string) (string, error) {
	rel, err := Relative(rawURL)
	if err != nil {
		return "", err
	}
	return "/" + rel, nil
}

// Local returns the filesystem path for rawURL under cacheRoot, creating
// parent directories as needed.
func Local(rawURL, cacheRoot string) (string, error) {
	rel, err := Relative(rawURL)
	if err != nil {
		return "", err
	}

	local := filepath.Join(cacheRoot, filepath.FromSlash(rel))
	if mkdirErr := os.MkdirAll(filepath.Dir(local), 0o755); mkdirErr != nil {
		return "", fmt.Errorf("create cache directories: %w", mkdirErr)
	}

	return local, nil
}
