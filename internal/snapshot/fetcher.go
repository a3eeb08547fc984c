// Package snapshot mirrors a remote page and its assets into a local cache
// and reports whether a refresh cycle changed any on-disk content.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/webmirror/internal/assets"
	"github.com/jonesrussell/webmirror/internal/cachepath"
	"github.com/jonesrussell/webmirror/internal/logger"
	"github.com/jonesrussell/webmirror/internal/metrics"
	"github.com/jonesrussell/webmirror/internal/rewrite"
)

// DocumentFile is the name the rewritten primary document is persisted
// under at the cache root.
const DocumentFile = "index.html"

// maxAssetBytes limits the size of any single fetched response.
const maxAssetBytes = 10 * 1024 * 1024 // 10 MB

// defaultRequestTimeout bounds each HTTP request when no timeout is given.
const defaultRequestTimeout = 20 * time.Second

// Sentinel errors distinguishing "origin unreachable" from "cache disk
// trouble". Individual asset failures never surface as errors.
var (
	// ErrDocumentFetch wraps failures fetching the primary document.
	ErrDocumentFetch = errors.New("primary document fetch failed")
	// ErrDocumentPersist wraps failures writing the primary document.
	ErrDocumentPersist = errors.New("primary document persist failed")
)

// Result is the outcome of one refresh cycle.
type Result struct {
	// Changed is true if the persisted document or any downloaded asset
	// differs from what was previously on disk.
	Changed bool
	// DocumentPath is where the rewritten primary document lives.
	DocumentPath string
}

// Fetcher runs refresh cycles against a single origin.
type Fetcher struct {
	client    *http.Client
	log       logger.Interface
	metrics   *metrics.Metrics
	userAgent string
}

// NewFetcher creates a fetcher. A zero timeout falls back to the default.
func NewFetcher(log logger.Interface, m *metrics.Metrics, userAgent string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		log:       log,
		metrics:   m,
		userAgent: userAgent,
	}
}

// Fetch runs one full refresh cycle: fetch the document, discover and
// download its assets (including a second level found inside CSS), rewrite
// the document for offline serving, and persist it. Only a failure on the
// primary document itself is an error; broken assets are skipped.
func (f *Fetcher) Fetch(
	ctx context.Context,
	cacheRoot, targetURL string,
	preloadPaths []string,
) (*Result, error) {
	if mkdirErr := os.MkdirAll(cacheRoot, 0o755); mkdirErr != nil {
		return nil, fmt.Errorf("%w: create cache root: %w", ErrDocumentPersist, mkdirErr)
	}

	docPath := filepath.Join(cacheRoot, DocumentFile)
	oldDoc, readErr := os.ReadFile(docPath)
	if readErr != nil {
		oldDoc = nil
	}

	f.log.Info("refreshing snapshot", "target", targetURL, "cache_root", cacheRoot)

	htmlBytes, fetchErr := f.fetchURL(ctx, targetURL)
	if fetchErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentFetch, fetchErr)
	}

	assetURLs := mergePreload(
		assets.ExtractFromHTML(targetURL, string(htmlBytes)),
		targetURL, preloadPaths,
	)

	changedAny := false

	// First pass: download everything but HTML pages, collecting
	// second-level URLs out of any stylesheet that lands on disk.
	secondLevel := make(map[string]struct{})

	for _, assetURL := range assetURLs {
		if strings.HasSuffix(assetURL, ".html") {
			continue
		}

		local, changed := f.downloadAsset(ctx, assetURL, cacheRoot)
		if changed {
			changedAny = true
		}
		if local == "" {
			continue
		}

		for _, u := range cssReferences(assetURL, local) {
			secondLevel[u] = struct{}{}
		}
	}

	// Second pass: assets the stylesheets reference. CSS found here is not
	// parsed again; discovery stops at two levels.
	for _, assetURL := range sortedSet(secondLevel) {
		if _, changed := f.downloadAsset(ctx, assetURL, cacheRoot); changed {
			changedAny = true
		}
	}

	rewritten, rewriteErr := rewrite.Document(string(htmlBytes), targetURL)
	if rewriteErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrDocumentPersist, rewriteErr)
	}

	newDoc := []byte(rewritten)
	if !bytes.Equal(oldDoc, newDoc) {
		if writeErr := writeFileAtomic(docPath, newDoc); writeErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDocumentPersist, writeErr)
		}
		changedAny = true
	}

	return &Result{Changed: changedAny, DocumentPath: docPath}, nil
}

// downloadAsset maps assetURL into the cache and downloads it. Returns the
// local path ("" when the URL cannot be mapped) and whether new bytes were
// written.
func (f *Fetcher) downloadAsset(ctx context.Context, assetURL, cacheRoot string) (string, bool) {
	local, mapErr := cachepath.Local(assetURL, cacheRoot)
	if mapErr != nil {
		f.log.Debug("skipping unmappable asset", "url", assetURL, "error", mapErr.Error())
		return "", false
	}

	return local, f.download(ctx, assetURL, local)
}

// download fetches url into dest, returning whether the file's bytes
// changed. Any fetch or write failure leaves the existing copy untouched
// and reports "unchanged" so one broken asset never aborts a cycle.
func (f *Fetcher) download(ctx context.Context, rawURL, dest string) bool {
	body, fetchErr := f.fetchURL(ctx, rawURL)
	if fetchErr != nil {
		f.log.Debug("asset fetch failed", "url", rawURL, "error", fetchErr.Error())
		return false
	}

	if existing, readErr := os.ReadFile(dest); readErr == nil {
		if ComputeHash(existing) == ComputeHash(body) {
			return false
		}
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(dest), 0o755); mkdirErr != nil {
		f.log.Error("create asset directory failed", "path", dest, "error", mkdirErr.Error())
		return false
	}

	if writeErr := os.WriteFile(dest, body, 0o644); writeErr != nil {
		f.log.Error("write asset failed", "path", dest, "error", writeErr.Error())
		return false
	}

	f.metrics.RecordAssetDownload()

	return true
}

// fetchURL performs a GET with the configured user agent and returns the
// body for any 2xx response.
func (f *Fetcher) fetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %w", reqErr)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, doErr := f.client.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("http status %d for %s", resp.StatusCode, rawURL)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if readErr != nil {
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	return body, nil
}

// cssReferences re-reads a downloaded stylesheet from disk and returns the
// asset URLs it references, resolved against the stylesheet's own URL.
// Non-CSS files and unreadable files contribute nothing.
func cssReferences(assetURL, local string) []string {
	if !strings.EqualFold(filepath.Ext(local), ".css") {
		return nil
	}

	cssText, readErr := os.ReadFile(local)
	if readErr != nil {
		return nil
	}

	return assets.ExtractFromCSS(assetURL, string(cssText))
}

// mergePreload unions extracted asset URLs with the configured preload
// paths resolved against the target, keeping the deterministic
// lexicographic visit order.
func mergePreload(extracted []string, targetURL string, preloadPaths []string) []string {
	merged := make(map[string]struct{}, len(extracted)+len(preloadPaths))
	for _, u := range extracted {
		merged[u] = struct{}{}
	}

	if base, err := url.Parse(targetURL); err == nil {
		for _, rel := range preloadPaths {
			refURL, parseErr := url.Parse(rel)
			if parseErr != nil {
				continue
			}
			merged[base.ResolveReference(refURL).String()] = struct{}{}
		}
	}

	return sortedSet(merged)
}

// sortedSet returns set members in lexicographic order.
func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// writeFileAtomic writes data to a temporary file in path's directory and
// renames it into place, so a concurrent reader never observes a
// half-written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, createErr := os.CreateTemp(filepath.Dir(path), ".document-*")
	if createErr != nil {
		return fmt.Errorf("create temp document: %w", createErr)
	}

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp document: %w", writeErr)
	}

	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", closeErr)
	}

	if renameErr := os.Rename(tmp.Name(), path); renameErr != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", renameErr)
	}

	return nil
}
