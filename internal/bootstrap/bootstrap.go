// Package bootstrap installs a bundled offline placeholder so the static
// server always has a document to serve, even when the very first refresh
// cycle fails with no prior cache.
package bootstrap

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/jonesrussell/webmirror/internal/snapshot"
)

//go:embed placeholder.html.tmpl
var placeholderHTML string

//go:embed placeholder.css
var placeholderCSS []byte

var placeholderTmpl = template.Must(template.New("placeholder").Parse(placeholderHTML))

// InstallPlaceholder writes the placeholder document and stylesheet into
// cacheRoot unless a primary document already exists. Returns the document
// path.
func InstallPlaceholder(cacheRoot, targetURL string) (string, error) {
	if err := os.MkdirAll(cacheRoot, 0o755); err != nil {
		return "", fmt.Errorf("create cache root: %w", err)
	}

	docPath := filepath.Join(cacheRoot, snapshot.DocumentFile)
	if _, statErr := os.Stat(docPath); statErr == nil {
		// An earlier run left a real snapshot behind; serve that instead.
		return docPath, nil
	}

	if err := os.WriteFile(filepath.Join(cacheRoot, "placeholder.css"), placeholderCSS, 0o644); err != nil {
		return "", fmt.Errorf("write placeholder stylesheet: %w", err)
	}

	doc, createErr := os.Create(docPath)
	if createErr != nil {
		return "", fmt.Errorf("create placeholder document: %w", createErr)
	}
	defer doc.Close()

	if err := placeholderTmpl.Execute(doc, struct{ TargetURL string }{TargetURL: targetURL}); err != nil {
		return "", fmt.Errorf("render placeholder document: %w", err)
	}

	return docPath, nil
}
