package rewrite_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/webmirror/internal/rewrite"
)

const testBaseURL = "https://example.com/news/today"

func TestDocument_RewritesAssetReferences(t *testing.T) {
	t.Parallel()

	const html = `<!DOCTYPE html>
<html>
<head>
  <link href="/a.css" rel="stylesheet">
  <script src="b.js"></script>
</head>
<body>
  <img src="https://cdn.example.com/c.png">
</body>
</html>`

	got, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)

	require.Contains(t, got, `href="/example.com/a.css"`)
	require.Contains(t, got, `src="/example.com/news/b.js"`)
	require.Contains(t, got, `src="/cdn.example.com/c.png"`)
}

func TestDocument_InsertsBaseElement(t *testing.T) {
	t.Parallel()

	const html = `<html><head><title>x</title></head><body></body></html>`

	got, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)

	require.Contains(t, got, `<base href="/"/>`)
	// Inserted as the first child of head.
	require.Less(t, strings.Index(got, "<base"), strings.Index(got, "<title"))
}

func TestDocument_KeepsExistingBaseElement(t *testing.T) {
	t.Parallel()

	const html = `<html><head><base href="https://example.com/"/></head><body></body></html>`

	got, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)

	require.Equal(t, 1, strings.Count(got, "<base"))
	require.Contains(t, got, `href="https://example.com/"`)
}

func TestDocument_LeavesEmptyAndMissingAttributesAlone(t *testing.T) {
	t.Parallel()

	const html = `<html><head></head><body><img><script src=""></script></body></html>`

	got, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)

	require.Contains(t, got, `<img/>`)
	require.Contains(t, got, `src=""`)
}

func TestDocument_DeterministicAcrossRuns(t *testing.T) {
	t.Parallel()

	const html = `<html><head><link href="/a.css"></head><body><img src="c.png"></body></html>`

	first, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)

	second, err := rewrite.Document(html, testBaseURL)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
