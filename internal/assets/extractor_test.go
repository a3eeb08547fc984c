package assets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/webmirror/internal/assets"
)

const testBaseURL = "https://example.com/news/today"

// pageHTML exercises every tag/attribute pair plus an inline style block.
const pageHTML = `<!DOCTYPE html>
<html>
<head>
  <link href="/a.css" rel="stylesheet">
  <script src="b.js"></script>
  <style>@import url(d.css)</style>
</head>
<body>
  <img src="c.png">
</body>
</html>`

func TestExtractFromHTML_AssetCompleteness(t *testing.T) {
	t.Parallel()

	got := assets.ExtractFromHTML(testBaseURL, pageHTML)

	require.Equal(t, []string{
		"https://example.com/a.css",
		"https://example.com/news/b.js",
		"https://example.com/news/c.png",
		"https://example.com/news/d.css",
	}, got)
}

func TestExtractFromHTML_SkipsEmptyAndMissingAttributes(t *testing.T) {
	t.Parallel()

	const html = `<html><body>
		<img>
		<img src="">
		<script></script>
		<link rel="preconnect">
		<img src="real.png">
	</body></html>`

	got := assets.ExtractFromHTML("https://example.com/", html)
	require.Equal(t, []string{"https://example.com/real.png"}, got)
}

func TestExtractFromHTML_DeduplicatesRepeatedReferences(t *testing.T) {
	t.Parallel()

	const html = `<html><body>
		<img src="/logo.png">
		<img src="https://example.com/logo.png">
	</body></html>`

	got := assets.ExtractFromHTML("https://example.com/page", html)
	require.Equal(t, []string{"https://example.com/logo.png"}, got)
}

func TestExtractFromCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		css  string
		want []string
	}{
		{
			name: "unquoted url",
			css:  `body { background: url(bg.png); }`,
			want: []string{"https://example.com/styles/bg.png"},
		},
		{
			name: "quoted url",
			css:  `@font-face { src: url("fonts/serif.woff2"); }`,
			want: []string{"https://example.com/styles/fonts/serif.woff2"},
		},
		{
			name: "import with quotes",
			css:  `@import "reset.css";`,
			want: []string{"https://example.com/styles/reset.css"},
		},
		{
			name: "import with url form",
			css:  `@import url("theme.css");`,
			want: []string{"https://example.com/styles/theme.css"},
		},
		{
			name: "data URIs excluded",
			css:  `.icon { background: url(data:image/png;base64,iVBOR); }`,
			want: nil,
		},
		{
			name: "absolute references kept as-is",
			css:  `div { background: url(https://cdn.example.com/x.png); }`,
			want: []string{"https://cdn.example.com/x.png"},
		},
		{
			name: "malformed fragment yields nothing",
			css:  `body { color: #fff`,
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := assets.ExtractFromCSS("https://example.com/styles/site.css", tt.css)
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}
