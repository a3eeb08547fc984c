package cachepath_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/webmirror/internal/cachepath"
)

func TestRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "plain asset path",
			url:  "https://example.com/static/app.css",
			want: "example.com/static/app.css",
		},
		{
			name: "root URL maps to index",
			url:  "https://example.com/",
			want: "example.com/index.html",
		},
		{
			name: "no path maps to index",
			url:  "https://example.com",
			want: "example.com/index.html",
		},
		{
			name: "trailing slash maps to index",
			url:  "https://example.com/news/",
			want: "example.com/news/index.html",
		},
		{
			name: "extension-less route gets html suffix",
			url:  "https://example.com/about",
			want: "example.com/about.html",
		},
		{
			name: "query string is ignored",
			url:  "https://example.com/a.png?v=2",
			want: "example.com/a.png",
		},
		{
			name: "distinct hosts do not collide",
			url:  "https://cdn.example.com/static/app.css",
			want: "cdn.example.com/static/app.css",
		},
		{
			name:    "relative URL is rejected",
			url:     "/static/app.css",
			wantErr: true,
		},
		{
			name:    "dot segments escaping the root are rejected",
			url:     "https://example.com/../../etc/passwd",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cachepath.Relative(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, cachepath.ErrUnmappable)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRelative_Deterministic(t *testing.T) {
	t.Parallel()

	const u = "https://example.com/static/app.css"

	first, err := cachepath.Relative(u)
	require.NoError(t, err)

	second, err := cachepath.Relative(u)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestURLPath(t *testing.T) {
	t.Parallel()

	got, err := cachepath.URLPath("https://example.com/static/app.css")
	require.NoError(t, err)
	require.Equal(t, "/example.com/static/app.css", got)
}

func TestLocal_CreatesParentDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	local, err := cachepath.Local("https://example.com/static/img/logo.png", root)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "example.com", "static", "img", "logo.png"), local)

	info, err := os.Stat(filepath.Dir(local))
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
