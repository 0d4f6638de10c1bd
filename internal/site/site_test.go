package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspect_Populated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "week4"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"),
		[]byte("<html><head><title>\n  Welcome &mdash; Course\n</title></head><body></body></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "week4", "ollama.html"), []byte("<html></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "searchindex.js"), []byte("x"), 0o600))

	s, err := Inspect(dir)
	require.NoError(t, err)
	require.True(t, s.Populated)
	require.True(t, s.HasIndex)
	require.Equal(t, 2, s.Pages)
	require.Equal(t, 3, s.Files)
	require.Equal(t, "Welcome — Course", s.Title)
	require.Positive(t, s.Bytes)
}

func TestInspect_Missing(t *testing.T) {
	s, err := Inspect(filepath.Join(t.TempDir(), "_build", "html"))
	require.NoError(t, err)
	require.False(t, s.Populated)
	require.Zero(t, s.Files)
}

func TestDocumentTitle_NoTitle(t *testing.T) {
	require.Empty(t, documentTitle(strings.NewReader("<html><body>hi</body></html>")))
}
