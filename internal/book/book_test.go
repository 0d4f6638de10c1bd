package book

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
)

const fixture = "testdata/course"

// copyFixture returns a writable copy of the course fixture.
func copyFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.CopyFS(dir, os.DirFS(fixture)))
	return dir
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(fixture)
	require.NoError(t, err)
	require.Equal(t, "Computational Text Analysis", s.Title)
	require.Equal(t, "Course Staff", s.Author)
	require.Equal(t, "https://github.com/example/cta-book", s.Repository.URL)
	require.Equal(t, "main", s.Repository.Branch)
	require.True(t, s.HTML.UseRepositoryButton)
	require.Equal(t, "off", s.Execute.ExecuteNotebooks)
	require.Contains(t, s.Extra, "launch_buttons")
}

func TestLoadTOC_ItemsInDisplayOrder(t *testing.T) {
	toc, err := LoadTOC(fixture)
	require.NoError(t, err)

	items := toc.Items()
	require.Len(t, items, 5)
	require.Equal(t, Item{File: "intro"}, items[0])
	require.Equal(t, Item{File: "week4/ollama", Part: "Week 4"}, items[1])
	require.Equal(t, Item{File: "week6/overview", Part: "Week 6"}, items[2])
	require.Equal(t, Item{Glob: "week6/examples/*", Part: "Week 6", Depth: 1}, items[3])
	require.Equal(t, Item{URL: "https://platform.openai.com/docs", Title: "API reference", Part: "Week 6"}, items[4])

	require.Equal(t, []string{"intro", "week4/ollama", "week6/overview"}, toc.Files())
}

func TestTOCValidate(t *testing.T) {
	cases := []struct {
		name string
		toc  TOC
	}{
		{"no root", TOC{Format: "jb-book"}},
		{"unknown format", TOC{Format: "mkdocs", Root: "intro"}},
		{"parts and chapters", TOC{Root: "intro", Parts: []Part{{Caption: "A"}}, Chapters: []Entry{{File: "a"}}}},
		{"empty entry", TOC{Root: "intro", Chapters: []Entry{{Title: "nothing"}}}},
		{"file and url", TOC{Root: "intro", Chapters: []Entry{{File: "a", URL: "https://x"}}}},
		{"nested empty entry", TOC{Root: "intro", Chapters: []Entry{{File: "a", Sections: []Entry{{}}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.toc.Validate()
			require.Error(t, err)
			require.True(t, ferrors.HasCategory(err, ferrors.CategoryBook))
		})
	}

	ok := TOC{Format: "jb-article", Root: "index", Sections: []Entry{{File: "a"}}}
	require.NoError(t, ok.Validate())
}

func TestLoadTOC_NotFound(t *testing.T) {
	_, err := LoadTOC(t.TempDir())
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
}

func TestResolve(t *testing.T) {
	p, ok := Resolve(fixture, "week4/ollama")
	require.True(t, ok)
	require.Equal(t, filepath.Join(fixture, "week4", "ollama.ipynb"), p)

	p, ok = Resolve(fixture, "intro.md")
	require.True(t, ok)
	require.Equal(t, filepath.Join(fixture, "intro.md"), p)

	_, ok = Resolve(fixture, "week4")
	require.False(t, ok, "directories are not content files")

	_, ok = Resolve(fixture, "week9/missing")
	require.False(t, ok)
}

func TestMissing(t *testing.T) {
	dir := copyFixture(t)
	b, err := Open(dir)
	require.NoError(t, err)
	require.Empty(t, b.Missing())

	require.NoError(t, os.Remove(filepath.Join(dir, "week4", "ollama.ipynb")))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "week6", "examples")))
	require.Equal(t, []string{"week4/ollama", "week6/examples/*"}, b.Missing())
}

func TestOutline(t *testing.T) {
	b, err := Open(fixture)
	require.NoError(t, err)

	entries, err := b.Outline()
	require.NoError(t, err)

	titles := make([]string, 0, len(entries))
	for _, e := range entries {
		require.False(t, e.Missing, e.File)
		titles = append(titles, e.Title)
	}
	require.Equal(t, []string{
		"Welcome to Computational Text Analysis",
		"Running Models Locally",
		"Prompting for Annotation",
		"Example 1: Basic Prompting Patterns for Text Annotation",
		"02 Structured Outputs",
		"API reference",
	}, titles)
	require.Equal(t, "week6/examples/01_basic_prompting", entries[3].File)
	require.Equal(t, 1, entries[3].Depth)
}

func TestOpen_WithoutSettings(t *testing.T) {
	dir := copyFixture(t)
	require.NoError(t, os.Remove(filepath.Join(dir, SettingsFile)))

	b, err := Open(dir)
	require.NoError(t, err)
	require.Empty(t, b.Settings.Title)
	require.Equal(t, "Welcome to Computational Text Analysis", b.Title())
}

func TestFingerprint(t *testing.T) {
	dir := copyFixture(t)
	b, err := Open(dir)
	require.NoError(t, err)

	first, err := b.Fingerprint()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	again, err := b.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, first, again)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# Changed\n"), 0o600))
	changed, err := b.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, first, changed)
}
