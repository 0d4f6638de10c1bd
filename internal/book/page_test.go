package book

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	fm, body, err := splitFrontmatter([]byte("---\ntitle: A\n---\n# B\n"))
	require.NoError(t, err)
	require.Equal(t, "title: A\n", string(fm))
	require.Equal(t, "# B\n", string(body))

	fm, body, err = splitFrontmatter([]byte("---\r\ntitle: A\r\n---\r\n# B\r\n"))
	require.NoError(t, err)
	require.Equal(t, "title: A\r\n", string(fm))
	require.Equal(t, "# B\r\n", string(body))

	fm, body, err = splitFrontmatter([]byte("---\n---\n# B\n"))
	require.NoError(t, err)
	require.Empty(t, fm)
	require.Equal(t, "# B\n", string(body))

	fm, body, err = splitFrontmatter([]byte("# Plain\n"))
	require.NoError(t, err)
	require.Nil(t, fm)
	require.Equal(t, "# Plain\n", string(body))

	_, _, err = splitFrontmatter([]byte("---\ntitle: A\n# B\n"))
	require.ErrorIs(t, err, errUnclosedFrontmatter)
}

func TestMarkdownTitle(t *testing.T) {
	require.Equal(t, "Setext Title", markdownTitle([]byte("Setext Title\n============\n\ntext\n")))
	require.Equal(t, "Uses code", markdownTitle([]byte("intro\n\n### Uses `code`\n")))
	require.Empty(t, markdownTitle([]byte("no headings here\n")))
}

func TestRSTTitle(t *testing.T) {
	require.Equal(t, "Lecture Notes", rstTitle([]byte("Lecture Notes\n=============\n\nBody\n")))
	require.Equal(t, "Boxed", rstTitle([]byte("=====\nBoxed\n=====\n")))
	require.Empty(t, rstTitle([]byte("just text\n")))
}

func TestDocstringTitle(t *testing.T) {
	require.Equal(t, "Example 3", docstringTitle([]byte("#!/usr/bin/env python\n'''Example 3\nmore'''\n")))
	require.Equal(t, "One liner", docstringTitle([]byte(`"""One liner"""`)))
	require.Empty(t, docstringTitle([]byte("import os\n")))
}

func TestTitleFromName(t *testing.T) {
	require.Equal(t, "02 Structured Outputs", TitleFromName("week6/examples/02_structured-outputs.md"))
	require.Equal(t, "Intro", TitleFromName("intro.ipynb"))
}

func TestLoadPage_Kinds(t *testing.T) {
	dir := t.TempDir()
	rst := filepath.Join(dir, "notes.rst")
	require.NoError(t, os.WriteFile(rst, []byte("Syllabus\n--------\n"), 0o600))

	page, err := LoadPage(rst)
	require.NoError(t, err)
	require.Equal(t, KindRST, page.Kind)
	require.Equal(t, "Syllabus", page.Title)
	require.NotEmpty(t, page.Fingerprint)

	broken := filepath.Join(dir, "broken.ipynb")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o600))
	_, err = LoadPage(broken)
	require.Error(t, err)

	_, err = LoadPage(filepath.Join(dir, "absent.md"))
	require.Error(t, err)
}

func TestNotebookFingerprintIgnoresOutputs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ipynb")
	b := filepath.Join(dir, "b.ipynb")
	require.NoError(t, os.WriteFile(a, []byte(`{"cells":[{"cell_type":"code","source":"x = 1","outputs":[]}]}`), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(`{"cells":[{"cell_type":"code","source":["x = 1"],"execution_count":7,"outputs":[{"text":"1"}]}]}`), 0o600))

	pa, err := LoadPage(a)
	require.NoError(t, err)
	pb, err := LoadPage(b)
	require.NoError(t, err)
	require.Equal(t, pa.Fingerprint, pb.Fingerprint)
}
