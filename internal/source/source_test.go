package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	helpers "git.home.luguber.info/inful/bookpress/internal/testutil/testutils"
)

func TestInspectOutsideRepository(t *testing.T) {
	info, err := Inspect(t.TempDir())
	require.NoError(t, err)
	require.False(t, info.IsRepository())
	require.Equal(t, "not a git repository", info.String())
}

func TestInspectEmptyRepository(t *testing.T) {
	_, _, dir := helpers.SetupTestGitRepo(t)
	info, err := Inspect(dir)
	require.NoError(t, err)
	require.True(t, info.IsRepository())
	require.Empty(t, info.Commit)
	require.Equal(t, "(no commits)", info.String())
}

func TestInspectCleanAndDirty(t *testing.T) {
	_, w, dir := helpers.SetupTestGitRepo(t)
	hash := helpers.CommitFile(t, w, "intro.md", "# Intro\n")

	info, err := Inspect(dir)
	require.NoError(t, err)
	require.Equal(t, hash, info.Commit)
	require.NotEmpty(t, info.Branch)
	require.False(t, info.Dirty)
	require.Equal(t, hash[:7]+" ("+info.Branch+")", info.String())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# Changed\n"), 0o600))
	info, err = Inspect(dir)
	require.NoError(t, err)
	require.True(t, info.Dirty)
	require.Contains(t, info.String(), "dirty")
}

func TestInspectFromSubdirectory(t *testing.T) {
	_, w, dir := helpers.SetupTestGitRepo(t)
	hash := helpers.CommitFile(t, w, "book/intro.md", "# Intro\n")

	info, err := Inspect(filepath.Join(dir, "book"))
	require.NoError(t, err)
	require.Equal(t, hash, info.Commit)
}
