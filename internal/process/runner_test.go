package process

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	helpers "git.home.luguber.info/inful/bookpress/internal/testutil/testutils"
)

func newTestRunner(t *testing.T) (*ExecRunner, *helpers.ToolBox, *bytes.Buffer) {
	t.Helper()
	tools := helpers.NewToolBox(t)
	var out bytes.Buffer
	r := NewExecRunner()
	r.Stdin = nil
	r.Stdout = &out
	r.Stderr = &out
	return r, tools, &out
}

func TestExecRunner_Success(t *testing.T) {
	r, tools, out := newTestRunner(t)
	tools.Tool("fake-builder", `echo "building in $(pwd) $1"`)
	workDir := t.TempDir()

	err := r.Run(context.Background(), Command{Args: []string{"fake-builder", "arg1"}, Dir: workDir})
	require.NoError(t, err)

	resolved, _ := filepath.EvalSymlinks(workDir)
	require.Contains(t, out.String(), "arg1")
	require.Contains(t, out.String(), filepath.Base(resolved))
}

func TestExecRunner_PropagatesExitCode(t *testing.T) {
	r, tools, out := newTestRunner(t)
	tools.Tool("fake-fail", `echo "raw tool failure" >&2; exit 3`)

	err := r.Run(context.Background(), Command{Args: []string{"fake-fail"}})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode())
	require.Equal(t, "fake-fail", exitErr.Tool)
	require.Contains(t, out.String(), "raw tool failure")
}

func TestExecRunner_ToolNotFound(t *testing.T) {
	r, _, _ := newTestRunner(t)

	err := r.Run(context.Background(), Command{Args: []string{"bookpress-no-such-tool"}})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitNotFound, exitErr.ExitCode())
	require.True(t, errors.Is(err, ErrToolNotFound))
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryTool))
}

func TestExecRunner_RelativeToolResolvedAgainstDir(t *testing.T) {
	r, tools, out := newTestRunner(t)
	workDir := t.TempDir()
	tools.Script(filepath.Join(workDir, "scripts", "build.sh"), `echo "local build $1"`)

	err := r.Run(context.Background(), Command{Args: []string{"./scripts/build.sh", "html"}, Dir: workDir})
	require.NoError(t, err)
	require.Contains(t, out.String(), "local build html")

	err = r.Run(context.Background(), Command{Args: []string{"./scripts/build.sh"}, Dir: t.TempDir()})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitNotFound, exitErr.ExitCode())
}

func TestExecRunner_SignalExitStatus(t *testing.T) {
	r, tools, _ := newTestRunner(t)
	tools.Tool("fake-killed", `kill -9 $$`)

	err := r.Run(context.Background(), Command{Args: []string{"fake-killed"}})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 137, exitErr.ExitCode())
}

func TestLookTool(t *testing.T) {
	var looked []string
	lookPath := func(p string) (string, error) {
		looked = append(looked, p)
		return p, nil
	}
	dir := t.TempDir()

	_, err := LookTool(lookPath, "jupyter-book", dir)
	require.NoError(t, err)
	_, err = LookTool(lookPath, "./build.sh", dir)
	require.NoError(t, err)
	_, err = LookTool(lookPath, "/usr/bin/true", dir)
	require.NoError(t, err)

	require.Equal(t, []string{"jupyter-book", filepath.Join(dir, "build.sh"), "/usr/bin/true"}, looked)
}

func TestExecRunner_EmptyCommand(t *testing.T) {
	r := NewExecRunner()
	err := r.Run(context.Background(), Command{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, ExitNotRunnable, exitErr.ExitCode())
}

func TestExecRunner_Canceled(t *testing.T) {
	r, tools, _ := newTestRunner(t)
	tools.Tool("fake-slow", `sleep 5`)
	r.WaitDelay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := r.Run(ctx, Command{Args: []string{"fake-slow"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
