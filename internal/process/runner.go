package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/logfields"
)

// Exit codes for failures that happen before the tool reports its own status.
const (
	ExitNotFound    = 127
	ExitNotRunnable = 126
)

// ErrToolNotFound indicates the tool binary is not on PATH.
var ErrToolNotFound = errors.New("tool not found on PATH")

// Command is one external tool invocation.
type Command struct {
	Args []string
	Dir  string
}

// Tool returns the program name.
func (c Command) Tool() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// ExitError reports a tool that did not finish successfully.
type ExitError struct {
	Tool string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s exited with status %d: %v", e.Tool, e.Code, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode implements the CLI adapter's ExitCoder.
func (e *ExitError) ExitCode() int { return e.Code }

// Runner executes a command and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec, inheriting the environment and
// passing the standard streams through.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// LookPath resolves the tool; defaults to exec.LookPath.
	LookPath func(string) (string, error)
	// WaitDelay bounds how long output is drained after cancellation.
	WaitDelay time.Duration
}

// NewExecRunner returns a runner wired to the process's standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookPath:  exec.LookPath,
		WaitDelay: 5 * time.Second,
	}
}

// LookTool resolves tool the way Run does. A bare name is searched on PATH;
// a relative path is taken relative to dir, the tool's working directory.
func LookTool(lookPath func(string) (string, error), tool, dir string) (string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if strings.ContainsRune(tool, '/') || strings.ContainsRune(tool, filepath.Separator) {
		if !filepath.IsAbs(tool) {
			abs, err := filepath.Abs(filepath.Join(dir, tool))
			if err != nil {
				return "", err
			}
			tool = abs
		}
	}
	return lookPath(tool)
}

// Run executes cmd. A nil error means exit status zero.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	tool := cmd.Tool()
	if tool == "" {
		return &ExitError{Tool: "<empty>", Code: ExitNotRunnable, Err: errors.New("empty command")}
	}

	path, err := LookTool(r.LookPath, tool, cmd.Dir)
	if err != nil {
		return &ExitError{Tool: tool, Code: ExitNotFound, Err: toolError(fmt.Errorf("%w: %w", ErrToolNotFound, err), "resolve tool", tool, cmd.Dir)}
	}

	c := exec.CommandContext(ctx, path, cmd.Args[1:]...)
	c.Dir = cmd.Dir
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	c.WaitDelay = r.WaitDelay

	slog.Debug("Running external tool", logfields.Tool(tool), logfields.Path(path), "args", cmd.Args[1:], "dir", cmd.Dir)

	if err := c.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Tool: tool, Code: exitStatus(exitErr)}
		}
		return &ExitError{Tool: tool, Code: ExitNotRunnable, Err: toolError(err, "start tool", tool, cmd.Dir)}
	}
	return nil
}

// exitStatus reports a signal-terminated tool as 128+signal, as a shell does.
func exitStatus(exitErr *exec.ExitError) int {
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}

func toolError(err error, msg, tool, dir string) error {
	return ferrors.WrapError(err, ferrors.CategoryTool, msg).
		WithContext("tool", tool).
		WithContext("dir", dir).
		Build()
}
