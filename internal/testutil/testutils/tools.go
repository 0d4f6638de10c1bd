package helpers

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// LogEnv names the variable fake tools append their invocations to.
const LogEnv = "BOOKPRESS_TEST_LOG"

// ToolBox is a directory of shell-script stand-ins for external tools,
// prepended to PATH for the duration of a test.
type ToolBox struct {
	t   *testing.T
	Dir string
	Log string
}

// NewToolBox creates an empty tool directory and puts it first on PATH.
// Tests are skipped on platforms without a POSIX shell.
func NewToolBox(t *testing.T) *ToolBox {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tools require a POSIX shell")
	}
	tb := &ToolBox{t: t, Dir: t.TempDir()}
	tb.Log = filepath.Join(t.TempDir(), "invocations.log")
	t.Setenv(LogEnv, tb.Log)
	t.Setenv("PATH", tb.Dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return tb
}

// Tool installs an executable script named name running body.
func (tb *ToolBox) Tool(name, body string) *ToolBox {
	tb.t.Helper()
	return tb.Script(filepath.Join(tb.Dir, name), body)
}

// Script writes an executable script at path, outside PATH, creating its
// directory as needed.
func (tb *ToolBox) Script(path, body string) *ToolBox {
	tb.t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		tb.t.Fatalf("failed to write tool %s: %v", path, err)
	}
	return tb
}

// Isolate restricts PATH to the tool directory, hiding every other program.
func (tb *ToolBox) Isolate() *ToolBox {
	tb.t.Setenv("PATH", tb.Dir)
	return tb
}

// Invocations returns the lines tools appended to the log, in order.
func (tb *ToolBox) Invocations() []string {
	tb.t.Helper()
	data, err := os.ReadFile(tb.Log)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		tb.t.Fatalf("failed to read invocation log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}
