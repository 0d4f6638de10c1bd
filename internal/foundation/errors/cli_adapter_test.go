package errors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type exitErr struct{ code int }

func (e exitErr) Error() string { return fmt.Sprintf("exit status %d", e.code) }
func (e exitErr) ExitCode() int { return e.code }

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"book", BookError("toc unreadable").Build(), 11},
		{"internal", InternalError("boom").Build(), 10},
		{"unclassified", errors.New("unknown"), 1},
		{"external tool exit code passes through", exitErr{code: 3}, 3},
		{"wrapped tool exit code", fmt.Errorf("build: %w", exitErr{code: 42}), 42},
		{"missing tool", exitErr{code: 127}, 127},
		{"interrupted", fmt.Errorf("run: %w", context.Canceled), 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	require.Empty(t, adapter.FormatError(nil))
	require.Equal(t, "Error: bad config", adapter.FormatError(ConfigError("bad config").Build()))
	require.Equal(t, "Error: plain", adapter.FormatError(errors.New("plain")))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	require.Equal(t, "Error: [config:fatal] bad config", verbose.FormatError(ConfigError("bad config").Build()))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	var code int
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("bad config").WithContext("path", "bookpress.yaml").Build())
	require.Equal(t, 7, code)
	require.Contains(t, out.String(), "bad config")
	require.Contains(t, logs.String(), "path=bookpress.yaml")

	out.Reset()
	adapter.HandleError(exitErr{code: 5})
	require.Equal(t, 5, code)
	require.Empty(t, out.String(), "tool failures are not reprinted")
}
