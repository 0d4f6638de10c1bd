package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		level   LogLevel
		verbose bool
		want    slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"warn", false, slog.LevelWarn},
		{"ERROR", false, slog.LevelError},
		{"error", true, slog.LevelDebug},
		{"bogus", false, slog.LevelInfo},
	}
	for _, c := range cases {
		if got := (LoggingConfig{Level: c.level}).SlogLevel(c.verbose); got != c.want {
			t.Errorf("SlogLevel(%q, %v) = %v, want %v", c.level, c.verbose, got, c.want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Format: LogFormatJSON}.NewLogger(&buf, false)
	logger.Info("hello", "step", "build")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected JSON output, got %q", buf.String())
	}
}
