package config

import (
	"io"
	"log/slog"
	"strings"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/foundation/normalization"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}

// validate rejects level and format values the normalizers do not know.
// Empty values are left for the defaults.
func (l LoggingConfig) validate() error {
	if l.Level != "" {
		if _, err := logLevelNormalizer.NormalizeWithError(string(l.Level)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid logging.level").
				Fatal().
				WithContext("valid", strings.Join(logLevelNormalizer.ValidKeys(), ", ")).
				Build()
		}
	}
	if l.Format != "" {
		if _, err := logFormatNormalizer.NormalizeWithError(string(l.Format)); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid logging.format").
				Fatal().
				WithContext("valid", strings.Join(logFormatNormalizer.ValidKeys(), ", ")).
				Build()
		}
	}
	return nil
}

// SlogLevel maps the configured level onto slog. verbose forces debug.
func (l LoggingConfig) SlogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch NormalizeLogLevel(string(l.Level)) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (l LoggingConfig) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel(verbose)}
	if NormalizeLogFormat(string(l.Format)) == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
