package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyTool       = "tool"
	KeyExitCode   = "exit_code"
	KeyOutcome    = "outcome"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCommit     = "commit"
	KeyError      = "error"
	KeyURL        = "url"
	KeySubject    = "subject"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Tool(name string) slog.Attr      { return slog.String(KeyTool, name) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Commit(hash string) slog.Attr    { return slog.String(KeyCommit, hash) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }

// Duration converts d to milliseconds under the canonical key.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d) / float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
