package history

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// Recorder stores each completed run. It implements sequencer.Observer.
type Recorder struct {
	sequencer.NoopObserver
	store   Store
	command string
	meta    Metadata
	timeout time.Duration
}

// NewRecorder returns an observer that records runs of command into store.
func NewRecorder(store Store, command string, meta Metadata) *Recorder {
	return &Recorder{store: store, command: command, meta: meta, timeout: 5 * time.Second}
}

func (r *Recorder) OnRunComplete(rep *sequencer.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.store.Record(ctx, FromReport(r.command, rep, r.meta)); err != nil {
		slog.Warn("Failed to record run history", logfields.RunID(rep.RunID), logfields.Error(err))
	}
}
