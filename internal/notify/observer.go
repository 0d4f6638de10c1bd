package notify

import (
	"log/slog"

	"git.home.luguber.info/inful/bookpress/internal/history"
	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// Notifier publishes an Event for every completed run. It implements
// sequencer.Observer.
type Notifier struct {
	sequencer.NoopObserver
	pub     *Publisher
	command string
	meta    history.Metadata
}

// NewNotifier returns an observer publishing runs of command through pub.
func NewNotifier(pub *Publisher, command string, meta history.Metadata) *Notifier {
	return &Notifier{pub: pub, command: command, meta: meta}
}

func (n *Notifier) OnRunComplete(rep *sequencer.Report) {
	ev := EventFromRun(history.FromReport(n.command, rep, n.meta))
	if err := n.pub.Publish(ev); err != nil {
		slog.Warn("Failed to publish run event", logfields.RunID(rep.RunID), logfields.Error(err))
		return
	}
	slog.Debug("Published run event", logfields.RunID(rep.RunID), logfields.Subject(n.pub.Subject()))
}
