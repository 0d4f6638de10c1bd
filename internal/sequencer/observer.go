package sequencer

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
)

// Observer receives callbacks around step execution and the run lifecycle.
type Observer interface {
	OnRunStart(report *Report)
	OnStepStart(runID string, step Step)
	OnStepComplete(runID string, result StepResult)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation; embed it to implement a subset.
type NoopObserver struct{}

func (NoopObserver) OnRunStart(*Report)                {}
func (NoopObserver) OnStepStart(string, Step)          {}
func (NoopObserver) OnStepComplete(string, StepResult) {}
func (NoopObserver) OnRunComplete(*Report)             {}

// LogObserver writes structured log lines for every lifecycle event.
type LogObserver struct {
	Logger *slog.Logger
}

func (o LogObserver) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o LogObserver) OnRunStart(r *Report) {
	o.logger().Info("Run started", logfields.RunID(r.RunID))
}

func (o LogObserver) OnStepStart(runID string, s Step) {
	o.logger().Info("Step started",
		logfields.RunID(runID),
		logfields.Step(s.Name),
		logfields.Tool(s.Tool()),
		logfields.Path(s.Dir))
}

func (o LogObserver) OnStepComplete(runID string, res StepResult) {
	attrs := []slog.Attr{
		logfields.RunID(runID),
		logfields.Step(res.Name),
		logfields.Tool(res.Tool),
		logfields.Duration(res.Duration),
	}
	if res.Err != nil {
		attrs = append(attrs, logfields.ExitCode(res.ExitCode), logfields.Error(res.Err))
		o.logger().LogAttrs(context.Background(), slog.LevelError, "Step failed", attrs...)
		return
	}
	o.logger().LogAttrs(context.Background(), slog.LevelInfo, "Step completed", attrs...)
}

func (o LogObserver) OnRunComplete(r *Report) {
	o.logger().Info("Run finished",
		logfields.RunID(r.RunID),
		logfields.Outcome(string(r.Outcome)),
		logfields.Duration(r.Duration()))
}

type multiObserver []Observer

func (m multiObserver) OnRunStart(r *Report) {
	for _, o := range m {
		o.OnRunStart(r)
	}
}

func (m multiObserver) OnStepStart(runID string, s Step) {
	for _, o := range m {
		o.OnStepStart(runID, s)
	}
}

func (m multiObserver) OnStepComplete(runID string, res StepResult) {
	for _, o := range m {
		o.OnStepComplete(runID, res)
	}
}

func (m multiObserver) OnRunComplete(r *Report) {
	for _, o := range m {
		o.OnRunComplete(r)
	}
}
