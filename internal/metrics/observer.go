package metrics

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// Observer feeds sequencer lifecycle events into a Recorder.
type Observer struct {
	sequencer.NoopObserver
	rec Recorder
}

// NewObserver adapts rec to sequencer.Observer. A nil rec records nothing.
func NewObserver(rec Recorder) *Observer {
	if rec == nil {
		rec = NoopRecorder{}
	}
	return &Observer{rec: rec}
}

func (o *Observer) OnStepComplete(_ string, res sequencer.StepResult) {
	o.rec.ObserveStepDuration(res.Name, res.Duration)
	o.rec.IncStepResult(res.Name, resultLabel(res.Err))
}

func (o *Observer) OnRunComplete(rep *sequencer.Report) {
	o.rec.ObserveRunDuration(rep.Duration())
	o.rec.IncRunOutcome(string(rep.Outcome))
	if rep.Outcome == sequencer.OutcomeSuccess {
		o.rec.SetLastSuccess(rep.End)
	}
}

func resultLabel(err error) ResultLabel {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, context.Canceled):
		return ResultCanceled
	default:
		return ResultFailed
	}
}
