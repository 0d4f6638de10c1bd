package sequencer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/process"
)

// ErrNoSteps is returned when a sequencer has nothing to run.
var ErrNoSteps = errors.New("no steps to run")

// Sequencer executes steps in order, stopping on the first failure.
type Sequencer struct {
	steps     []Step
	runner    process.Runner
	observers multiObserver
	newID     func() string
	now       func() time.Time
}

// New creates a sequencer for the given steps.
func New(runner process.Runner, steps ...Step) *Sequencer {
	return &Sequencer{
		steps:  steps,
		runner: runner,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

// WithObserver registers observers; nil values are ignored.
func (s *Sequencer) WithObserver(obs ...Observer) *Sequencer {
	for _, o := range obs {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
	return s
}

// Run executes every step in declared order. The first step whose tool
// cannot be started or exits non-zero ends the run with a *StepError; later
// steps are never invoked. A canceled context ends the run before the next
// step starts and is returned as the error.
func (s *Sequencer) Run(ctx context.Context) (*Report, error) {
	if len(s.steps) == 0 {
		return nil, ferrors.InternalError(ErrNoSteps.Error()).Build()
	}
	for _, st := range s.steps {
		if st.Tool() == "" {
			return nil, ferrors.ValidationError("step has an empty command").
				WithContext("step", st.Name).
				Build()
		}
	}

	report := &Report{RunID: s.newID(), Start: s.now()}
	s.observers.OnRunStart(report)

	err := s.runSteps(ctx, report)

	report.End = s.now()
	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
	case ctx.Err() != nil:
		report.Outcome = OutcomeCanceled
	default:
		report.Outcome = OutcomeFailed
	}
	s.observers.OnRunComplete(report)
	return report, err
}

func (s *Sequencer) runSteps(ctx context.Context, report *Report) error {
	for _, st := range s.steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.observers.OnStepStart(report.RunID, st)
		t0 := s.now()
		err := s.runner.Run(ctx, process.Command{Args: st.Command, Dir: st.Dir})
		res := StepResult{
			Name:     st.Name,
			Tool:     st.Tool(),
			ExitCode: exitCodeOf(err),
			Duration: s.now().Sub(t0),
			Err:      err,
		}
		report.Steps = append(report.Steps, res)
		s.observers.OnStepComplete(report.RunID, res)

		if err != nil {
			report.FailedStep = st.Name
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &StepError{Step: st.Name, Tool: st.Tool(), Err: err}
		}
	}
	return nil
}
