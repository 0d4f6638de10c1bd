package sequencer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bookpress/internal/config"
	"git.home.luguber.info/inful/bookpress/internal/process"
)

// fakeRunner records invocations and returns scripted results per tool.
type fakeRunner struct {
	mu      sync.Mutex
	calls   []string
	results map[string]error
	onRun   func(tool string)
}

func (f *fakeRunner) Run(_ context.Context, cmd process.Command) error {
	f.mu.Lock()
	f.calls = append(f.calls, cmd.Tool())
	f.mu.Unlock()
	if f.onRun != nil {
		f.onRun(cmd.Tool())
	}
	return f.results[cmd.Tool()]
}

func (f *fakeRunner) count(tool string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == tool {
			n++
		}
	}
	return n
}

type recordingObserver struct {
	NoopObserver
	events []string
	final  *Report
}

func (r *recordingObserver) OnRunStart(*Report) { r.events = append(r.events, "run:start") }
func (r *recordingObserver) OnStepStart(_ string, s Step) {
	r.events = append(r.events, "start:"+s.Name)
}
func (r *recordingObserver) OnStepComplete(_ string, res StepResult) {
	r.events = append(r.events, "done:"+res.Name)
}
func (r *recordingObserver) OnRunComplete(rep *Report) {
	r.events = append(r.events, "run:done")
	r.final = rep
}

func deploySteps() []Step {
	return []Step{
		{Name: StepBuild, Command: []string{"builder", "build", "."}},
		{Name: StepPublish, Command: []string{"publisher", "-p", "_build/html"}},
	}
}

func TestRun_BothStepsSucceed(t *testing.T) {
	runner := &fakeRunner{}
	obs := &recordingObserver{}

	report, err := New(runner, deploySteps()...).WithObserver(obs).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Equal(t, 0, report.ExitCode())
	require.Equal(t, []string{"builder", "publisher"}, runner.calls)
	require.NotEmpty(t, report.RunID)
	require.Equal(t, []string{"run:start", "start:build", "done:build", "start:publish", "done:publish", "run:done"}, obs.events)
	require.Same(t, report, obs.final)
}

func TestRun_FirstStepFailureNeverInvokesSecond(t *testing.T) {
	runner := &fakeRunner{results: map[string]error{
		"builder": &process.ExitError{Tool: "builder", Code: 2},
	}}

	report, err := New(runner, deploySteps()...).Run(context.Background())
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepBuild, stepErr.Step)
	require.Equal(t, 2, stepErr.ExitCode())

	require.Equal(t, 0, runner.count("publisher"))
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Equal(t, StepBuild, report.FailedStep)
	require.Equal(t, 2, report.ExitCode())
	require.Len(t, report.Steps, 1)
}

func TestRun_SecondStepFailurePropagatesItsCode(t *testing.T) {
	runner := &fakeRunner{results: map[string]error{
		"publisher": &process.ExitError{Tool: "publisher", Code: 128},
	}}

	report, err := New(runner, deploySteps()...).Run(context.Background())
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, StepPublish, stepErr.Step)
	require.Equal(t, 128, stepErr.ExitCode())
	require.Equal(t, 128, report.ExitCode())
	require.Len(t, report.Steps, 2)
}

func TestRun_MissingToolIsHardFailure(t *testing.T) {
	runner := &fakeRunner{results: map[string]error{
		"builder": &process.ExitError{Tool: "builder", Code: process.ExitNotFound, Err: process.ErrToolNotFound},
	}}

	_, err := New(runner, deploySteps()...).Run(context.Background())
	require.ErrorIs(t, err, process.ErrToolNotFound)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, process.ExitNotFound, stepErr.ExitCode())
	require.Equal(t, 0, runner.count("publisher"))
}

func TestRun_UncodedFailureMapsToOne(t *testing.T) {
	runner := &fakeRunner{results: map[string]error{"builder": errors.New("boom")}}

	report, err := New(runner, deploySteps()...).Run(context.Background())
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	require.Equal(t, 1, stepErr.ExitCode())
	require.Equal(t, 1, report.ExitCode())
}

func TestRun_CanceledBetweenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &fakeRunner{onRun: func(tool string) {
		if tool == "builder" {
			cancel()
		}
	}}

	report, err := New(runner, deploySteps()...).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, OutcomeCanceled, report.Outcome)
	require.Equal(t, ExitCanceled, report.ExitCode())
	require.Equal(t, 0, runner.count("publisher"))
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &fakeRunner{}

	report, err := New(runner, deploySteps()...).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, OutcomeCanceled, report.Outcome)
	require.Empty(t, runner.calls)
}

func TestRun_RejectsEmptyPlans(t *testing.T) {
	_, err := New(&fakeRunner{}).Run(context.Background())
	require.Error(t, err)

	_, err = New(&fakeRunner{}, Step{Name: StepBuild}).Run(context.Background())
	require.Error(t, err)
}

func TestRun_DeterministicClockAndID(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s := New(&fakeRunner{}, deploySteps()...)
	s.newID = func() string { return "run-1" }
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "run-1", report.RunID)
	require.Equal(t, 5*time.Second, report.Duration())
	require.Equal(t, time.Second, report.Steps[0].Duration)
}

func TestDeploySteps(t *testing.T) {
	cfg := config.Default()
	cfg.BookDir = "book"

	steps := DeploySteps(cfg)
	require.Len(t, steps, 2)
	require.Equal(t, StepBuild, steps[0].Name)
	require.Equal(t, []string{"jupyter-book", "build", "."}, steps[0].Command)
	require.Equal(t, "book", steps[0].Dir)
	require.Equal(t, StepPublish, steps[1].Name)
	require.Equal(t, []string{"ghp-import", "-n", "-p", "-f", cfg.OutputDir}, steps[1].Command)
}
