package sequencer

import "time"

// ExitCanceled is the conventional status of a process stopped by SIGINT.
const ExitCanceled = 130

// Report summarizes one run.
type Report struct {
	RunID      string
	Start      time.Time
	End        time.Time
	Steps      []StepResult
	Outcome    Outcome
	FailedStep string
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// ExitCode is the process exit status the run maps to: zero on success,
// otherwise the exit code of the failed step.
func (r *Report) ExitCode() int {
	if r.Outcome == OutcomeCanceled {
		return ExitCanceled
	}
	for _, s := range r.Steps {
		if s.Err != nil {
			if s.ExitCode == 0 {
				return 1
			}
			return s.ExitCode
		}
	}
	return 0
}
