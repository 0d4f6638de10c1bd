package sequencer

import (
	"errors"
	"fmt"
	"time"
)

// Canonical step names.
const (
	StepBuild   = "build"
	StepPublish = "publish"
)

// Step is one external tool invocation within a run.
type Step struct {
	Name    string
	Command []string
	Dir     string
}

// Tool returns the program name of the step's command.
func (s Step) Tool() string {
	if len(s.Command) == 0 {
		return ""
	}
	return s.Command[0]
}

// Outcome is the final status of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StepResult records how a single step finished.
type StepResult struct {
	Name     string
	Tool     string
	ExitCode int
	Duration time.Duration
	Err      error
}

// StepError is returned when a step fails; it stops the run.
type StepError struct {
	Step string
	Tool string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s (%s) failed: %v", e.Step, e.Tool, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExitCode returns the exit status of the failed tool, or 1 when the
// failure carries none.
func (e *StepError) ExitCode() int {
	var coded interface{ ExitCode() int }
	if errors.As(e.Err, &coded) && coded.ExitCode() != 0 {
		return coded.ExitCode()
	}
	return 1
}

// exitCodeOf extracts an exit status for a step result.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return 1
}
