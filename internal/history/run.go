package history

import (
	"time"

	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// Run is the stored summary of one sequencer execution.
type Run struct {
	ID          string        `json:"id"`
	Command     string        `json:"command"`
	Outcome     string        `json:"outcome"`
	ExitCode    int           `json:"exit_code"`
	FailedStep  string        `json:"failed_step,omitempty"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Steps       []StepSummary `json:"steps"`
	BookTitle   string        `json:"book_title,omitempty"`
	Commit      string        `json:"commit,omitempty"`
	Branch      string        `json:"branch,omitempty"`
	Dirty       bool          `json:"dirty,omitempty"`
	Fingerprint string        `json:"fingerprint,omitempty"`
}

// StepSummary is the stored form of a step result.
type StepSummary struct {
	Name       string `json:"name"`
	Tool       string `json:"tool"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Metadata describes the book state a run operated on.
type Metadata struct {
	BookTitle   string
	Commit      string
	Branch      string
	Dirty       bool
	Fingerprint string
}

// Duration is the wall time of the run.
func (r Run) Duration() time.Duration { return r.End.Sub(r.Start) }

// FromReport converts a sequencer report into a Run.
func FromReport(command string, rep *sequencer.Report, meta Metadata) Run {
	run := Run{
		ID:          rep.RunID,
		Command:     command,
		Outcome:     string(rep.Outcome),
		ExitCode:    rep.ExitCode(),
		FailedStep:  rep.FailedStep,
		Start:       rep.Start,
		End:         rep.End,
		BookTitle:   meta.BookTitle,
		Commit:      meta.Commit,
		Branch:      meta.Branch,
		Dirty:       meta.Dirty,
		Fingerprint: meta.Fingerprint,
	}
	for _, s := range rep.Steps {
		sum := StepSummary{
			Name:       s.Name,
			Tool:       s.Tool,
			ExitCode:   s.ExitCode,
			DurationMS: s.Duration.Milliseconds(),
		}
		if s.Err != nil {
			sum.Error = s.Err.Error()
		}
		run.Steps = append(run.Steps, sum)
	}
	return run
}
