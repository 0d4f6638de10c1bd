package notify

import (
	"time"

	"git.home.luguber.info/inful/bookpress/internal/history"
)

// Event is the JSON payload published after each run.
type Event struct {
	RunID      string                `json:"run_id"`
	Command    string                `json:"command"`
	Outcome    string                `json:"outcome"`
	ExitCode   int                   `json:"exit_code"`
	FailedStep string                `json:"failed_step,omitempty"`
	StartedAt  time.Time             `json:"started_at"`
	DurationMS int64                 `json:"duration_ms"`
	Steps      []history.StepSummary `json:"steps"`
	BookTitle  string                `json:"book_title,omitempty"`
	Commit     string                `json:"commit,omitempty"`
	Branch     string                `json:"branch,omitempty"`
	Dirty      bool                  `json:"dirty,omitempty"`
}

// EventFromRun builds the payload for a recorded run.
func EventFromRun(run history.Run) Event {
	return Event{
		RunID:      run.ID,
		Command:    run.Command,
		Outcome:    run.Outcome,
		ExitCode:   run.ExitCode,
		FailedStep: run.FailedStep,
		StartedAt:  run.Start.UTC(),
		DurationMS: run.Duration().Milliseconds(),
		Steps:      run.Steps,
		BookTitle:  run.BookTitle,
		Commit:     run.Commit,
		Branch:     run.Branch,
		Dirty:      run.Dirty,
	}
}
