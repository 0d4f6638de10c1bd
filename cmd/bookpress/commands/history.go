package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int    `short:"n" help:"Number of runs to show (0 for all)" default:"20"`
	JSON  bool   `name:"json" help:"Print runs as JSON"`
	ID    string `arg:"" optional:"" help:"Show a single run"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	path := cfg.HistoryPath()
	if path == "" {
		return ferrors.ConfigError("run history is disabled (history.disabled: true)").Build()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if h.ID != "" {
			return runNotFound(h.ID)
		}
		return h.print(g, nil)
	}

	store, err := history.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var runs []history.Run
	if h.ID != "" {
		run, err := findRun(g, store, h.ID)
		if err != nil {
			return err
		}
		runs = []history.Run{*run}
	} else if runs, err = store.List(g.Ctx, h.Limit); err != nil {
		return err
	}
	return h.print(g, runs)
}

func (h *HistoryCmd) print(g *Global, runs []history.Run) error {
	if h.JSON {
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(g.Stdout, "No runs recorded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(g.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tCOMMAND\tOUTCOME\tEXIT\tDURATION\tCOMMIT")
	for _, r := range runs {
		outcome := r.Outcome
		if r.FailedStep != "" {
			outcome += " (" + r.FailedStep + ")"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			shortID(r.ID),
			r.Start.Local().Format(time.DateTime),
			r.Command,
			outcome,
			r.ExitCode,
			r.Duration().Round(100*time.Millisecond),
			commitLabel(r),
		)
	}
	return tw.Flush()
}

// findRun resolves a full run id or a prefix that matches exactly one run.
func findRun(g *Global, store history.Store, id string) (*history.Run, error) {
	run, err := store.Get(g.Ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, history.ErrNotFound) {
		return nil, err
	}
	all, err := store.List(g.Ctx, 0)
	if err != nil {
		return nil, err
	}
	var matches []*history.Run
	for i := range all {
		if strings.HasPrefix(all[i].ID, id) {
			matches = append(matches, &all[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, runNotFound(id)
	case 1:
		return matches[0], nil
	}
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return nil, ferrors.ValidationError("run id prefix is ambiguous").
		WithContext("run_id", id).
		WithContext("matches", strings.Join(ids, ", ")).
		Build()
}

func runNotFound(id string) error {
	return ferrors.NewError(ferrors.CategoryNotFound, "run not found").
		WithContext("run_id", id).
		Build()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func commitLabel(r history.Run) string {
	c := r.Commit
	if len(c) > 7 {
		c = c[:7]
	}
	if c != "" && r.Dirty {
		c += "+"
	}
	return c
}
