package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/bookpress/internal/book"
	"git.home.luguber.info/inful/bookpress/internal/config"
	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/process"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// CheckCmd implements the 'check' command. It never runs the tools.
type CheckCmd struct{}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	res := preflight(g, cfg)
	res.Print(g.Stdout)
	if !res.OK() {
		return res.Err()
	}
	return nil
}

type toolStatus struct {
	Step string
	Tool string
	Path string
}

// preflightResult collects everything that would make a deploy fail early.
type preflightResult struct {
	Tools    []toolStatus
	BookErr  error
	Missing  []string
	Title    string
	Chapters int
}

func preflight(g *Global, cfg *config.Config) preflightResult {
	var res preflightResult
	for _, st := range sequencer.DeploySteps(cfg) {
		ts := toolStatus{Step: st.Name, Tool: st.Tool()}
		if path, err := process.LookTool(g.LookPath, ts.Tool, st.Dir); err == nil {
			ts.Path = path
		}
		res.Tools = append(res.Tools, ts)
	}

	b, err := book.Open(cfg.BookDir)
	if err != nil {
		res.BookErr = err
		return res
	}
	res.Title = b.Title()
	res.Chapters = len(b.TOC.Items())
	res.Missing = b.Missing()
	return res
}

func (r preflightResult) OK() bool {
	if r.BookErr != nil || len(r.Missing) > 0 {
		return false
	}
	for _, t := range r.Tools {
		if t.Path == "" {
			return false
		}
	}
	return true
}

// Err summarizes the failures as a not-found error.
func (r preflightResult) Err() error {
	var problems []string
	for _, t := range r.Tools {
		if t.Path == "" {
			problems = append(problems, fmt.Sprintf("%s tool %q not found on PATH", t.Step, t.Tool))
		}
	}
	if r.BookErr != nil {
		problems = append(problems, r.BookErr.Error())
	}
	for _, m := range r.Missing {
		problems = append(problems, fmt.Sprintf("missing content %s", m))
	}
	return ferrors.NewError(ferrors.CategoryNotFound, "pre-flight check failed").
		WithContext("problems", strings.Join(problems, "; ")).
		Build()
}

func (r preflightResult) Print(w io.Writer) {
	for _, t := range r.Tools {
		if t.Path == "" {
			_, _ = fmt.Fprintf(w, "✗ %-8s %s (not found on PATH)\n", t.Step, t.Tool)
			continue
		}
		_, _ = fmt.Fprintf(w, "✓ %-8s %s (%s)\n", t.Step, t.Tool, t.Path)
	}
	if r.BookErr != nil {
		_, _ = fmt.Fprintf(w, "✗ book     %v\n", r.BookErr)
		return
	}
	_, _ = fmt.Fprintf(w, "✓ book     %q, %d table of contents entries\n", r.Title, r.Chapters)
	for _, m := range r.Missing {
		_, _ = fmt.Fprintf(w, "✗ missing  %s\n", m)
	}
}
