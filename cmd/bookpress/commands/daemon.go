package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/schedule"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
)

// DaemonCmd implements the 'daemon' command: deploy on a schedule until
// interrupted. Runs never overlap.
type DaemonCmd struct {
	Every time.Duration `help:"Interval between deploys" default:"1h"`
	Cron  string        `help:"Cron expression; overrides --every"`
	Now   bool          `help:"Deploy immediately on start (interval schedules only)"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}

	p := newPipeline(g, cfg, "daemon")
	defer p.Close()

	task := func() {
		if g.Ctx.Err() != nil {
			return
		}
		rep, err := p.run(sequencer.DeploySteps(cfg)...)
		if err != nil {
			slog.Error("Scheduled deploy failed", logfields.Error(err))
			return
		}
		slog.Info("Scheduled deploy completed", logfields.RunID(rep.RunID), logfields.Duration(rep.Duration()))
	}

	s, err := schedule.NewScheduler()
	if err != nil {
		return err
	}
	var id string
	if d.Cron != "" {
		id, err = s.ScheduleCron("deploy", d.Cron, task)
	} else {
		id, err = s.ScheduleEvery("deploy", d.Every, d.Now, task)
	}
	if err != nil {
		return err
	}

	s.Start()
	if next, nerr := s.NextRun(id); nerr == nil && !next.IsZero() {
		slog.Info("Daemon started", "next_run", next.Format(time.RFC3339))
	} else {
		slog.Info("Daemon started")
	}

	<-g.Ctx.Done()
	slog.Info("Shutdown signal received, stopping scheduler")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		slog.Warn("Scheduler did not stop cleanly", logfields.Error(err))
	}
	slog.Info("Daemon stopped")
	return nil
}
