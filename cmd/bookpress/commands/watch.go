package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
	"git.home.luguber.info/inful/bookpress/internal/watch"
)

// WatchCmd implements the 'watch' command. Only the builder runs; failed
// builds are logged and watching continues.
type WatchCmd struct {
	Initial  bool          `help:"Build once before watching" default:"true" negatable:""`
	Debounce time.Duration `help:"Quiet period before rebuilding (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}

	p := newPipeline(g, cfg, "watch")
	defer p.Close()

	build := func() {
		if _, err := p.run(sequencer.BuildStep(cfg)); err != nil && g.Ctx.Err() == nil {
			slog.Error("Build failed; waiting for further changes", logfields.Error(err))
		}
	}

	watcher, err := watch.New(cfg.BookDir, watch.Options{
		Debounce: cfg.Watch.Debounce,
		Ignore:   watchIgnores(cfg),
	}, func(_ context.Context, changed []string) {
		slog.Info("Rebuilding after changes", "files", len(changed), logfields.File(changed[0]))
		build()
	})
	if err != nil {
		return err
	}

	if w.Initial {
		build()
	}
	if err := watcher.Run(g.Ctx); err != nil {
		return err
	}
	slog.Info("Watch stopped")
	return nil
}
