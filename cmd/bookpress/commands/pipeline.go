package commands

import (
	"log/slog"
	"path/filepath"
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/bookpress/internal/book"
	"git.home.luguber.info/inful/bookpress/internal/config"
	"git.home.luguber.info/inful/bookpress/internal/history"
	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/metrics"
	"git.home.luguber.info/inful/bookpress/internal/notify"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
	"git.home.luguber.info/inful/bookpress/internal/site"
	"git.home.luguber.info/inful/bookpress/internal/source"
)

// pipeline runs sequences for one command invocation. Its observers live as
// long as the command, so daemon and watch runs share one history store,
// one NATS connection and cumulative metrics.
type pipeline struct {
	g       *Global
	cfg     *config.Config
	command string

	reg     *prom.Registry
	metrics *metrics.Observer
	store   history.Store
	pub     *notify.Publisher
}

// newPipeline prepares the optional observers. Setup failures are logged and
// never prevent a run.
func newPipeline(g *Global, cfg *config.Config, command string) *pipeline {
	p := &pipeline{g: g, cfg: cfg, command: command}

	if cfg.Metrics.Textfile != "" {
		p.reg = prom.NewRegistry()
		p.metrics = metrics.NewObserver(metrics.NewPrometheusRecorder(p.reg))
	}

	if path := cfg.HistoryPath(); path != "" {
		store, err := history.NewSQLiteStore(path)
		if err != nil {
			slog.Warn("Run history unavailable", logfields.Path(path), logfields.Error(err))
		} else {
			p.store = store
		}
	}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Run notifications unavailable", logfields.Error(err))
		} else {
			p.pub = pub
		}
	}
	return p
}

// Close releases the history store and the NATS connection.
func (p *pipeline) Close() {
	if p.store != nil {
		_ = p.store.Close()
	}
	p.pub.Close()
}

// run executes steps in order and returns the sequencer's report and error.
func (p *pipeline) run(steps ...sequencer.Step) (*sequencer.Report, error) {
	meta := collectMetadata(p.cfg)
	observers := []sequencer.Observer{
		sequencer.LogObserver{Logger: slog.Default()},
		outputObserver{dir: p.cfg.OutputPath()},
	}
	if p.metrics != nil {
		observers = append(observers, p.metrics)
	}
	if p.store != nil {
		observers = append(observers, history.NewRecorder(p.store, p.command, meta))
	}
	if p.pub != nil {
		observers = append(observers, notify.NewNotifier(p.pub, p.command, meta))
	}

	rep, err := sequencer.New(p.g.Runner, steps...).WithObserver(observers...).Run(p.g.Ctx)

	if p.reg != nil {
		if werr := metrics.WriteTextfile(metricsPath(p.cfg), p.reg); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Error(werr))
		}
	}
	return rep, err
}

// collectMetadata gathers best-effort context about the book for history and
// notifications.
func collectMetadata(cfg *config.Config) history.Metadata {
	var meta history.Metadata

	info, err := source.Inspect(cfg.BookDir)
	if err != nil {
		slog.Debug("Source info unavailable", logfields.Error(err))
	}
	meta.Commit, meta.Branch, meta.Dirty = info.Commit, info.Branch, info.Dirty
	if info.Commit != "" {
		slog.Info("Book source", logfields.Commit(info.ShortCommit()), "branch", info.Branch, "dirty", info.Dirty)
	}

	b, err := book.Open(cfg.BookDir)
	if err != nil {
		slog.Debug("Book metadata unavailable", logfields.Error(err))
		return meta
	}
	meta.BookTitle = b.Title()
	if fp, err := b.Fingerprint(); err == nil {
		meta.Fingerprint = fp
	} else {
		slog.Debug("Content fingerprint unavailable", logfields.Error(err))
	}
	return meta
}

func metricsPath(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Metrics.Textfile) {
		return cfg.Metrics.Textfile
	}
	return filepath.Join(cfg.BookDir, cfg.Metrics.Textfile)
}

// outputObserver logs what the builder produced.
type outputObserver struct {
	sequencer.NoopObserver
	dir string
}

func (o outputObserver) OnStepComplete(runID string, res sequencer.StepResult) {
	if res.Name != sequencer.StepBuild || res.Err != nil {
		return
	}
	sum, err := site.Inspect(o.dir)
	if err != nil {
		slog.Warn("Failed to inspect output", logfields.Path(o.dir), logfields.Error(err))
		return
	}
	if !sum.Populated {
		slog.Warn("Builder succeeded but the output directory is empty", logfields.RunID(runID), logfields.Path(o.dir))
		return
	}
	slog.Info("Output generated",
		logfields.RunID(runID),
		logfields.Path(o.dir),
		"pages", sum.Pages,
		"files", sum.Files,
		"bytes", sum.Bytes,
		"title", sum.Title)
}

// watchIgnores returns the book-relative paths bookpress itself writes to,
// which must not retrigger a build.
func watchIgnores(cfg *config.Config) []string {
	ignores := append([]string{}, cfg.Watch.Ignore...)
	for _, p := range []string{cfg.OutputDir, cfg.History.Path, cfg.Metrics.Textfile} {
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		clean := filepath.ToSlash(filepath.Clean(p))
		if top, _, _ := strings.Cut(clean, "/"); top != "" && top != "." && top != ".." {
			ignores = append(ignores, top)
		}
	}
	return ignores
}
