package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/bookpress/internal/logfields"
	"git.home.luguber.info/inful/bookpress/internal/sequencer"
	"git.home.luguber.info/inful/bookpress/internal/site"
)

// DeployCmd implements the default 'deploy' command: build, then publish.
type DeployCmd struct {
	Preflight bool `help:"Check tools and table of contents references before running anything"`
}

func (d *DeployCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if d.Preflight {
		res := preflight(g, cfg)
		if !res.OK() {
			return res.Err()
		}
		slog.Info("Pre-flight check passed")
	}

	p := newPipeline(g, cfg, "deploy")
	defer p.Close()
	_, err = p.run(sequencer.DeploySteps(cfg)...)
	return err
}

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	p := newPipeline(g, cfg, "build")
	defer p.Close()
	_, err = p.run(sequencer.BuildStep(cfg))
	return err
}

// PublishCmd implements the 'publish' command.
type PublishCmd struct{}

func (c *PublishCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	// The publisher owns its inputs; an empty output is only worth a warning.
	if sum, serr := site.Inspect(cfg.OutputPath()); serr == nil && !sum.Populated {
		slog.Warn("Output directory is empty; publishing anyway", logfields.Path(cfg.OutputPath()))
	}
	p := newPipeline(g, cfg, "publish")
	defer p.Close()
	_, err = p.run(sequencer.PublishStep(cfg))
	return err
}
