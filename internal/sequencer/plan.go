package sequencer

import "git.home.luguber.info/inful/bookpress/internal/config"

// BuildStep invokes the configured static-site builder.
func BuildStep(cfg *config.Config) Step {
	return Step{
		Name:    StepBuild,
		Command: cfg.ExpandCommand(cfg.Builder.Command),
		Dir:     cfg.ToolDir(cfg.Builder),
	}
}

// PublishStep invokes the configured publishing utility.
func PublishStep(cfg *config.Config) Step {
	return Step{
		Name:    StepPublish,
		Command: cfg.ExpandCommand(cfg.Publisher.Command),
		Dir:     cfg.ToolDir(cfg.Publisher),
	}
}

// DeploySteps is the build-then-publish sequence.
func DeploySteps(cfg *config.Config) []Step {
	return []Step{BuildStep(cfg), PublishStep(cfg)}
}
