package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookpress/internal/config"
	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/process"
)

// Global carries process-wide collaborators into every command.
type Global struct {
	Ctx      context.Context
	Runner   process.Runner
	Stdout   io.Writer
	LookPath func(string) (string, error)
}

// NewGlobal wires the real process runner and standard output.
func NewGlobal(ctx context.Context) *Global {
	return &Global{
		Ctx:      ctx,
		Runner:   process.NewExecRunner(),
		Stdout:   os.Stdout,
		LookPath: exec.LookPath,
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: bookpress.yaml when present)"`
	Dir     string           `short:"C" help:"Change to this directory before doing anything else" type:"existingdir"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Deploy  DeployCmd  `cmd:"" default:"1" help:"Build the book, then publish it (default command)"`
	Build   BuildCmd   `cmd:"" help:"Run only the builder"`
	Publish PublishCmd `cmd:"" help:"Run only the publisher"`
	Check   CheckCmd   `cmd:"" help:"Verify tools are installed and table of contents references exist"`
	Outline OutlineCmd `cmd:"" help:"Print the table of contents with resolved page titles"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever book content changes"`
	Daemon  DaemonCmd  `cmd:"" help:"Deploy periodically until interrupted"`
	History HistoryCmd `cmd:"" help:"List recorded runs"`
	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; it changes directory and sets up
// logging before any configuration is read.
func (c *CLI) AfterApply() error {
	if c.Dir != "" {
		if err := os.Chdir(c.Dir); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "change directory").
				WithContext("dir", c.Dir).
				Build()
		}
	}
	logging := config.LoggingConfig{Level: config.NormalizeLogLevel(os.Getenv("BOOKPRESS_LOG_LEVEL"))}
	slog.SetDefault(logging.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// LoadConfig reads the configuration and reconfigures logging from it.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, c.Verbose))
	slog.Debug("Configuration loaded",
		"config", c.configPath(),
		"book_dir", cfg.BookDir,
		"output_dir", cfg.OutputDir)
	return cfg, nil
}

func (c *CLI) configPath() string {
	if c.Config == "" {
		return config.DefaultPath
	}
	return c.Config
}
