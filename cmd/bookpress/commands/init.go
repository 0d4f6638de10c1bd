package commands

import (
	"fmt"

	"git.home.luguber.info/inful/bookpress/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.configPath()
	_, _ = fmt.Fprintf(g.Stdout, "Writing configuration to %s\n", path)
	if err := config.Init(path, i.Force); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(g.Stdout, "Initialized successfully")
	return nil
}
