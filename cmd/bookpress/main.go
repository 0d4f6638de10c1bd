package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bookpress/cmd/bookpress/commands"
	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("bookpress"),
		kong.Description("Build a course book with its static-site generator, then publish the output. Stops at the first failing step."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := parser.Run(commands.NewGlobal(ctx), cli)
	stop()

	if err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
