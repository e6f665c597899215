package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/citepage/cmd/citepage/commands"
	ferrors "git.home.luguber.info/inful/citepage/internal/foundation/errors"
	"git.home.luguber.info/inful/citepage/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("citepage"),
		kong.Description("Generate dated static pages of never-repeating citations."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	globals := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	err := parser.Run(globals, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
