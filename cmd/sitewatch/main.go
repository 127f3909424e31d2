package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitewatch/cmd/sitewatch/commands"
	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
	"git.home.luguber.info/inful/sitewatch/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("sitewatch"),
		kong.Description("Watch a bundled front-end project and publish every clean build into the served site."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	global := commands.NewGlobal()
	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
