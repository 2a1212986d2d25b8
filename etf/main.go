// Command etf manages an ETF portfolio ledger from the command line.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/etfportfolio/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Answers shell completion requests and exits, a no-op otherwise.
	cmd.Completion().Complete("etf")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
