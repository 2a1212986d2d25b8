package cmd

import (
	"context"
	"flag"

	"github.com/etnz/etfportfolio/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the portfolio valuation" }
func (*summaryCmd) Usage() string {
	return `etf summary

  Displays cash, total value, invested amount and return, and every holding
  valued at the current catalog price.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening portfolio: %v", err)
	}
	defer a.Close()

	printMarkdown(renderer.RenderSummary(renderer.Summary{
		Mode:      a.portfolio.Mode(),
		Valuation: a.portfolio.Valuation(),
	}))
	return subcommands.ExitSuccess
}
