package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/etfportfolio/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	isin string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the detail of one holding" }
func (*holdingCmd) Usage() string {
	return `etf holding -i <isin>

  Displays shares, cost basis, value, return and weight of a holding, and the
  transactions on its instrument.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.isin, "i", "", "ISIN of the holding")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.isin == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening portfolio: %v", err)
	}
	defer a.Close()

	hv, ok := a.portfolio.Valuation().Holding(c.isin)
	if !ok {
		fmt.Fprintf(os.Stderr, "No holding in %s\n", c.isin)
		return subcommands.ExitFailure
	}
	report := renderer.HoldingReport{HoldingValuation: hv}
	for _, tx := range a.portfolio.Transactions() {
		if tx.ISIN == c.isin {
			report.Transactions = append(report.Transactions, tx)
		}
	}
	printMarkdown(renderer.RenderHolding(report))
	return subcommands.ExitSuccess
}
