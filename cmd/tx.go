package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/date"
	"github.com/etnz/etfportfolio/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	period string
	start  string
	date   string
	isin   string
	head   int
	tail   int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions in the ledger" }
func (*txCmd) Usage() string {
	return `etf tx [-p <period> | -s <start_date>] [-d <end_date>] [-i <isin>] [-head <n>] [-tail <n>]

  Lists transactions, most recent first, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.period, "p", "", "Calendar period (day, week, month, quarter, year) containing -d.")
	f.StringVar(&p.start, "s", "", "The start date for a custom range. Overrides -p.")
	f.StringVar(&p.date, "d", "", "The end date for the range. Defaults to today.")
	f.StringVar(&p.isin, "i", "", "Only list transactions on this ISIN.")
	f.IntVar(&p.head, "head", 0, "Show only the first N transactions.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N transactions.")
}

// window returns the date range selected by the flags, or nil for the whole log.
func (p *txCmd) window() (*date.Range, error) {
	if p.start == "" && p.date == "" && p.period == "" {
		return nil, nil
	}
	end := date.Today()
	if p.date != "" {
		var err error
		if end, err = date.Parse(p.date); err != nil {
			return nil, fmt.Errorf("invalid end date: %w", err)
		}
	}
	if p.start != "" {
		start, err := date.Parse(p.start)
		if err != nil {
			return nil, fmt.Errorf("invalid start date: %w", err)
		}
		return &date.Range{From: start, To: end}, nil
	}
	if p.period == "" {
		return &date.Range{To: end}, nil
	}
	period, err := date.ParsePeriod(p.period)
	if err != nil {
		return nil, err
	}
	r := date.NewRange(end, period)
	return &r, nil
}

// filter selects the transactions matching the flags in txs.
func (p *txCmd) filter(txs []portfolio.Transaction) ([]portfolio.Transaction, error) {
	window, err := p.window()
	if err != nil {
		return nil, err
	}
	var selected []portfolio.Transaction
	for _, tx := range txs {
		if p.isin != "" && tx.ISIN != p.isin {
			continue
		}
		if window != nil && !window.ContainsTime(tx.When()) {
			continue
		}
		selected = append(selected, tx)
	}
	if p.head > 0 && len(selected) > p.head {
		selected = selected[:p.head]
	}
	if p.tail > 0 && len(selected) > p.tail {
		selected = selected[len(selected)-p.tail:]
	}
	return selected, nil
}

func (p *txCmd) title() string {
	if w, err := p.window(); err == nil && w != nil && !w.From.IsZero() {
		return "Transactions " + w.Identifier()
	}
	return "Transactions"
}

func (p *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening portfolio: %v", err)
	}
	defer a.Close()

	transactions, err := p.filter(a.portfolio.Transactions())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.RenderTransactions(p.title(), transactions))
	return subcommands.ExitSuccess
}
