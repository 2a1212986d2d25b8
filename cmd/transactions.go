package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// execute opens the portfolio, runs op on it and reports the transaction.
func execute(ctx context.Context, op func(p *portfolio.Portfolio) (portfolio.Transaction, error)) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening portfolio: %v", err)
	}
	defer a.Close()

	tx, err := op(a.portfolio)
	if err != nil {
		return fail("Error: %v", err)
	}
	fmt.Println(renderer.Transaction(tx))
	if a.portfolio.Mode() == portfolio.Demo {
		fmt.Println("(demo mode, the transaction was not saved)")
	}
	return subcommands.ExitSuccess
}

// parsePositive parses a strictly positive decimal flag value.
func parsePositive(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%s must be positive, got %s", name, value)
	}
	return d, nil
}

// --- Deposit Command ---

type depositCmd struct {
	amount string
	memo   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add cash to the portfolio" }
func (*depositCmd) Usage() string {
	return `etf deposit -a <amount> [-m <memo>]

  Credits the cash account with amount, in the ledger currency.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to deposit")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parsePositive("amount", c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return execute(ctx, func(p *portfolio.Portfolio) (portfolio.Transaction, error) {
		return p.Deposit(ctx, amount, portfolio.Memo(c.memo))
	})
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount string
	memo   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "take cash out of the portfolio" }
func (*withdrawCmd) Usage() string {
	return `etf withdraw -a <amount> [-m <memo>]

  Debits the cash account. Fails if amount exceeds the cash balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to withdraw")
	f.StringVar(&c.memo, "m", "", "An optional note for the transaction")
}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parsePositive("amount", c.amount)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return execute(ctx, func(p *portfolio.Portfolio) (portfolio.Transaction, error) {
		return p.Withdraw(ctx, amount, portfolio.Memo(c.memo))
	})
}

// orderFlags are shared by buy and sell.
type orderFlags struct {
	isin   string
	value  string
	method string
	memo   string
}

func (o *orderFlags) set(f *flag.FlagSet, verb string) {
	f.StringVar(&o.isin, "i", "", "ISIN of the instrument to "+verb)
	f.StringVar(&o.value, "v", "", "Money amount or number of shares, see -by")
	f.StringVar(&o.method, "by", portfolio.ByAmount.String(), "How to read -v: amount or shares")
	f.StringVar(&o.memo, "m", "", "An optional note for the transaction")
}

func (o *orderFlags) parse() (decimal.Decimal, portfolio.QuantityMethod, error) {
	if o.isin == "" {
		return decimal.Decimal{}, 0, fmt.Errorf("missing -i <isin>")
	}
	method, err := portfolio.ParseQuantityMethod(o.method)
	if err != nil {
		return decimal.Decimal{}, 0, err
	}
	value, err := parsePositive("value", o.value)
	return value, method, err
}

// --- Buy Command ---

type buyCmd struct{ orderFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `etf buy -i <isin> -v <value> [-by amount|shares] [-m <memo>]

  Purchases an instrument at its catalog price. With -by amount (default) -v
  is the money to invest, with -by shares it is the number of shares.
  The total cost is debited from the cash account.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.set(f, "buy") }

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	value, method, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return execute(ctx, func(p *portfolio.Portfolio) (portfolio.Transaction, error) {
		return p.Buy(ctx, c.isin, value, method, portfolio.Memo(c.memo))
	})
}

// --- Sell Command ---

type sellCmd struct{ orderFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `etf sell -i <isin> -v <value> [-by amount|shares] [-m <memo>]

  Sells a held instrument at its catalog price. The proceeds are credited to
  the cash account. Selling every share closes the position.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) { c.set(f, "sell") }

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	value, method, err := c.parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return execute(ctx, func(p *portfolio.Portfolio) (portfolio.Transaction, error) {
		return p.Sell(ctx, c.isin, value, method, portfolio.Memo(c.memo))
	})
}
