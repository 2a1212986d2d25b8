package cmd

import (
	"context"
	"flag"
	"strings"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

type catalogCmd struct {
	category string
}

func (*catalogCmd) Name() string     { return "catalog" }
func (*catalogCmd) Synopsis() string { return "list the instruments available for trading" }
func (*catalogCmd) Usage() string {
	return `etf catalog [-c <category>]

  Lists the catalog instruments with their current price and TER.
`
}

func (c *catalogCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Only list instruments of this category (case insensitive)")
}

func (c *catalogCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		return fail("Error loading configuration: %v", err)
	}
	catalog, err := openCatalog(ctx, cfg.Catalog, zerolog.Nop())
	if err != nil {
		return fail("Error loading catalog: %v", err)
	}

	var list []portfolio.Instrument
	for _, inst := range catalog.List() {
		if c.category == "" || strings.EqualFold(inst.Category, c.category) {
			list = append(list, inst)
		}
	}
	printMarkdown(renderer.RenderCatalog(list))
	return subcommands.ExitSuccess
}
