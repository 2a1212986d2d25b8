package cmd

import (
	"context"
	"flag"
	"strings"

	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
)

// flagPredictors predicts subcommand flag values by flag name.
var flagPredictors = map[string]complete.Predictor{
	"i":  complete.PredictFunc(predictISIN),
	"by": predict.Set{portfolio.ByAmount.String(), portfolio.ByShares.String()},
	"p":  predict.Set{"day", "week", "month", "quarter", "year"},
}

// Completion returns the shell completion tree of the etf command, built
// from the registered subcommands and their flags.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.toml"),
			"ledger-file": predict.Files("*.jsonl"),
			"demo":        predict.Nothing,
		},
	}
	for _, g := range Commands {
		for _, c := range g.Commands {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			fs.VisitAll(func(f *flag.Flag) {
				if p, ok := flagPredictors[f.Name]; ok {
					sub.Flags[f.Name] = p
				} else {
					sub.Flags[f.Name] = predict.Something
				}
			})
			if c.Name() == "topic" {
				sub.Args = complete.PredictFunc(predictTopic)
			}
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

// predictISIN lists the catalog ISINs matching prefix.
func predictISIN(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	catalog, err := openCatalog(context.Background(), cfg.Catalog, zerolog.Nop())
	if err != nil {
		return nil
	}
	var isins []string
	for _, inst := range catalog.List() {
		if strings.HasPrefix(inst.ISIN, strings.ToUpper(prefix)) {
			isins = append(isins, inst.ISIN)
		}
	}
	return isins
}

// predictTopic lists the documentation topics matching prefix.
func predictTopic(prefix string) []string {
	names, _ := docs.List()
	var matches []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			matches = append(matches, n)
		}
	}
	return matches
}
