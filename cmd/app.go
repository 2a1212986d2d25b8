// Package cmd implements the etf command line application.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	portfolio "github.com/etnz/etfportfolio"
	"github.com/etnz/etfportfolio/config"
	"github.com/etnz/etfportfolio/database"
	"github.com/etnz/etfportfolio/logger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// As a CLI application it has a very short lived lifecycle, global flags are fine.

var (
	configFile = flag.String("config", "", "Path to a TOML configuration file. Defaults to etf.toml in the user config directory then the working directory.")
	ledgerFile = flag.String("ledger-file", "", "Path to the JSONL ledger file. Overrides the configured storage.")
	demoFlag   = flag.Bool("demo", false, "Operate on the demonstration ledger. Nothing is persisted.")
)

// Commands lists the subcommands by group.
var Commands = []struct {
	Group    string
	Commands []subcommands.Command
}{
	{"cash", []subcommands.Command{&depositCmd{}, &withdrawCmd{}}},
	{"orders", []subcommands.Command{&buyCmd{}, &sellCmd{}}},
	{"reports", []subcommands.Command{&summaryCmd{}, &holdingCmd{}, &txCmd{}, &catalogCmd{}}},
	{"server", []subcommands.Command{&serveCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range Commands {
		for _, cmd := range g.Commands {
			c.Register(cmd, g.Group)
		}
	}
}

// app is everything a command needs, opened from the configuration.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	portfolio *portfolio.Portfolio
	closers   []io.Closer
}

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (*config.Config, error) {
	paths := config.DefaultPaths()
	if *configFile != "" {
		paths = []string{*configFile}
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Storage.Driver = config.DriverJSONL
		cfg.Storage.LedgerFile = *ledgerFile
	}
	if *demoFlag {
		cfg.Mode = string(portfolio.Demo)
	}
	return cfg, nil
}

// openApp loads the configuration and opens the portfolio it describes.
// Callers must Close the app.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg: cfg,
		log: logger.New(logger.Config{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty}),
	}

	store, closer, err := openStore(cfg, a.log)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}

	catalog, err := openCatalog(ctx, cfg.Catalog, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.portfolio, err = portfolio.New(ctx, catalog, store,
		portfolio.WithMode(portfolio.Mode(cfg.Mode)),
		portfolio.WithLogger(a.log),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the storage.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// openStore returns the live store of the configured driver, and what to
// close once done with it.
func openStore(cfg *config.Config, log zerolog.Logger) (portfolio.Store, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return portfolio.NewMemoryStore(cfg.Currency), nil, nil
	case config.DriverJSONL:
		return portfolio.NewFileStore(cfg.Storage.LedgerFile, cfg.Currency), nil, nil
	case config.DriverSQLite:
		db, err := database.OpenLedger(cfg.Storage.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open ledger database %q: %w", cfg.Storage.DatabasePath, err)
		}
		return database.NewLedgerStore(db.Conn(), cfg.Currency, log), db, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// openCatalog loads the configured catalog: a local JSON file, a JSON
// document served over HTTP, or the built-in demonstration catalog.
func openCatalog(ctx context.Context, cfg config.CatalogConfig, log zerolog.Logger) (portfolio.Catalog, error) {
	if cfg.Source == "" {
		return portfolio.DemoCatalog(), nil
	}
	if cfg.IsRemote() {
		client := http.DefaultClient
		if cfg.Cache {
			client = portfolio.NewDailyCacheClient(cfg.CacheDir, log)
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.GetTimeout())
		defer cancel()
		return portfolio.FetchCatalog(ctx, client, cfg.Source, cfg.Mapping)
	}
	f, err := os.Open(cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("cannot open catalog: %w", err)
	}
	defer f.Close()
	c, err := portfolio.DecodeCatalog(f, cfg.Mapping)
	if err != nil {
		return nil, fmt.Errorf("cannot decode catalog %q: %w", cfg.Source, err)
	}
	return c, nil
}

// printMarkdown renders md for the terminal, or prints it raw when stdout
// cannot be styled.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Println(strings.TrimRight(out, "\n"))
			return
		}
	}
	fmt.Print(md)
}

// fail prints err and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitFailure
}
