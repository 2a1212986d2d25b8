package cmd

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/etfportfolio/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	host string
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio over a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `etf serve [-host <host>] [-port <port>]

  Serves the portfolio until interrupted. Host, port and allowed CORS origins
  default to the [server] section of the configuration.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.host, "host", "", "Listen host, overrides the configuration")
	f.IntVar(&c.port, "port", 0, "Listen port, overrides the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		return fail("Error opening portfolio: %v", err)
	}
	defer a.Close()

	cfg := a.cfg.Server
	if c.host != "" {
		cfg.Host = c.host
	}
	if c.port != 0 {
		cfg.Port = c.port
	}

	srv := server.New(server.Config{
		Log:            a.log,
		Portfolio:      a.portfolio,
		Host:           cfg.Host,
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		if err != nil {
			return fail("Error serving on %s: %v", srv.Addr(), err)
		}
		return subcommands.ExitSuccess
	case <-quit:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("Server forced to shutdown")
		return subcommands.ExitFailure
	}
	a.log.Info().Msg("Server stopped")
	return subcommands.ExitSuccess
}
