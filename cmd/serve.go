package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/taxreform"
	"github.com/etnz/taxreform/api"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	envFile string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the computation over HTTP" }
func (*serveCmd) Usage() string {
	return `trc serve [-env <file>]

  Serves the HTTP API, see "trc topic api" for the routes and the
  environment variables.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.envFile, "env", "", "environment file to load, defaults to .env when present")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := api.LoadConfig(c.envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	log, err := api.NewLogger(cfg.Stage, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer log.Sync()

	// the global flag wins over the environment.
	name := cfg.TablesFile
	if *tablesFile != "" {
		name = *tablesFile
	}
	tables, err := taxreform.LoadTables(name)
	if err != nil {
		log.Error("cannot load tables", zap.String("file", name), zap.Error(err))
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(taxreform.NewEngine(tables), cfg, log)
	if err := srv.Run(ctx); err != nil {
		log.Error("server failed", zap.Error(err))
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
