package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"ledgersync/internal/config"
	"ledgersync/internal/ledger"
	"ledgersync/internal/reconcile"
	"ledgersync/internal/source"
	"ledgersync/internal/state"
)

var errRequiredFlag = errors.New("flag is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, nil); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer, client *http.Client) error {
	var (
		configPath string
		statePath  string
		once       bool
		verbose    bool
	)

	err := parseFlags(args, &configPath, &statePath, &once, &verbose)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Logs go to stderr; stdout only carries the cycle summaries.
	log := newLogger(os.Stderr, verbose)

	sourceClient := source.NewClient(
		cfg.Source.BaseURL,
		cfg.Source.ClientID,
		cfg.Source.Secret,
		cfg.Source.AccessToken,
		client,
	)
	ledgerClient := ledger.NewClient(cfg.Ledger.BaseURL, cfg.Ledger.APIToken, client)

	reconciler := reconcile.New(sourceClient, ledgerClient, reconcile.Config{
		AccountMapping:    cfg.AccountMapping,
		RemoveStrings:     cfg.RemoveStrings,
		NotDuplicates:     cfg.NotDuplicates,
		MatchTransactions: cfg.MatchTransactions,
	}, log)

	store := state.NewFile(statePath)

	cursors, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading cursors: %w", err)
	}

	for {
		stats, err := reconciler.Run(ctx, cursors)

		switch {
		case err != nil && once:
			return fmt.Errorf("running cycle: %w", err)
		case err != nil:
			log.Error().Err(err).Msg("cycle aborted, will retry on next interval")
		default:
			cursors = stats.Cursors
			if err := store.Save(cursors); err != nil {
				return fmt.Errorf("saving cursors: %w", err)
			}

			printSummary(stdout, stats)
		}

		if once {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(cfg.SyncInterval)):
		}
	}
}

func parseFlags(args []string, configPath, statePath *string, once, verbose *bool) error {
	flagset := flag.NewFlagSet("", flag.ExitOnError)
	flagset.StringVar(configPath, "c", "", "Config file (YAML)")
	flagset.StringVar(statePath, "s", "ledgersync-state.json", "Cursor state file")
	flagset.BoolVar(once, "once", false, "Run a single sync cycle and exit")
	flagset.BoolVar(verbose, "v", false, "Verbose output")

	err := flagset.Parse(args)
	if err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	if *configPath == "" {
		return fmt.Errorf("%w: -c", errRequiredFlag)
	}

	return nil
}

func newLogger(out io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func printSummary(stdout io.Writer, stats *reconcile.Stats) {
	fmt.Fprintf(stdout, "fetched %d transaction(s): %s created, %s linked, %s collapsed, %s failed\n",
		stats.Fetched,
		color.GreenString("%d", stats.Created),
		color.CyanString("%d", stats.Linked),
		color.YellowString("%d", stats.Collapsed),
		color.RedString("%d", stats.Failed),
	)
}
