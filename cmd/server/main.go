// Package main implements the entry point for the Ocean Insight API server,
// which serves the memory-entry collection over HTTP and persists it to the
// configured slot store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/oceaninsight/internal/config"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/platform/slots"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false,
		"open the configured storage backend, apply pending schema migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateOnly); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, wires the application and serves until ctx is
// canceled. With migrateOnly it stops after the slot store has been opened;
// the SQL backends migrate their schema on open.
func run(ctx context.Context, migrateOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("storage_backend", cfg.Storage.Backend))

	slotStore, err := slots.Open(ctx, cfg.Storage, l)
	if err != nil {
		return err
	}

	if migrateOnly {
		l.Info("Migrations applied, exiting", slog.String("storage_backend", cfg.Storage.Backend))
		return slotStore.Close()
	}

	app, err := newApplication(ctx, cfg, l, slotStore)
	if err != nil {
		if cerr := slotStore.Close(); cerr != nil {
			l.Error("Error closing slot store", slog.String("error", cerr.Error()))
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
