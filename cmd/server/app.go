package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oceaninsight/internal/config"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"github.com/phrazzld/oceaninsight/internal/service"
	"github.com/phrazzld/oceaninsight/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	slots        store.SlotStore
	memoryStore  *memory.Store
	entryService service.EntryService
}

// newApplication builds the memory store on top of slots, loads the persisted
// collection and creates the services. The application takes ownership of
// slots and closes it in cleanup.
//
// A corrupt or unreadable collection is not fatal: the store starts empty and
// the failure is logged.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, slots store.SlotStore) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		slots:  slots,
	}

	var err error
	app.memoryStore, err = memory.New(slots,
		memory.WithKey(cfg.Storage.Key),
		memory.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory store: %w", err)
	}

	if err := app.memoryStore.Load(ctx); err != nil {
		switch {
		case errors.Is(err, memory.ErrCorruptData), errors.Is(err, memory.ErrPersistence):
			logger.Warn("Starting with an empty collection",
				slog.String("key", cfg.Storage.Key),
				slog.String("error", err.Error()))
		default:
			return nil, fmt.Errorf("failed to load memory entries: %w", err)
		}
	}
	logger.Info("Memory entries loaded",
		slog.String("key", cfg.Storage.Key),
		slog.Int("count", app.memoryStore.Len()))

	app.entryService, err = service.NewEntryService(app.memoryStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the slot store.
func (app *application) cleanup() {
	if app.slots == nil {
		return
	}
	if err := app.slots.Close(); err != nil {
		app.logger.Error("Error closing slot store", slog.String("error", err.Error()))
	}
}
