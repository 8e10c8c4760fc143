// Package slots opens the store.SlotStore backend selected in configuration.
package slots

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oceaninsight/internal/config"
	"github.com/phrazzld/oceaninsight/internal/platform/fileslot"
	"github.com/phrazzld/oceaninsight/internal/platform/memslot"
	"github.com/phrazzld/oceaninsight/internal/platform/postgres"
	"github.com/phrazzld/oceaninsight/internal/platform/redis"
	"github.com/phrazzld/oceaninsight/internal/platform/sqlite"
	"github.com/phrazzld/oceaninsight/internal/store"
)

// Open returns the slot store for cfg.Backend. The caller must Close it.
func Open(ctx context.Context, cfg config.StorageConfig, l *slog.Logger) (store.SlotStore, error) {
	if l == nil {
		l = slog.Default()
	}
	l.Info("opening slot store", slog.String("backend", cfg.Backend), slog.String("key", cfg.Key))

	var (
		s   store.SlotStore
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		s = memslot.New()
	case config.BackendFile:
		s, err = fileslot.New(cfg.FileDir, l)
	case config.BackendSQLite:
		s, err = sqlite.Open(ctx, cfg.SQLitePath, l)
	case config.BackendPostgres:
		s, err = postgres.Open(ctx, cfg.DatabaseURL, l)
	case config.BackendRedis:
		s, err = redis.Open(ctx, cfg.RedisURL, cfg.RedisPrefix, l)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s slot store: %w", cfg.Backend, err)
	}
	return s, nil
}
