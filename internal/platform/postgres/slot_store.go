package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
)

const backendName = "postgres"

// PostgresSlotStore implements store.SlotStore on the memory_slots table.
type PostgresSlotStore struct {
	db     store.DBTX
	owned  *sql.DB
	logger *slog.Logger
}

var _ store.SlotStore = (*PostgresSlotStore)(nil)

// NewPostgresSlotStore wraps an existing connection or transaction.
// The caller keeps ownership of db; Close does not close it.
// If logger is nil, a default logger will be used.
func NewPostgresSlotStore(db store.DBTX, logger *slog.Logger) *PostgresSlotStore {
	if db == nil {
		// ALLOW-PANIC: constructor precondition
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSlotStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_slot_store")),
	}
}

// Open connects to databaseURL, verifies the connection, applies pending
// migrations and returns a store that owns the connection pool.
func Open(ctx context.Context, databaseURL string, l *slog.Logger) (*PostgresSlotStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := NewPostgresSlotStore(db, l)
	s.owned = db
	s.logger.Info("database connection established")
	return s, nil
}

// Get implements store.SlotStore.Get.
func (s *PostgresSlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value::text FROM memory_slots WHERE key = $1`, key).Scan(&value)
	if err != nil {
		mapped := MapError(err)
		if mapped == store.ErrSlotNotFound {
			log.Debug("slot not found", slog.String("key", key))
			return nil, mapped
		}
		log.Error("failed to read slot", slog.String("key", key), slog.String("error", err.Error()))
		return nil, store.NewStoreError(backendName, "get", key, mapped)
	}

	return []byte(value), nil
}

// Put implements store.SlotStore.Put as an upsert.
func (s *PostgresSlotStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO memory_slots (key, value, updated_at)
		VALUES ($1, $2::json, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		log.Error("failed to write slot",
			slog.String("key", key),
			slog.Int("bytes", len(value)),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "put", key, MapError(err))
	}

	log.Debug("slot written", slog.String("key", key), slog.Int("bytes", len(value)))
	return nil
}

// Delete implements store.SlotStore.Delete.
func (s *PostgresSlotStore) Delete(ctx context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM memory_slots WHERE key = $1`, key); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete slot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "delete", key, MapError(err))
	}
	return nil
}

// Close closes the connection pool if the store opened it.
func (s *PostgresSlotStore) Close() error {
	if s.owned == nil {
		return nil
	}
	return s.owned.Close()
}
