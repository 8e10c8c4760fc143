// Package sqlite provides a single-file SQLite implementation of
// store.SlotStore using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver
)

const backendName = "sqlite"

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SlotStore implements store.SlotStore on a memory_slots table.
type SlotStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ store.SlotStore = (*SlotStore)(nil)

// Open opens (creating if needed) the database file at path and applies
// pending migrations.
func Open(ctx context.Context, path string, l *slog.Logger) (*SlotStore, error) {
	if path == "" {
		return nil, errors.New("sqlite: path cannot be empty")
	}
	if l == nil {
		l = slog.Default()
	}
	l = l.With(slog.String("component", "sqlite_slot_store"), slog.String("path", path))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, store.NewStoreError(backendName, "open", "", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, store.NewStoreError(backendName, "open", "", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, store.NewStoreError(backendName, "open", "", err)
	}

	if err := migrate(ctx, db, l); err != nil {
		_ = db.Close()
		return nil, err
	}

	l.Info("sqlite slot store opened")
	return &SlotStore{db: db, path: path, logger: l}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}

func migrate(ctx context.Context, db *sql.DB, l *slog.Logger) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		l.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.Int64("duration_ms", r.Duration.Milliseconds()))
	}
	return nil
}

// Path returns the database file path.
func (s *SlotStore) Path() string {
	return s.path
}

// Get implements store.SlotStore.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM memory_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSlotNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read slot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return []byte(value), nil
}

// Put implements store.SlotStore as an upsert.
func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	query := `
		INSERT INTO memory_slots (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), now); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to write slot",
			slog.String("key", key),
			slog.Int("bytes", len(value)),
			slog.String("error", err.Error()))
		return store.NewStoreError(backendName, "put", key, err)
	}
	return nil
}

// Delete implements store.SlotStore.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM memory_slots WHERE key = ?`, key); err != nil {
		return store.NewStoreError(backendName, "delete", key, err)
	}
	return nil
}

// Close closes the database.
func (s *SlotStore) Close() error {
	return s.db.Close()
}
