// Package fileslot stores each slot as a JSON file in a directory.
package fileslot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
)

const backendName = "file"

// SlotStore keeps one file per slot, named <key>.json.
// Writes go to a temporary file that is renamed over the target, so a
// reader never sees a half-written blob.
type SlotStore struct {
	dir    string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ store.SlotStore = (*SlotStore)(nil)

// New creates the directory if needed and returns a store rooted at dir.
func New(dir string, l *slog.Logger) (*SlotStore, error) {
	if dir == "" {
		return nil, errors.New("fileslot: directory cannot be empty")
	}
	if l == nil {
		l = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, store.NewStoreError(backendName, "open", "", err)
	}

	return &SlotStore{
		dir:    dir,
		logger: l.With(slog.String("component", "file_slot_store")),
	}, nil
}

// Dir returns the directory slots are stored in.
func (s *SlotStore) Dir() string {
	return s.dir
}

func (s *SlotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the slot file.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrSlotNotFound
		}
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return data, nil
}

// Put replaces the slot file atomically.
func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return store.NewStoreError(backendName, "put", key, err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		if rmErr := os.Remove(tmpName); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			logger.FromContextOrDefault(ctx, s.logger).Warn("failed to remove temporary slot file",
				slog.String("path", tmpName),
				slog.String("error", rmErr.Error()))
		}
		return store.NewStoreError(backendName, "put", key, cause)
	}

	if _, err := tmp.Write(value); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return cleanup(err)
	}
	return nil
}

// Delete removes the slot file. A missing file is not an error.
func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return store.NewStoreError(backendName, "delete", key, err)
	}
	return nil
}

// Close marks the store closed. Files are left in place.
func (s *SlotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *SlotStore) check(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return store.ErrClosed
	}
	if err := store.ValidateKey(key); err != nil {
		return fmt.Errorf("%w: %q", err, key)
	}
	return nil
}
