// Package redis provides a store.SlotStore backed by Redis string keys.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
	"github.com/redis/go-redis/v9"
)

const backendName = "redis"

// SlotStore keeps each slot in a Redis string at prefix+key, without expiry.
type SlotStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

var _ store.SlotStore = (*SlotStore)(nil)

// Open parses redisURL, connects and verifies the connection with PING.
func Open(ctx context.Context, redisURL, prefix string, l *slog.Logger) (*SlotStore, error) {
	if redisURL == "" {
		return nil, errors.New("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewSlotStore(client, prefix, l), nil
}

// NewSlotStore wraps an existing client. Close closes the client.
func NewSlotStore(client *redis.Client, prefix string, l *slog.Logger) *SlotStore {
	if l == nil {
		l = slog.Default()
	}
	return &SlotStore{
		client: client,
		prefix: prefix,
		logger: l.With(slog.String("component", "redis_slot_store")),
	}
}

func (s *SlotStore) redisKey(key string) string {
	return s.prefix + key
}

// Get implements store.SlotStore.
func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	value, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrSlotNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to read slot",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(backendName, "get", key, err)
	}
	return value, nil
}

// Put implements store.SlotStore.
func (s *SlotStore) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.redisKey(key), value, 0).Err(); err != nil {
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

	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return store.NewStoreError(backendName, "delete", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *SlotStore) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}
