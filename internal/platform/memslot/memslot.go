// Package memslot provides an in-process store.SlotStore. Values live only
// as long as the process and are copied on the way in and out.
package memslot

import (
	"context"
	"sync"

	"github.com/phrazzld/oceaninsight/internal/store"
)

// SlotStore keeps slots in a map.
type SlotStore struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	closed bool
}

// New returns an empty in-process slot store.
func New() *SlotStore {
	return &SlotStore{slots: map[string][]byte{}}
}

var _ store.SlotStore = (*SlotStore)(nil)

// Get implements store.SlotStore.
func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	v, ok := s.slots[key]
	if !ok {
		return nil, store.ErrSlotNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements store.SlotStore.
func (s *SlotStore) Put(_ context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	s.slots[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements store.SlotStore.
func (s *SlotStore) Delete(_ context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrClosed
	}
	delete(s.slots, key)
	return nil
}

// Close implements store.SlotStore. Later calls fail with store.ErrClosed.
func (s *SlotStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
