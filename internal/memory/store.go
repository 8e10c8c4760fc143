package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
	"github.com/phrazzld/oceaninsight/internal/store"
)

// DefaultKey is the slot the collection is written to unless WithKey is given.
const DefaultKey = "ocean-insight-memories"

// Stats counts the entries of a collection.
type Stats struct {
	Total      int                        `json:"total"`
	ByCategory map[domain.Category]int    `json:"byCategory"`
	ByStatus   map[domain.EntryStatus]int `json:"byStatus"`
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key the collection is persisted under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's base logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store holds the authoritative ordered collection of entries for one slot.
// All methods are safe for concurrent use; mutations are serialized and
// include the write-through to the slot store.
type Store struct {
	slots  store.SlotStore
	key    string
	now    func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	entries []*domain.MemoryEntry
	index   map[uuid.UUID]int
}

// New creates an empty Store backed by slots. It does not read the slot;
// call Load for that.
func New(slots store.SlotStore, opts ...Option) (*Store, error) {
	if slots == nil {
		return nil, errors.New("slot store cannot be nil")
	}

	s := &Store{
		slots:   slots,
		key:     DefaultKey,
		now:     time.Now,
		logger:  slog.Default(),
		entries: []*domain.MemoryEntry{},
		index:   map[uuid.UUID]int{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := store.ValidateKey(s.key); err != nil {
		return nil, fmt.Errorf("slot key %q: %w", s.key, err)
	}
	s.logger = s.logger.With(slog.String("component", "memory_store"), slog.String("slot", s.key))

	return s, nil
}

// Key returns the slot key the collection is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory collection with the persisted one.
// A missing slot yields an empty collection. A corrupt blob or a read
// failure also leaves an empty collection and is returned as an error
// wrapping ErrCorruptData or ErrPersistence respectively.
func (s *Store) Load(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(nil)

	blob, err := s.slots.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrSlotNotFound) {
			log.Debug("no persisted collection, starting empty")
			return nil
		}
		log.Error("failed to read persisted collection", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	entries, err := Decode(blob)
	if err != nil {
		log.Error("discarding corrupt persisted collection",
			slog.String("error", err.Error()),
			slog.Int("bytes", len(blob)))
		return err
	}

	s.replaceLocked(entries)
	log.Info("memory collection loaded", slog.Int("count", len(entries)))
	return nil
}

// Save validates entry and upserts it by ID, then writes the collection
// through. An existing entry is replaced in place, keeping its position
// and DateCreated; a new one is appended. A nil ID is assigned.
//
// Validation failures wrap domain.ErrValidation and leave the collection
// untouched. A write failure returns the saved entry and an error wrapping
// ErrPersistence.
func (s *Store) Save(ctx context.Context, entry *domain.MemoryEntry) (*domain.MemoryEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if entry == nil {
		return nil, domain.NewValidationError("entry", "cannot be nil", domain.ErrValidation)
	}

	candidate := entry.Clone()
	candidate.ApplyDefaults()
	candidate.SetTags(candidate.Tags)
	if candidate.ID == uuid.Nil {
		candidate.ID = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC().Truncate(time.Millisecond)
	idx, exists := s.index[candidate.ID]
	if exists {
		candidate.DateCreated = s.entries[idx].DateCreated
		candidate.Touch(now)
	} else {
		candidate.DateCreated = now
		candidate.LastModified = now
	}

	if err := candidate.Validate(); err != nil {
		log.Warn("memory entry validation failed during save",
			slog.String("error", err.Error()),
			slog.String("entry_id", candidate.ID.String()))
		return nil, err
	}

	if exists {
		s.entries[idx] = candidate
	} else {
		s.index[candidate.ID] = len(s.entries)
		s.entries = append(s.entries, candidate)
	}

	log.Info("memory entry saved",
		slog.String("entry_id", candidate.ID.String()),
		slog.Bool("created", !exists),
		slog.String("category", string(candidate.Category)),
		slog.String("status", string(candidate.Status)))

	return candidate.Clone(), s.persistLocked(ctx, log)
}

// Update applies edit to a copy of the entry with id and stores the result,
// all under the store lock, so concurrent edits of one entry never overwrite
// each other and an entry deleted meanwhile is not recreated.
//
// The ID and DateCreated of the entry cannot be changed. LastModified is set
// to now. An absent id returns store.ErrEntryNotFound. If edit returns
// ErrNoChange the current entry is returned and nothing is written; any other
// error from edit, or a validation failure, is returned with the collection
// untouched. A write failure returns the updated entry and an error wrapping
// ErrPersistence.
func (s *Store) Update(ctx context.Context, id uuid.UUID, edit func(*domain.MemoryEntry) error) (*domain.MemoryEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[id]
	if !ok {
		return nil, store.ErrEntryNotFound
	}
	current := s.entries[idx]

	candidate := current.Clone()
	if err := edit(candidate); err != nil {
		if errors.Is(err, ErrNoChange) {
			return current.Clone(), nil
		}
		return nil, err
	}
	candidate.ID = current.ID
	candidate.DateCreated = current.DateCreated
	candidate.ApplyDefaults()
	candidate.SetTags(candidate.Tags)
	candidate.Touch(s.now().UTC().Truncate(time.Millisecond))

	if err := candidate.Validate(); err != nil {
		log.Warn("memory entry validation failed during update",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return nil, err
	}

	s.entries[idx] = candidate
	log.Info("memory entry updated",
		slog.String("entry_id", id.String()),
		slog.String("category", string(candidate.Category)),
		slog.String("status", string(candidate.Status)))

	return candidate.Clone(), s.persistLocked(ctx, log)
}

// Delete removes the entry with id and writes the collection through.
// It reports whether the entry existed; an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.index[id]
	if !ok {
		log.Debug("memory entry not found for delete", slog.String("entry_id", id.String()))
		return false, nil
	}

	remaining := make([]*domain.MemoryEntry, 0, len(s.entries)-1)
	remaining = append(remaining, s.entries[:idx]...)
	remaining = append(remaining, s.entries[idx+1:]...)
	s.replaceLocked(remaining)

	log.Info("memory entry deleted", slog.String("entry_id", id.String()))
	return true, s.persistLocked(ctx, log)
}

// Get returns a copy of the entry with id, or store.ErrEntryNotFound.
func (s *Store) Get(id uuid.UUID) (*domain.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.index[id]
	if !ok {
		return nil, store.ErrEntryNotFound
	}
	return s.entries[idx].Clone(), nil
}

// List returns copies of every entry in collection order.
func (s *Store) List() []*domain.MemoryEntry {
	return s.Query(Filter{})
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Query returns copies of the entries matching f, in collection order.
func (s *Store) Query(f Filter) []*domain.MemoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.MemoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.Match(e) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// Stats counts entries per category and status. Every known category and
// status is present, with zero where nothing matches.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:      len(s.entries),
		ByCategory: make(map[domain.Category]int, len(domain.Categories)),
		ByStatus:   make(map[domain.EntryStatus]int, len(domain.Statuses)),
	}
	for _, c := range domain.Categories {
		st.ByCategory[c] = 0
	}
	for _, status := range domain.Statuses {
		st.ByStatus[status] = 0
	}
	for _, e := range s.entries {
		st.ByCategory[e.Category]++
		st.ByStatus[e.Status]++
	}
	return st
}

// Export returns the collection encoded exactly as it is persisted.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.entries)
}

// Import decodes blob and merges it into the collection, then writes the
// collection through. With replace the blob becomes the whole collection;
// otherwise its entries are upserted by ID, keeping their timestamps.
// A blob that does not decode leaves the collection untouched.
// It returns the number of imported entries.
func (s *Store) Import(ctx context.Context, blob []byte, replace bool) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	imported, err := Decode(blob)
	if err != nil {
		log.Warn("rejecting import of corrupt collection", slog.String("error", err.Error()))
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.replaceLocked(imported)
	} else {
		for _, e := range imported {
			if idx, ok := s.index[e.ID]; ok {
				s.entries[idx] = e
				continue
			}
			s.index[e.ID] = len(s.entries)
			s.entries = append(s.entries, e)
		}
	}

	log.Info("memory collection imported",
		slog.Int("imported", len(imported)),
		slog.Bool("replace", replace),
		slog.Int("count", len(s.entries)))

	return len(imported), s.persistLocked(ctx, log)
}

// persistLocked writes the whole collection to the slot. s.mu must be held.
func (s *Store) persistLocked(ctx context.Context, log *slog.Logger) error {
	blob, err := Encode(s.entries)
	if err != nil {
		log.Error("failed to encode memory collection", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err := s.slots.Put(ctx, s.key, blob); err != nil {
		log.Error("failed to persist memory collection",
			slog.String("error", err.Error()),
			slog.Int("count", len(s.entries)))
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Debug("memory collection persisted",
		slog.Int("count", len(s.entries)),
		slog.Int("bytes", len(blob)))
	return nil
}

// replaceLocked swaps in entries and rebuilds the index. s.mu must be held.
func (s *Store) replaceLocked(entries []*domain.MemoryEntry) {
	if entries == nil {
		entries = []*domain.MemoryEntry{}
	}
	s.entries = entries
	s.index = make(map[uuid.UUID]int, len(entries))
	for i, e := range entries {
		s.index[e.ID] = i
	}
}
