package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"github.com/phrazzld/oceaninsight/internal/platform/logger"
)

// EntryRepository is the collection the service operates on.
// *memory.Store implements it.
type EntryRepository interface {
	Save(ctx context.Context, entry *domain.MemoryEntry) (*domain.MemoryEntry, error)
	Update(ctx context.Context, id uuid.UUID, edit func(*domain.MemoryEntry) error) (*domain.MemoryEntry, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Get(id uuid.UUID) (*domain.MemoryEntry, error)
	Query(f memory.Filter) []*domain.MemoryEntry
	Stats() memory.Stats
	Export() ([]byte, error)
	Import(ctx context.Context, blob []byte, replace bool) (int, error)
}

var _ EntryRepository = (*memory.Store)(nil)

// CreateEntryParams holds the fields of a new entry. Empty category and
// status fall back to their defaults.
type CreateEntryParams struct {
	Title    string
	Content  string
	Tags     []string
	Category domain.Category
	Status   domain.EntryStatus
}

// UpdateEntryParams holds an edit. Nil fields are left unchanged.
type UpdateEntryParams struct {
	Title    *string
	Content  *string
	Tags     *[]string
	Category *domain.Category
	Status   *domain.EntryStatus
}

// ListQuery selects and orders entries. Empty fields and "all" match
// everything; an empty Sort orders by recency.
type ListQuery struct {
	Category string
	Status   string
	Search   string
	Sort     string
}

// EntryService provides memory-entry operations
type EntryService interface {
	// CreateEntry validates and stores a new entry
	CreateEntry(ctx context.Context, params CreateEntryParams) (*domain.MemoryEntry, error)

	// UpdateEntry applies an edit to an existing entry
	UpdateEntry(ctx context.Context, id uuid.UUID, params UpdateEntryParams) (*domain.MemoryEntry, error)

	// GetEntry retrieves an entry by its ID
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.MemoryEntry, error)

	// DeleteEntry removes an entry
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// ListEntries filters and sorts the collection
	ListEntries(ctx context.Context, query ListQuery) ([]*domain.MemoryEntry, error)

	// AddTag adds a tag to an entry; an existing tag is a no-op
	AddTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error)

	// RemoveTag removes a tag from an entry; an absent tag is a no-op
	RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error)

	// Stats counts entries per category and status
	Stats(ctx context.Context) (memory.Stats, error)

	// Export returns the persisted representation of the collection
	Export(ctx context.Context) ([]byte, error)

	// Import loads a previously exported collection
	Import(ctx context.Context, blob []byte, replace bool) (int, error)
}

// entryServiceImpl implements the EntryService interface
type entryServiceImpl struct {
	repo   EntryRepository
	logger *slog.Logger
}

// NewEntryService creates a new EntryService.
// It returns an error if repo is nil.
func NewEntryService(repo EntryRepository, logger *slog.Logger) (EntryService, error) {
	if repo == nil {
		return nil, &EntryServiceError{
			Operation: "create_service",
			Message:   "repo cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &entryServiceImpl{
		repo:   repo,
		logger: logger.With(slog.String("component", "entry_service")),
	}, nil
}

// CreateEntry implements EntryService.
func (s *entryServiceImpl) CreateEntry(ctx context.Context, params CreateEntryParams) (*domain.MemoryEntry, error) {
	entry := &domain.MemoryEntry{
		Title:    params.Title,
		Content:  params.Content,
		Category: params.Category,
		Status:   params.Status,
	}
	entry.SetTags(params.Tags)

	return s.save(ctx, "create_entry", entry)
}

// UpdateEntry implements EntryService.
func (s *entryServiceImpl) UpdateEntry(
	ctx context.Context,
	id uuid.UUID,
	params UpdateEntryParams,
) (*domain.MemoryEntry, error) {
	entry, err := s.repo.Update(ctx, id, func(e *domain.MemoryEntry) error {
		if params.Title != nil {
			e.Title = *params.Title
		}
		if params.Content != nil {
			e.Content = *params.Content
		}
		if params.Tags != nil {
			e.SetTags(*params.Tags)
		}
		if params.Category != nil {
			e.Category = *params.Category
		}
		if params.Status != nil {
			e.Status = *params.Status
		}
		return nil
	})
	return s.result(ctx, "update_entry", entry, err)
}

// GetEntry implements EntryService.
func (s *entryServiceImpl) GetEntry(ctx context.Context, id uuid.UUID) (*domain.MemoryEntry, error) {
	entry, err := s.repo.Get(id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("entry not found",
			slog.String("entry_id", id.String()))
		return nil, NewEntryServiceError("get_entry", "failed to retrieve entry", err)
	}
	return entry, nil
}

// DeleteEntry implements EntryService.
func (s *entryServiceImpl) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existed, err := s.repo.Delete(ctx, id)
	if !existed && err == nil {
		return ErrEntryNotFound
	}
	if err != nil {
		log.Warn("entry deleted but not persisted",
			slog.String("entry_id", id.String()),
			slog.String("error", err.Error()))
		return NewEntryServiceError("delete_entry", "entry deleted but not persisted", err)
	}
	return nil
}

// ListEntries implements EntryService.
func (s *entryServiceImpl) ListEntries(ctx context.Context, query ListQuery) ([]*domain.MemoryEntry, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	method, err := memory.ParseSortMethod(query.Sort)
	if err != nil {
		return nil, err
	}

	entries := memory.Sort(s.repo.Query(filter), method)
	logger.FromContextOrDefault(ctx, s.logger).Debug("listed entries",
		slog.Int("count", len(entries)),
		slog.String("sort", string(method)))
	return entries, nil
}

// AddTag implements EntryService.
func (s *entryServiceImpl) AddTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, domain.NewValidationError("tag", "cannot be empty", domain.ErrEmptyContent)
	}

	entry, err := s.repo.Update(ctx, id, func(e *domain.MemoryEntry) error {
		if !e.AddTag(tag) {
			return memory.ErrNoChange
		}
		return nil
	})
	return s.result(ctx, "add_tag", entry, err)
}

// RemoveTag implements EntryService.
func (s *entryServiceImpl) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
	entry, err := s.repo.Update(ctx, id, func(e *domain.MemoryEntry) error {
		if !e.RemoveTag(tag) {
			return memory.ErrNoChange
		}
		return nil
	})
	return s.result(ctx, "remove_tag", entry, err)
}

// Stats implements EntryService.
func (s *entryServiceImpl) Stats(_ context.Context) (memory.Stats, error) {
	return s.repo.Stats(), nil
}

// Export implements EntryService.
func (s *entryServiceImpl) Export(_ context.Context) ([]byte, error) {
	blob, err := s.repo.Export()
	if err != nil {
		return nil, NewEntryServiceError("export", "failed to encode collection", err)
	}
	return blob, nil
}

// Import implements EntryService.
func (s *entryServiceImpl) Import(ctx context.Context, blob []byte, replace bool) (int, error) {
	n, err := s.repo.Import(ctx, blob, replace)
	if err != nil {
		if errors.Is(err, memory.ErrCorruptData) {
			return 0, domain.NewValidationError("collection", "is not a valid export", err)
		}
		return n, NewEntryServiceError("import", "collection imported but not persisted", err)
	}
	return n, nil
}

// save stores entry. A persistence failure still returns the saved entry.
func (s *entryServiceImpl) save(ctx context.Context, op string, entry *domain.MemoryEntry) (*domain.MemoryEntry, error) {
	saved, err := s.repo.Save(ctx, entry)
	return s.result(ctx, op, saved, err)
}

// result maps the outcome of a store mutation. A nil entry means the
// mutation was rejected; otherwise err can only be a persistence warning.
func (s *entryServiceImpl) result(ctx context.Context, op string, entry *domain.MemoryEntry, err error) (*domain.MemoryEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err != nil && entry == nil {
		log.Debug("entry rejected", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, NewEntryServiceError(op, "failed to save entry", err)
	}
	if err != nil {
		log.Warn("entry saved but not persisted",
			slog.String("operation", op),
			slog.String("entry_id", entry.ID.String()),
			slog.String("error", err.Error()))
		return entry, NewEntryServiceError(op, "entry saved but not persisted", err)
	}
	return entry, nil
}

func buildFilter(q ListQuery) (memory.Filter, error) {
	f := memory.Filter{Search: q.Search}

	category := strings.ToLower(strings.TrimSpace(q.Category))
	if category != "" && category != memory.All && !domain.Category(category).IsValid() {
		return f, domain.NewValidationError("category", "is not a known category", domain.ErrValidation)
	}
	f.Category = domain.Category(category)

	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status != "" && status != memory.All && !domain.EntryStatus(status).IsValid() {
		return f, domain.NewValidationError("status", "is not a known status", domain.ErrValidation)
	}
	f.Status = domain.EntryStatus(status)

	return f, nil
}
