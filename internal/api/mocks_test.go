package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"github.com/phrazzld/oceaninsight/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockEntryService is a mock implementation of service.EntryService
type MockEntryService struct {
	mock.Mock
}

var _ service.EntryService = (*MockEntryService)(nil)

func (m *MockEntryService) CreateEntry(ctx context.Context, params service.CreateEntryParams) (*domain.MemoryEntry, error) {
	args := m.Called(ctx, params)
	entry, _ := args.Get(0).(*domain.MemoryEntry)
	return entry, args.Error(1)
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, id uuid.UUID, params service.UpdateEntryParams) (*domain.MemoryEntry, error) {
	args := m.Called(ctx, id, params)
	entry, _ := args.Get(0).(*domain.MemoryEntry)
	return entry, args.Error(1)
}

func (m *MockEntryService) GetEntry(ctx context.Context, id uuid.UUID) (*domain.MemoryEntry, error) {
	args := m.Called(ctx, id)
	entry, _ := args.Get(0).(*domain.MemoryEntry)
	return entry, args.Error(1)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryService) ListEntries(ctx context.Context, query service.ListQuery) ([]*domain.MemoryEntry, error) {
	args := m.Called(ctx, query)
	entries, _ := args.Get(0).([]*domain.MemoryEntry)
	return entries, args.Error(1)
}

func (m *MockEntryService) AddTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
	args := m.Called(ctx, id, tag)
	entry, _ := args.Get(0).(*domain.MemoryEntry)
	return entry, args.Error(1)
}

func (m *MockEntryService) RemoveTag(ctx context.Context, id uuid.UUID, tag string) (*domain.MemoryEntry, error) {
	args := m.Called(ctx, id, tag)
	entry, _ := args.Get(0).(*domain.MemoryEntry)
	return entry, args.Error(1)
}

func (m *MockEntryService) Stats(ctx context.Context) (memory.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(memory.Stats)
	return stats, args.Error(1)
}

func (m *MockEntryService) Export(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	blob, _ := args.Get(0).([]byte)
	return blob, args.Error(1)
}

func (m *MockEntryService) Import(ctx context.Context, blob []byte, replace bool) (int, error) {
	args := m.Called(ctx, blob, replace)
	return args.Int(0), args.Error(1)
}
