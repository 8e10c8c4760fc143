package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewMemoryEntry(t *testing.T) {
	t.Parallel()

	entry, err := NewMemoryEntry("Eddy", "Mesoscale eddies transport heat.", "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if entry.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if entry.Category != CategoryInterdisciplinary {
		t.Errorf("Expected category %s, got %s", CategoryInterdisciplinary, entry.Category)
	}

	if entry.Status != StatusDraft {
		t.Errorf("Expected status %s, got %s", StatusDraft, entry.Status)
	}

	if entry.DateCreated.IsZero() || !entry.DateCreated.Equal(entry.LastModified) {
		t.Errorf("Expected equal non-zero timestamps, got %v and %v", entry.DateCreated, entry.LastModified)
	}

	if entry.Tags == nil {
		t.Error("Expected empty, non-nil tags")
	}

	_, err = NewMemoryEntry("", "content", CategoryPhysical, StatusDraft)
	if err != ErrEntryTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrEntryTitleEmpty, err)
	}

	_, err = NewMemoryEntry("title", "   ", CategoryPhysical, StatusDraft)
	if err != ErrEntryContentEmpty {
		t.Errorf("Expected error %v, got %v", ErrEntryContentEmpty, err)
	}
}

func TestMemoryEntryValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	valid := MemoryEntry{
		ID:           uuid.New(),
		Title:        "Upwelling",
		Content:      "Wind-driven upwelling brings nutrients to the surface.",
		Category:     CategoryPhysical,
		Status:       StatusRefined,
		DateCreated:  now,
		LastModified: now,
	}

	tests := []struct {
		name    string
		mutate  func(e *MemoryEntry)
		wantErr error
	}{
		{name: "valid", mutate: func(e *MemoryEntry) {}},
		{name: "nil id", mutate: func(e *MemoryEntry) { e.ID = uuid.Nil }, wantErr: ErrEntryIDEmpty},
		{name: "empty title", mutate: func(e *MemoryEntry) { e.Title = "" }, wantErr: ErrEntryTitleEmpty},
		{name: "empty content", mutate: func(e *MemoryEntry) { e.Content = "" }, wantErr: ErrEntryContentEmpty},
		{name: "unknown category", mutate: func(e *MemoryEntry) { e.Category = "astrological" }, wantErr: ErrEntryCategoryBad},
		{name: "unknown status", mutate: func(e *MemoryEntry) { e.Status = "archived" }, wantErr: ErrEntryStatusBad},
		{
			name:    "modified before created",
			mutate:  func(e *MemoryEntry) { e.LastModified = e.DateCreated.Add(-time.Second) },
			wantErr: ErrEntryTimestampsBad,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			err := e.Validate()
			if err != tc.wantErr {
				t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("Expected %v to be a validation error", err)
			}
		})
	}
}

func TestAddTagDeduplicates(t *testing.T) {
	t.Parallel()

	e := &MemoryEntry{}
	if !e.AddTag("x") {
		t.Error("Expected first AddTag to change tags")
	}
	if e.AddTag("x") {
		t.Error("Expected second AddTag to be a no-op")
	}
	if e.AddTag("  ") {
		t.Error("Expected blank tag to be rejected")
	}
	e.AddTag("y")

	if len(e.Tags) != 2 || e.Tags[0] != "x" || e.Tags[1] != "y" {
		t.Errorf("Expected [x y], got %v", e.Tags)
	}
}

func TestRemoveTag(t *testing.T) {
	t.Parallel()

	e := &MemoryEntry{}
	e.SetTags([]string{"a", "b", "a", "c"})
	if len(e.Tags) != 3 {
		t.Fatalf("Expected 3 tags after SetTags, got %v", e.Tags)
	}

	original := e.Tags
	if !e.RemoveTag("b") {
		t.Error("Expected RemoveTag to report a change")
	}
	if e.RemoveTag("missing") {
		t.Error("Expected RemoveTag of an absent tag to be a no-op")
	}
	if len(e.Tags) != 2 || e.Tags[0] != "a" || e.Tags[1] != "c" {
		t.Errorf("Expected [a c], got %v", e.Tags)
	}
	if original[1] != "b" {
		t.Error("Expected RemoveTag not to alias the previous slice")
	}
}

func TestTouchNeverPrecedesCreation(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	e := &MemoryEntry{DateCreated: created, LastModified: created}

	e.Touch(created.Add(-time.Hour))
	if !e.LastModified.Equal(created) {
		t.Errorf("Expected LastModified clamped to %v, got %v", created, e.LastModified)
	}

	later := created.Add(time.Hour)
	e.Touch(later)
	if !e.LastModified.Equal(later) {
		t.Errorf("Expected LastModified %v, got %v", later, e.LastModified)
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	e := &MemoryEntry{Title: "Thermohaline Circulation", Content: "Density-driven flow", Tags: []string{"AMOC"}}

	for term, want := range map[string]bool{
		"":             true,
		"thermohaline": true,
		"DENSITY":      true,
		"amoc":         true,
		"plankton":     false,
	} {
		if got := e.Matches(term); got != want {
			t.Errorf("Matches(%q) = %v, want %v", term, got, want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	e := &MemoryEntry{Tags: []string{"a"}, Connections: []string{uuid.NewString()}}
	c := e.Clone()
	c.Tags[0] = "b"
	c.Connections[0] = ""

	if e.Tags[0] != "a" || e.Connections[0] == "" {
		t.Error("Expected Clone to copy tags and connections")
	}
}
