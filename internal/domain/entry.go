package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the disciplinary area an entry belongs to.
type Category string

// Possible category values
const (
	CategoryBiological        Category = "biological"
	CategoryPhysical          Category = "physical"
	CategoryChemical          Category = "chemical"
	CategoryGeological        Category = "geological"
	CategoryQuantum           Category = "quantum"
	CategoryInterdisciplinary Category = "interdisciplinary"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBiological,
	CategoryPhysical,
	CategoryChemical,
	CategoryGeological,
	CategoryQuantum,
	CategoryInterdisciplinary,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBiological, CategoryPhysical, CategoryChemical,
		CategoryGeological, CategoryQuantum, CategoryInterdisciplinary:
		return true
	default:
		return false
	}
}

// EntryStatus is the lifecycle stage of an idea.
type EntryStatus string

// Possible entry status values
const (
	StatusDraft       EntryStatus = "draft"
	StatusRefined     EntryStatus = "refined"
	StatusImplemented EntryStatus = "implemented"
)

// Statuses lists every status in lifecycle order.
var Statuses = []EntryStatus{StatusDraft, StatusRefined, StatusImplemented}

// IsValid reports whether s is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusRefined, StatusImplemented:
		return true
	default:
		return false
	}
}

// Validation errors for MemoryEntry
var (
	ErrEntryIDEmpty       = NewValidationError("id", "cannot be empty", ErrInvalidID)
	ErrEntryTitleEmpty    = NewValidationError("title", "cannot be empty", ErrEmptyContent)
	ErrEntryContentEmpty  = NewValidationError("content", "cannot be empty", ErrEmptyContent)
	ErrEntryCategoryBad   = NewValidationError("category", "is not a known category", ErrValidation)
	ErrEntryStatusBad     = NewValidationError("status", "is not a known status", ErrValidation)
	ErrEntryTimestampsBad = NewValidationError("lastModified", "is before dateCreated", ErrValidation)
)

// MemoryEntry is a single user-authored note.
//
// Connections is carried verbatim; nothing reads or validates it.
type MemoryEntry struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Tags         []string    `json:"tags"`
	Category     Category    `json:"category"`
	Status       EntryStatus `json:"status"`
	DateCreated  time.Time   `json:"dateCreated"`
	LastModified time.Time   `json:"lastModified"`
	Connections  []string    `json:"connections,omitempty"`
}

// NewMemoryEntry creates an entry with a fresh ID and both timestamps set to now.
// Empty category and status fall back to their defaults.
// Returns an error if validation fails.
func NewMemoryEntry(title, content string, category Category, status EntryStatus) (*MemoryEntry, error) {
	now := time.Now().UTC()
	entry := &MemoryEntry{
		ID:           uuid.New(),
		Title:        title,
		Content:      content,
		Tags:         []string{},
		Category:     category,
		Status:       status,
		DateCreated:  now,
		LastModified: now,
	}
	entry.ApplyDefaults()

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// ApplyDefaults fills in the default category and status when unset.
func (e *MemoryEntry) ApplyDefaults() {
	if e.Category == "" {
		e.Category = CategoryInterdisciplinary
	}
	if e.Status == "" {
		e.Status = StatusDraft
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
}

// Validate checks the fields required for an entry to be persisted.
func (e *MemoryEntry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEntryIDEmpty
	}

	if strings.TrimSpace(e.Title) == "" {
		return ErrEntryTitleEmpty
	}

	if strings.TrimSpace(e.Content) == "" {
		return ErrEntryContentEmpty
	}

	if !e.Category.IsValid() {
		return ErrEntryCategoryBad
	}

	if !e.Status.IsValid() {
		return ErrEntryStatusBad
	}

	if !e.DateCreated.IsZero() && e.LastModified.Before(e.DateCreated) {
		return ErrEntryTimestampsBad
	}

	return nil
}

// AddTag appends tag unless it is blank or already present.
// It reports whether the tag list changed.
func (e *MemoryEntry) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || e.HasTag(tag) {
		return false
	}
	e.Tags = append(e.Tags, tag)
	return true
}

// RemoveTag removes tag if present, keeping the order of the others.
// It reports whether the tag list changed.
func (e *MemoryEntry) RemoveTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for i, t := range e.Tags {
		if t == tag {
			e.Tags = append(e.Tags[:i:i], e.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// HasTag reports whether tag is already on the entry.
func (e *MemoryEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetTags replaces the tag list, dropping blanks and duplicates.
func (e *MemoryEntry) SetTags(tags []string) {
	e.Tags = make([]string, 0, len(tags))
	for _, t := range tags {
		e.AddTag(t)
	}
}

// Touch sets LastModified to now, never earlier than DateCreated.
func (e *MemoryEntry) Touch(now time.Time) {
	now = now.UTC()
	if now.Before(e.DateCreated) {
		now = e.DateCreated
	}
	e.LastModified = now
}

// Clone returns a deep copy of the entry.
func (e *MemoryEntry) Clone() *MemoryEntry {
	c := *e
	c.Tags = append([]string{}, e.Tags...)
	if e.Connections != nil {
		c.Connections = append([]string{}, e.Connections...)
	}
	return &c
}

// Matches reports whether term occurs case-insensitively in the title,
// the content or any tag. An empty term matches everything.
func (e *MemoryEntry) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), term) ||
		strings.Contains(strings.ToLower(e.Content), term) {
		return true
	}
	for _, t := range e.Tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}
