package api

import (
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/memory"
)

// CreateEntryRequest is the body of POST /api/entries.
type CreateEntryRequest struct {
	Title    string   `json:"title"              validate:"required,max=500"`
	Content  string   `json:"content"            validate:"required"`
	Tags     []string `json:"tags,omitempty"     validate:"omitempty,max=100,dive,max=100"`
	Category string   `json:"category,omitempty" validate:"omitempty,oneof=biological physical chemical geological quantum interdisciplinary"`
	Status   string   `json:"status,omitempty"   validate:"omitempty,oneof=draft refined implemented"`
}

// UpdateEntryRequest is the body of PUT /api/entries/{id}.
// Omitted fields keep their current value.
type UpdateEntryRequest struct {
	Title    *string   `json:"title,omitempty"    validate:"omitempty,max=500"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty"     validate:"omitempty,max=100,dive,max=100"`
	Category *string   `json:"category,omitempty" validate:"omitempty,oneof=biological physical chemical geological quantum interdisciplinary"`
	Status   *string   `json:"status,omitempty"   validate:"omitempty,oneof=draft refined implemented"`
}

// AddTagRequest is the body of POST /api/entries/{id}/tags.
type AddTagRequest struct {
	Tag string `json:"tag" validate:"required,max=100"`
}

// EntryResponse is the wire form of a memory entry.
type EntryResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Tags         []string `json:"tags"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
	DateCreated  string   `json:"dateCreated"`
	LastModified string   `json:"lastModified"`
	Connections  []string `json:"connections,omitempty"`
}

// EntryListResponse is the body of GET /api/entries.
type EntryListResponse struct {
	Entries []EntryResponse `json:"entries"`
	Count   int             `json:"count"`
}

// ImportResponse is the body of POST /api/entries/import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

func entryToResponse(e *domain.MemoryEntry) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return EntryResponse{
		ID:           e.ID.String(),
		Title:        e.Title,
		Content:      e.Content,
		Tags:         tags,
		Category:     string(e.Category),
		Status:       string(e.Status),
		DateCreated:  memory.FormatTime(e.DateCreated),
		LastModified: memory.FormatTime(e.LastModified),
		Connections:  e.Connections,
	}
}

func entriesToResponse(entries []*domain.MemoryEntry) EntryListResponse {
	out := EntryListResponse{Entries: make([]EntryResponse, 0, len(entries)), Count: len(entries)}
	for _, e := range entries {
		out.Entries = append(out.Entries, entryToResponse(e))
	}
	return out
}

// StatsResponse is the body of GET /api/entries/stats.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	ByStatus   map[string]int `json:"byStatus"`
}

func statsToResponse(st memory.Stats) StatsResponse {
	resp := StatsResponse{
		Total:      st.Total,
		ByCategory: make(map[string]int, len(st.ByCategory)),
		ByStatus:   make(map[string]int, len(st.ByStatus)),
	}
	for c, n := range st.ByCategory {
		resp.ByCategory[string(c)] = n
	}
	for s, n := range st.ByStatus {
		resp.ByStatus[string(s)] = n
	}
	return resp
}
