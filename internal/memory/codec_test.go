package memory

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWritesISOTimestamps(t *testing.T) {
	created := time.Date(2026, time.May, 4, 10, 30, 0, 123_000_000, time.UTC)
	e := &domain.MemoryEntry{
		ID:           uuid.MustParse("6f1c2d9e-3a7b-4c1d-9e2f-0a1b2c3d4e5f"),
		Title:        "Upwelling",
		Content:      "Ekman transport",
		Category:     domain.CategoryPhysical,
		Status:       domain.StatusDraft,
		DateCreated:  created,
		LastModified: created.Add(90 * time.Second),
	}

	blob, err := Encode([]*domain.MemoryEntry{e})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(blob, &raw))
	require.Len(t, raw, 1)

	assert.Equal(t, "2026-05-04T10:30:00.123Z", raw[0]["dateCreated"])
	assert.Equal(t, "2026-05-04T10:31:30.123Z", raw[0]["lastModified"])
	assert.Equal(t, []any{}, raw[0]["tags"], "nil tags encode as an empty array")
	assert.NotContains(t, raw[0], "connections")
}

func TestEncodeEmptyCollection(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(blob))
}

func TestDecode(t *testing.T) {
	const id = "6f1c2d9e-3a7b-4c1d-9e2f-0a1b2c3d4e5f"
	element := func(fields string) string {
		base := `"id":"` + id + `","title":"T","content":"C","dateCreated":"2026-01-01T00:00:00.000Z","lastModified":"2026-01-02T00:00:00.000Z"`
		if fields != "" {
			base += "," + fields
		}
		return "{" + base + "}"
	}

	tests := []struct {
		name      string
		blob      string
		wantLen   int
		wantErr   bool
		checkFunc func(t *testing.T, entries []*domain.MemoryEntry)
	}{
		{name: "empty blob", blob: "", wantLen: 0},
		{name: "null blob", blob: " null ", wantLen: 0},
		{name: "empty array", blob: "[]", wantLen: 0},
		{
			name:    "defaults applied",
			blob:    "[" + element("") + "]",
			wantLen: 1,
			checkFunc: func(t *testing.T, entries []*domain.MemoryEntry) {
				assert.Equal(t, domain.CategoryInterdisciplinary, entries[0].Category)
				assert.Equal(t, domain.StatusDraft, entries[0].Status)
				assert.NotNil(t, entries[0].Tags)
			},
		},
		{
			name:    "duplicate tags collapsed",
			blob:    "[" + element(`"tags":["a","a","b"]`) + "]",
			wantLen: 1,
			checkFunc: func(t *testing.T, entries []*domain.MemoryEntry) {
				assert.Equal(t, []string{"a", "b"}, entries[0].Tags)
			},
		},
		{
			name:    "rfc3339 without millis accepted",
			blob:    strings.Replace("["+element("")+"]", "2026-01-01T00:00:00.000Z", "2026-01-01T00:00:00Z", 1),
			wantLen: 1,
		},
		{
			name:    "connections kept",
			blob:    "[" + element(`"connections":["x","y"]`) + "]",
			wantLen: 1,
			checkFunc: func(t *testing.T, entries []*domain.MemoryEntry) {
				assert.Equal(t, []string{"x", "y"}, entries[0].Connections)
			},
		},
		{name: "not json", blob: "{{", wantErr: true},
		{name: "object instead of array", blob: `{"id":"x"}`, wantErr: true},
		{name: "bad id", blob: `[{"id":"nope","title":"T","content":"C"}]`, wantErr: true},
		{name: "bad timestamp", blob: "[" + strings.Replace(element(""), "2026-01-02T00:00:00.000Z", "yesterday", 1) + "]", wantErr: true},
		{name: "empty title", blob: "[" + strings.Replace(element(""), `"title":"T"`, `"title":""`, 1) + "]", wantErr: true},
		{name: "unknown category", blob: "[" + element(`"category":"astrology"`) + "]", wantErr: true},
		{name: "duplicate id", blob: "[" + element("") + "," + element("") + "]", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := Decode([]byte(tc.blob))
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrCorruptData)
				assert.Nil(t, entries)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tc.wantLen)
			if tc.checkFunc != nil {
				tc.checkFunc(t, entries)
			}
		})
	}
}
