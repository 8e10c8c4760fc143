package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/oceaninsight/internal/domain"
)

// TimeLayout is the timestamp form of the persisted collection. It matches
// the browser's Date.prototype.toISOString output.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// record is the persisted shape of one entry. Timestamps travel as
// ISO-8601 strings and are revived on decode.
type record struct {
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

// Encode serializes entries, in order, into the persisted JSON array.
func Encode(entries []*domain.MemoryEntry) ([]byte, error) {
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		records = append(records, record{
			ID:           e.ID.String(),
			Title:        e.Title,
			Content:      e.Content,
			Tags:         tags,
			Category:     string(e.Category),
			Status:       string(e.Status),
			DateCreated:  FormatTime(e.DateCreated),
			LastModified: FormatTime(e.LastModified),
			Connections:  e.Connections,
		})
	}
	return json.Marshal(records)
}

// Decode parses a persisted JSON array into entries.
// An empty or null blob is an empty collection. Any malformed element,
// invalid entry or repeated id fails the whole blob with ErrCorruptData.
func Decode(blob []byte) ([]*domain.MemoryEntry, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return []*domain.MemoryEntry{}, nil
	}

	var records []record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	entries := make([]*domain.MemoryEntry, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for i, r := range records {
		e, err := r.toEntry()
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrCorruptData, i, err)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: element %d: duplicate id %s", ErrCorruptData, i, e.ID)
		}
		seen[e.ID] = struct{}{}
		entries = append(entries, e)
	}

	return entries, nil
}

func (r record) toEntry() (*domain.MemoryEntry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("id: %w", err)
	}
	created, err := parseTime(r.DateCreated)
	if err != nil {
		return nil, fmt.Errorf("dateCreated: %w", err)
	}
	modified, err := parseTime(r.LastModified)
	if err != nil {
		return nil, fmt.Errorf("lastModified: %w", err)
	}

	e := &domain.MemoryEntry{
		ID:           id,
		Title:        r.Title,
		Content:      r.Content,
		Category:     domain.Category(r.Category),
		Status:       domain.EntryStatus(r.Status),
		DateCreated:  created,
		LastModified: modified,
		Connections:  r.Connections,
	}
	e.SetTags(r.Tags)
	e.ApplyDefaults()

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
