package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phrazzld/oceaninsight/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// All is the wildcard accepted by Filter.Category and Filter.Status.
const All = "all"

// Filter selects entries for Query. Empty fields match everything.
type Filter struct {
	Category domain.Category
	Status   domain.EntryStatus
	Search   string
}

// Match reports whether e satisfies every condition of the filter.
func (f Filter) Match(e *domain.MemoryEntry) bool {
	if f.Category != "" && f.Category != All && e.Category != f.Category {
		return false
	}
	if f.Status != "" && f.Status != All && e.Status != f.Status {
		return false
	}
	return e.Matches(f.Search)
}

// SortMethod names an ordering accepted by Sort.
type SortMethod string

// Sort methods
const (
	SortRecency      SortMethod = "recency"
	SortAlphabetical SortMethod = "alphabetical"
)

// ParseSortMethod accepts "recency", "alphabetical" or an empty string,
// which selects recency.
func ParseSortMethod(s string) (SortMethod, error) {
	switch SortMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortRecency:
		return SortRecency, nil
	case SortAlphabetical:
		return SortAlphabetical, nil
	default:
		return "", domain.NewValidationError("sort", fmt.Sprintf("must be %q or %q", SortRecency, SortAlphabetical), domain.ErrValidation)
	}
}

// Sort returns a new slice holding entries in the requested order.
// Recency puts the most recently modified first; alphabetical compares
// titles with English collation. Ties keep their input order, and an
// unknown method leaves the order unchanged.
func Sort(entries []*domain.MemoryEntry, method SortMethod) []*domain.MemoryEntry {
	sorted := make([]*domain.MemoryEntry, len(entries))
	copy(sorted, entries)

	switch method {
	case SortRecency:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LastModified.After(sorted[j].LastModified)
		})
	case SortAlphabetical:
		// Collators keep internal buffers, so each call gets its own.
		c := collate.New(language.English)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	}

	return sorted
}
