package store

import (
	"context"
	"regexp"
)

// SlotStore is a key-value store holding one opaque blob per named slot.
// The memory store keeps its whole collection in a single slot and
// rewrites it on every mutation.
type SlotStore interface {
	// Get returns the value stored under key.
	// Returns ErrSlotNotFound if nothing has been written there.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

var slotKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// ValidateKey rejects keys that are empty, too long, or contain characters
// outside [A-Za-z0-9._-]. Every backend applies the same rule so a key
// written to one backend can be moved to another.
func ValidateKey(key string) error {
	if !slotKeyPattern.MatchString(key) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
