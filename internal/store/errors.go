package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors
	// (e.g., ErrSlotNotFound, ErrEntryNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidKey is returned when a slot key cannot be used by a backend.
	ErrInvalidKey = errors.New("invalid slot key")

	// ErrClosed is returned when a slot store is used after Close.
	ErrClosed = errors.New("slot store closed")

	// ErrSlotNotFound indicates that no value has been written under the key.
	ErrSlotNotFound = fmt.Errorf("%w: slot", ErrNotFound)

	// ErrEntryNotFound indicates that the requested memory entry does not exist.
	ErrEntryNotFound = fmt.Errorf("%w: memory entry", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Backend   string // The backend (e.g., "postgres", "redis")
	Operation string // The operation that failed (e.g., "get", "put")
	Key       string // The slot key involved
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s on slot %q failed: %v", e.Backend, e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Backend, e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError for the given backend, operation and key.
func NewStoreError(backend, operation, key string, err error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}
