package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/oceaninsight/internal/domain"
	"github.com/phrazzld/oceaninsight/internal/memory"
	"github.com/phrazzld/oceaninsight/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
var (
	// ErrEntryNotFound indicates that the memory entry does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrEntryNotFound = errors.New("memory entry not found")
)

// EntryServiceError wraps errors from the entry service with context.
type EntryServiceError struct {
	// Operation is the operation that failed (e.g., "create_entry", "add_tag")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for EntryServiceError.
func (e *EntryServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entry service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("entry service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *EntryServiceError) Unwrap() error {
	return e.Err
}

// NewEntryServiceError creates a new EntryServiceError.
// Not-found errors become ErrEntryNotFound and validation errors are
// returned unchanged; everything else is wrapped.
func NewEntryServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrEntryNotFound) || store.IsNotFoundError(err) {
		return ErrEntryNotFound
	}

	if errors.Is(err, domain.ErrValidation) {
		return err
	}

	return &EntryServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsPersistenceWarning reports whether err only means the change was not
// written through. The operation's result is still valid.
func IsPersistenceWarning(err error) bool {
	return errors.Is(err, memory.ErrPersistence)
}
