package memory

import "errors"

var (
	// ErrPersistence wraps a slot store failure. The in-memory collection
	// already reflects the operation that returned it.
	ErrPersistence = errors.New("memory collection not persisted")

	// ErrCorruptData is returned when a persisted blob cannot be decoded
	// into a valid collection.
	ErrCorruptData = errors.New("persisted memory collection is corrupt")

	// ErrNoChange is returned by an Update edit function to leave the
	// entry as it is without writing the collection.
	ErrNoChange = errors.New("memory entry unchanged")
)
