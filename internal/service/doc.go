// Package service contains the application use cases for memory entries.
// It sits between the transports (HTTP API and CLI) and the memory store,
// turning requests into domain operations and store errors into service
// errors the transports can map to responses.
//
// Persistence failures are not fatal: an operation that changed the
// in-memory collection but could not write it through returns its result
// together with an *EntryServiceError wrapping memory.ErrPersistence.
// Callers check for that case with IsPersistenceWarning.
package service
