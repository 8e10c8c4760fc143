// Package memory implements the memory store: the ordered, in-memory
// collection of memory entries for one slot, kept in sync with a
// store.SlotStore by rewriting the whole collection after every mutation.
//
// Failures to persist are non-fatal. The in-memory collection stays
// authoritative and the caller receives an error wrapping ErrPersistence
// alongside the result of the operation.
package memory
