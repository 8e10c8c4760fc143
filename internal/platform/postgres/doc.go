// Package postgres provides a PostgreSQL implementation of store.SlotStore.
// Slots live in the memory_slots table in a json column, which checks the
// value is valid JSON but keeps its text exactly as written. The schema is
// managed by goose migrations embedded in this package.
package postgres
