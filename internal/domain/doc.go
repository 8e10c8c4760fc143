// Package domain contains the core business entities, value objects, and
// domain logic of the application: memory entries, their categories and
// lifecycle statuses, and the validation rules an entry must satisfy
// before it can be persisted.
package domain
