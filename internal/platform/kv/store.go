// Package kv provides the local persistence layer for dashboard state.
// Each named collection is stored as a single JSON snapshot and replaced
// in full on every save, so a load always observes a complete write.
package kv

import "errors"

// Collection names used by the dashboard stores.
const (
	CollectionCases        = "active_cases"
	CollectionTasks        = "pending_tasks"
	CollectionAppointments = "upcoming_appointments"
)

// ErrNotFound is returned by Load when the collection has never been saved.
// Corrupted snapshots are reported the same way so callers fall back to
// freshly derived or sample data instead of failing.
var ErrNotFound = errors.New("kv: collection not found")

// Store defines typed load/save operations over named collections. The
// storage medium (embedded file store, in-memory) is swappable without
// touching the merge logic built on top.
type Store interface {
	// Load unmarshals the named collection into v.
	Load(collection string, v any) error
	// Save marshals v and replaces the named collection entirely.
	Save(collection string, v any) error
	// Delete removes the named collection.
	Delete(collection string) error
	Close() error
}
