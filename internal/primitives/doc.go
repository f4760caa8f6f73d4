// Package primitives provides the foundational, zero-dependency data structures
// for the transition engine.
//
// This package uses ONLY the Go standard library. Everything here is a plain
// value type or a func type; no type in this package holds a lock.
//
// Core invariants:
//   - Transitions, hooks and timeout specs are never mutated after a table is frozen
//   - A Key is (from, event); many transitions may share one
//   - Metrics snapshots are deep copies
//
//go:generate go test ./... -race
package primitives
