// Package primitives defines the foundational data structures for the transition engine.
// Transition defines a rule between two states with an optional guard, action and priority.
// Higher Priority values are evaluated first during selection; equal priorities keep
// declaration order.
package primitives

import (
	"errors"
	"fmt"
	"sort"
)

// Kind discriminates external transitions from internal (self-loop) ones.
type Kind int

const (
	// External is an ordinary transition; the destination may differ from the source.
	External Kind = iota
	// Internal is a self-loop: From == To.
	Internal
)

func (k Kind) String() string {
	switch k {
	case External:
		return "external"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind name in JSON and YAML exports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "external":
		*k = External
	case "internal":
		*k = Internal
	default:
		return fmt.Errorf("unknown transition kind %q", text)
	}
	return nil
}

// Guard gates whether a candidate transition may be selected. A nil Guard always accepts.
type Guard[S, E comparable, C any] func(from S, event E, c C) bool

// Action is the side effect run when a transition is selected.
type Action[S, E comparable, C any] func(from S, event E, c C)

// Key identifies the candidate set for a firing.
type Key[S, E comparable] struct {
	From  S
	Event E
}

// Transition is one registered rule.
type Transition[S, E comparable, C any] struct {
	From     S
	To       S
	Event    E
	Guard    Guard[S, E, C]
	Action   Action[S, E, C]
	Kind     Kind
	Priority int
}

// Key returns the lookup key of t.
func (t Transition[S, E, C]) Key() Key[S, E] {
	return Key[S, E]{From: t.From, Event: t.Event}
}

// Accepts evaluates the guard. Unguarded transitions always accept.
func (t Transition[S, E, C]) Accepts(from S, event E, c C) bool {
	if t.Guard == nil {
		return true
	}
	return t.Guard(from, event, c)
}

var errInternalSelfLoop = errors.New("internal transition must have from == to")

// Validate checks the kind tag against the endpoints.
func (t Transition[S, E, C]) Validate() error {
	switch t.Kind {
	case External:
		return nil
	case Internal:
		if t.From != t.To {
			return fmt.Errorf("%w (from %v, to %v)", errInternalSelfLoop, t.From, t.To)
		}
		return nil
	default:
		return fmt.Errorf("unknown transition kind %d", int(t.Kind))
	}
}

// SortByPriority returns a copy of transitions ordered by Priority descending.
// The sort is stable, so equal priorities keep declaration order.
func SortByPriority[S, E comparable, C any](transitions []Transition[S, E, C]) []Transition[S, E, C] {
	sorted := make([]Transition[S, E, C], len(transitions))
	copy(sorted, transitions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return sorted
}
