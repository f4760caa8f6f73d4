package core

import (
	"slices"

	"github.com/comalice/fsmx/internal/primitives"
)

// Table is the frozen rule set of an engine. It is never mutated after
// construction, so reads take no lock.
type Table[S, E comparable, C any] struct {
	all      []primitives.Transition[S, E, C]
	keys     []primitives.Key[S, E]
	declared map[primitives.Key[S, E]][]primitives.Transition[S, E, C]
	// Per-key candidates in evaluation order: priority descending, stable.
	ranked map[primitives.Key[S, E]][]primitives.Transition[S, E, C]
}

func newTable[S, E comparable, C any](ts []primitives.Transition[S, E, C]) *Table[S, E, C] {
	t := &Table[S, E, C]{
		all:      slices.Clone(ts),
		declared: make(map[primitives.Key[S, E]][]primitives.Transition[S, E, C]),
		ranked:   make(map[primitives.Key[S, E]][]primitives.Transition[S, E, C]),
	}
	for _, tr := range ts {
		k := tr.Key()
		if _, seen := t.declared[k]; !seen {
			t.keys = append(t.keys, k)
		}
		t.declared[k] = append(t.declared[k], tr)
	}
	for k, group := range t.declared {
		t.ranked[k] = primitives.SortByPriority(group)
	}
	return t
}

// Lookup returns the transitions registered for (from, event) in declaration
// order, or nil.
func (t *Table[S, E, C]) Lookup(from S, event E) []primitives.Transition[S, E, C] {
	return slices.Clone(t.declared[primitives.Key[S, E]{From: from, Event: event}])
}

// candidates returns the shared evaluation-ordered slice. Callers must not modify it.
func (t *Table[S, E, C]) candidates(from S, event E) []primitives.Transition[S, E, C] {
	return t.ranked[primitives.Key[S, E]{From: from, Event: event}]
}

// Has reports whether any transition is registered for (from, event).
func (t *Table[S, E, C]) Has(from S, event E) bool {
	return len(t.declared[primitives.Key[S, E]{From: from, Event: event}]) > 0
}

// Len is the number of registered transitions.
func (t *Table[S, E, C]) Len() int { return len(t.all) }

// Keys returns the distinct keys in first-registration order.
func (t *Table[S, E, C]) Keys() []primitives.Key[S, E] { return slices.Clone(t.keys) }

// Transitions returns every registered transition in declaration order.
func (t *Table[S, E, C]) Transitions() []primitives.Transition[S, E, C] {
	return slices.Clone(t.all)
}

// Edges renders one edge per transition, sorted by from label then event
// label. Transitions sharing a key keep declaration order.
func (t *Table[S, E, C]) Edges(label primitives.Labeler) []primitives.Edge {
	if label == nil {
		label = primitives.Label
	}
	edges := make([]primitives.Edge, 0, len(t.all))
	for _, tr := range t.all {
		edges = append(edges, primitives.Edge{
			From:  label(tr.From),
			To:    label(tr.To),
			Event: label(tr.Event),
			Kind:  tr.Kind,
		})
	}
	primitives.SortEdges(edges)
	return edges
}
