package core

import (
	"cmp"
	"maps"
	"slices"
	"time"

	"github.com/comalice/fsmx/internal/primitives"
)

// Timeout returns the dwell limit declared for state.
func (e *Engine[S, E, C]) Timeout(state S) (primitives.TimeoutSpec[S, E], bool) {
	spec, ok := e.timeouts[state]
	return spec, ok
}

// Timeouts returns a copy of every declared dwell limit.
func (e *Engine[S, E, C]) Timeouts() map[S]primitives.TimeoutSpec[S, E] {
	return maps.Clone(e.timeouts)
}

// Expired reports whether dwelling dwell in state has reached its declared
// limit, returning the declared timeout when it has. It never fires anything.
func (e *Engine[S, E, C]) Expired(state S, dwell time.Duration) (primitives.TimeoutSpec[S, E], bool) {
	spec, ok := e.timeouts[state]
	if !ok || !spec.Elapsed(dwell) {
		return primitives.TimeoutSpec[S, E]{}, false
	}
	return spec, true
}

// FireTimeout fires the synthetic event of state's timeout through FireEvent
// when dwell has reached the limit. The bool reports whether a firing happened.
// The engine never measures dwell itself.
func (e *Engine[S, E, C]) FireTimeout(state S, dwell time.Duration, c C) (S, bool, error) {
	spec, ok := e.Expired(state, dwell)
	if !ok {
		return state, false, nil
	}
	to, err := e.FireEvent(state, spec.Event, c)
	return to, true, err
}

func (e *Engine[S, E, C]) timeoutOutlines() []primitives.TimeoutOutline {
	if len(e.timeouts) == 0 {
		return nil
	}
	out := make([]primitives.TimeoutOutline, 0, len(e.timeouts))
	for state, spec := range e.timeouts {
		out = append(out, primitives.TimeoutOutline{
			State:    e.label(state),
			Duration: spec.Duration.String(),
			Target:   e.label(spec.Target),
			Event:    e.label(spec.Event),
		})
	}
	slices.SortFunc(out, func(a, b primitives.TimeoutOutline) int {
		return cmp.Compare(a.State, b.State)
	})
	return out
}
