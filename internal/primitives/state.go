package primitives

import "time"

// Hook runs on entry to or exit from a state. Hooks are unguarded.
type Hook[S comparable, C any] func(state S, c C)

// StateHooks holds the optional entry and exit callbacks of one state.
type StateHooks[S comparable, C any] struct {
	Entry Hook[S, C]
	Exit  Hook[S, C]
}

// FailCallback observes a firing that selected no transition.
type FailCallback[S, E comparable, C any] func(from S, event E, c C)

// TimeoutSpec declares that dwelling Duration in a state should fire Event,
// which is expected to lead to Target. Nothing in the engine measures time;
// callers decide when a timeout has elapsed.
type TimeoutSpec[S, E comparable] struct {
	Duration time.Duration
	Target   S
	Event    E
}

// Elapsed reports whether dwell has reached Duration.
func (t TimeoutSpec[S, E]) Elapsed(dwell time.Duration) bool {
	return dwell >= t.Duration
}
