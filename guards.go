package fsmx

// All accepts when every guard accepts. Nil guards accept; All() accepts.
func All[S, E comparable, C any](guards ...Guard[S, E, C]) Guard[S, E, C] {
	return func(from S, event E, c C) bool {
		for _, g := range guards {
			if g != nil && !g(from, event, c) {
				return false
			}
		}
		return true
	}
}

// Any accepts when at least one guard accepts. A nil guard accepts; Any() rejects.
func Any[S, E comparable, C any](guards ...Guard[S, E, C]) Guard[S, E, C] {
	return func(from S, event E, c C) bool {
		for _, g := range guards {
			if g == nil || g(from, event, c) {
				return true
			}
		}
		return false
	}
}

// Not inverts g. Not(nil) rejects.
func Not[S, E comparable, C any](g Guard[S, E, C]) Guard[S, E, C] {
	return func(from S, event E, c C) bool {
		return g != nil && !g(from, event, c)
	}
}
