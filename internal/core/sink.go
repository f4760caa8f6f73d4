package core

import (
	"slices"
	"sync"
	"time"

	"github.com/comalice/fsmx/internal/primitives"
)

// sink holds the only mutable state of an engine: the history log and the
// metrics aggregate. One lock covers both so each firing lands atomically.
type sink[S, E comparable] struct {
	mu          sync.Mutex
	keepHistory bool
	keepMetrics bool
	history     []primitives.TransitionRecord[S, E]
	metrics     primitives.Metrics
}

func newSink[S, E comparable](history, metrics bool) *sink[S, E] {
	return &sink[S, E]{
		keepHistory: history,
		keepMetrics: metrics,
		metrics:     primitives.NewMetrics(),
	}
}

// record applies one firing. destination is the display label of rec.To and
// only counts when rec.Success.
func (s *sink[S, E]) record(rec primitives.TransitionRecord[S, E], elapsed time.Duration, destination string) {
	if !s.keepHistory && !s.keepMetrics {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keepHistory {
		s.history = append(s.history, rec)
	}
	if s.keepMetrics {
		s.metrics.Observe(rec.Success, elapsed, destination)
	}
}

func (s *sink[S, E]) History() []primitives.TransitionRecord[S, E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

func (s *sink[S, E]) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *sink[S, E]) Metrics() primitives.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics.Clone()
}

func (s *sink[S, E]) ResetMetrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = primitives.NewMetrics()
}
