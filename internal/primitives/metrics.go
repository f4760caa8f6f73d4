package primitives

import (
	"maps"
	"slices"
	"time"
)

// Metrics aggregates firing outcomes for one machine.
// Visits is keyed by the destination state's display label and only counts successes.
type Metrics struct {
	Total     uint64            `json:"total" yaml:"total"`
	Succeeded uint64            `json:"succeeded" yaml:"succeeded"`
	Failed    uint64            `json:"failed" yaml:"failed"`
	Durations []time.Duration   `json:"durations,omitempty" yaml:"durations,omitempty"`
	Visits    map[string]uint64 `json:"visits,omitempty" yaml:"visits,omitempty"`
}

// NewMetrics returns an empty aggregate.
func NewMetrics() Metrics {
	return Metrics{Visits: make(map[string]uint64)}
}

// Observe folds one firing into the aggregate.
func (m *Metrics) Observe(success bool, elapsed time.Duration, destination string) {
	m.Total++
	m.Durations = append(m.Durations, elapsed)
	if !success {
		m.Failed++
		return
	}
	m.Succeeded++
	if m.Visits == nil {
		m.Visits = make(map[string]uint64)
	}
	m.Visits[destination]++
}

// AverageTransitionTime is the arithmetic mean of Durations.
// The second result is false when nothing has been recorded.
func (m Metrics) AverageTransitionTime() (time.Duration, bool) {
	if len(m.Durations) == 0 {
		return 0, false
	}
	var total time.Duration
	for _, d := range m.Durations {
		total += d
	}
	return total / time.Duration(len(m.Durations)), true
}

// SuccessRate returns Succeeded / Total, or 0 when Total is 0.
func (m Metrics) SuccessRate() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Succeeded) / float64(m.Total)
}

// Clone returns a deep copy safe to hand out of a lock.
func (m Metrics) Clone() Metrics {
	out := m
	out.Durations = slices.Clone(m.Durations)
	out.Visits = maps.Clone(m.Visits)
	if out.Visits == nil {
		out.Visits = make(map[string]uint64)
	}
	return out
}
