package extensibility

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/core"
)

// Tracker follows one running instance of a machine: its current state, its
// context and when the state was entered. The engine itself never measures
// dwell time; a Tracker does it on the caller's side and fires declared
// timeouts through the engine.
//
// Hooks and actions must not call back into the Tracker that fired them.
type Tracker[S, E comparable, C any] struct {
	engine *core.Engine[S, E, C]
	now    func() time.Time
	log    zerolog.Logger

	mu      sync.Mutex
	state   S
	c       C
	entered time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerSettings)

type trackerSettings struct {
	now func() time.Time
	log zerolog.Logger
}

// WithTrackerClock replaces time.Now for dwell measurement.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(s *trackerSettings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTrackerLogger sets the logger used for timeout firings.
func WithTrackerLogger(l zerolog.Logger) TrackerOption {
	return func(s *trackerSettings) {
		s.log = l
	}
}

// NewTracker starts tracking an instance of engine in initial with context c.
func NewTracker[S, E comparable, C any](engine *core.Engine[S, E, C], initial S, c C, opts ...TrackerOption) *Tracker[S, E, C] {
	s := trackerSettings{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&s)
	}
	return &Tracker[S, E, C]{
		engine:  engine,
		now:     s.now,
		log:     s.log.With().Str("machine", engine.ID()).Logger(),
		state:   initial,
		c:       c,
		entered: s.now(),
	}
}

// State returns the current state.
func (t *Tracker[S, E, C]) State() S {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Dwell returns how long the instance has been in its current state.
func (t *Tracker[S, E, C]) Dwell() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now().Sub(t.entered)
}

// Fire fires event from the current state. On success the state advances;
// dwell restarts only when the state changed.
func (t *Tracker[S, E, C]) Fire(event E) (S, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	to, err := t.engine.FireEvent(t.state, event, t.c)
	if err != nil {
		return t.state, err
	}
	if to != t.state {
		t.state = to
		t.entered = t.now()
	}
	return to, nil
}

// Check fires the current state's timeout if its dwell limit has been reached.
// A successful timeout firing always restarts dwell.
func (t *Tracker[S, E, C]) Check() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	from := t.state
	to, fired, err := t.engine.FireTimeout(from, t.now().Sub(t.entered), t.c)
	if !fired || err != nil {
		return fired, err
	}
	t.state = to
	t.entered = t.now()
	t.log.Info().Any("from", from).Any("to", to).Msg("state timeout fired")
	return true, nil
}

// Run calls Check every interval until ctx is done. Failed timeout firings
// are logged and do not stop the loop.
func (t *Tracker[S, E, C]) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := t.Check(); err != nil {
				t.log.Warn().Err(err).Msg("state timeout firing failed")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
