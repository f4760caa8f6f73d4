package core

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/comalice/fsmx/internal/primitives"
)

// AsyncAction runs before the synchronous core when an event is fired through
// FireEventAsync. A non-nil error aborts the firing.
type AsyncAction[S, E comparable, C any] func(ctx context.Context, from S, event E, c C) error

// Definition collects transitions, hooks, timeouts and callbacks at
// construction time. It is not safe for concurrent use; Build freezes a copy.
type Definition[S, E comparable, C any] struct {
	transitions []primitives.Transition[S, E, C]
	hooks       map[S]primitives.StateHooks[S, C]
	timeouts    map[S]primitives.TimeoutSpec[S, E]
	async       map[primitives.Key[S, E]]AsyncAction[S, E, C]
	fail        primitives.FailCallback[S, E, C]
	errs        []error
}

// NewDefinition creates an empty Definition.
func NewDefinition[S, E comparable, C any]() *Definition[S, E, C] {
	return &Definition[S, E, C]{
		hooks:    make(map[S]primitives.StateHooks[S, C]),
		timeouts: make(map[S]primitives.TimeoutSpec[S, E]),
		async:    make(map[primitives.Key[S, E]]AsyncAction[S, E, C]),
	}
}

// Register appends a transition. Transitions on the same key keep the order
// they were registered in; overlapping rules are legal.
func (d *Definition[S, E, C]) Register(t primitives.Transition[S, E, C]) error {
	if err := t.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		d.errs = append(d.errs, err)
		return err
	}
	d.transitions = append(d.transitions, t)
	return nil
}

// Fail records a construction error to be reported by Build.
func (d *Definition[S, E, C]) Fail(err error) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// OnEntry sets the entry hook of state, replacing any previous one.
func (d *Definition[S, E, C]) OnEntry(state S, h primitives.Hook[S, C]) {
	hooks := d.hooks[state]
	hooks.Entry = h
	d.hooks[state] = hooks
}

// OnExit sets the exit hook of state, replacing any previous one.
func (d *Definition[S, E, C]) OnExit(state S, h primitives.Hook[S, C]) {
	hooks := d.hooks[state]
	hooks.Exit = h
	d.hooks[state] = hooks
}

// SetTimeout declares a dwell limit for state.
func (d *Definition[S, E, C]) SetTimeout(state S, spec primitives.TimeoutSpec[S, E]) {
	d.timeouts[state] = spec
}

// SetFailCallback sets the callback run when a firing selects no transition.
func (d *Definition[S, E, C]) SetFailCallback(cb primitives.FailCallback[S, E, C]) {
	d.fail = cb
}

// SetAsyncAction attaches an async action to (from, event).
func (d *Definition[S, E, C]) SetAsyncAction(from S, event E, a AsyncAction[S, E, C]) {
	d.async[primitives.Key[S, E]{From: from, Event: event}] = a
}

// Build validates the definition and freezes it into an Engine.
func (d *Definition[S, E, C]) Build(opts ...Option) (*Engine[S, E, C], error) {
	if len(d.errs) > 0 {
		return nil, fmt.Errorf("build state machine: %w", errors.Join(d.errs...))
	}

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	e := &Engine[S, E, C]{
		id:       s.id,
		table:    newTable(d.transitions),
		hooks:    maps.Clone(d.hooks),
		timeouts: maps.Clone(d.timeouts),
		async:    maps.Clone(d.async),
		fail:     d.fail,
		sink:     newSink[S, E](s.history, s.metrics),
		settings: s,
		log:      s.logger.With().Str("machine", s.id).Logger(),
	}
	return e, nil
}
