package fsmx

import (
	"fmt"
	"strings"
	"time"

	"github.com/comalice/fsmx/internal/core"
)

// Builder provides a fluent API for constructing an Engine. Every
// registration happens before Build; mistakes are collected and reported by
// Build.
type Builder[S, E comparable, C any] struct {
	def *core.Definition[S, E, C]
	id  string
}

// NewBuilder creates an empty Builder.
func NewBuilder[S, E comparable, C any]() *Builder[S, E, C] {
	return &Builder[S, E, C]{def: core.NewDefinition[S, E, C]()}
}

// ID sets the machine identifier. Defaults to DefaultID.
func (b *Builder[S, E, C]) ID(id string) *Builder[S, E, C] {
	b.id = id
	return b
}

// ExternalTransition starts a transition from one state to another.
func (b *Builder[S, E, C]) ExternalTransition() *ExternalTransitionBuilder[S, E, C] {
	return &ExternalTransitionBuilder[S, E, C]{b: b}
}

// InternalTransition starts a self-loop transition.
func (b *Builder[S, E, C]) InternalTransition() *InternalTransitionBuilder[S, E, C] {
	return &InternalTransitionBuilder[S, E, C]{b: b}
}

// ExternalTransitions starts a transition from several source states to one target.
func (b *Builder[S, E, C]) ExternalTransitions() *ExternalTransitionsBuilder[S, E, C] {
	return &ExternalTransitionsBuilder[S, E, C]{b: b}
}

// OnEntry sets the entry hook of state.
func (b *Builder[S, E, C]) OnEntry(state S, hook Hook[S, C]) *Builder[S, E, C] {
	b.def.OnEntry(state, hook)
	return b
}

// OnExit sets the exit hook of state.
func (b *Builder[S, E, C]) OnExit(state S, hook Hook[S, C]) *Builder[S, E, C] {
	b.def.OnExit(state, hook)
	return b
}

// WithStateTimeout declares that after d in state, event should be fired
// towards target. Nothing fires automatically.
func (b *Builder[S, E, C]) WithStateTimeout(state S, d time.Duration, target S, event E) *Builder[S, E, C] {
	b.def.SetTimeout(state, TimeoutSpec[S, E]{Duration: d, Target: target, Event: event})
	return b
}

// SetFailCallback sets the callback run when a firing selects no transition.
func (b *Builder[S, E, C]) SetFailCallback(cb FailCallback[S, E, C]) *Builder[S, E, C] {
	b.def.SetFailCallback(cb)
	return b
}

// WithAsyncAction attaches an async action to (from, event), run by FireEventAsync.
func (b *Builder[S, E, C]) WithAsyncAction(from S, event E, a AsyncAction[S, E, C]) *Builder[S, E, C] {
	b.def.SetAsyncAction(from, event, a)
	return b
}

// Build freezes the registered rules into an Engine. Options given here
// override the builder's ID.
func (b *Builder[S, E, C]) Build(opts ...Option) (*Engine[S, E, C], error) {
	if b.id != "" {
		opts = append([]Option{WithID(b.id)}, opts...)
	}
	return b.def.Build(opts...)
}

// MustBuild is Build that panics on error.
func (b *Builder[S, E, C]) MustBuild(opts ...Option) *Engine[S, E, C] {
	m, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// register validates the collected fields and adds t, recording any problem
// for Build.
func (b *Builder[S, E, C]) register(t Transition[S, E, C], kind string, missing []string) {
	if len(missing) > 0 {
		b.def.Fail(fmt.Errorf("%w: %s transition missing %s", ErrInvalidTransition, kind, strings.Join(missing, ", ")))
		return
	}
	if t.Action == nil {
		b.def.Fail(fmt.Errorf("%w: %s transition %v -> %v on %v", ErrMissingAction, kind, t.From, t.To, t.Event))
		return
	}
	_ = b.def.Register(t) // errors are kept by the definition
}

// ExternalTransitionBuilder configures one external transition.
type ExternalTransitionBuilder[S, E comparable, C any] struct {
	b                     *Builder[S, E, C]
	t                     Transition[S, E, C]
	hasFrom, hasTo, hasOn bool
}

// From sets the source state.
func (tb *ExternalTransitionBuilder[S, E, C]) From(state S) *ExternalTransitionBuilder[S, E, C] {
	tb.t.From, tb.hasFrom = state, true
	return tb
}

// To sets the target state.
func (tb *ExternalTransitionBuilder[S, E, C]) To(state S) *ExternalTransitionBuilder[S, E, C] {
	tb.t.To, tb.hasTo = state, true
	return tb
}

// On sets the triggering event.
func (tb *ExternalTransitionBuilder[S, E, C]) On(event E) *ExternalTransitionBuilder[S, E, C] {
	tb.t.Event, tb.hasOn = event, true
	return tb
}

// When sets the guard.
func (tb *ExternalTransitionBuilder[S, E, C]) When(guard Guard[S, E, C]) *ExternalTransitionBuilder[S, E, C] {
	tb.t.Guard = guard
	return tb
}

// WithPriority sets the priority. Higher values are tried first.
func (tb *ExternalTransitionBuilder[S, E, C]) WithPriority(p int) *ExternalTransitionBuilder[S, E, C] {
	tb.t.Priority = p
	return tb
}

// Perform sets the required action and registers the transition.
func (tb *ExternalTransitionBuilder[S, E, C]) Perform(action Action[S, E, C]) *Builder[S, E, C] {
	tb.t.Action = action
	tb.t.Kind = External
	tb.b.register(tb.t, "external", missingFields(
		field{"from", tb.hasFrom}, field{"to", tb.hasTo}, field{"event", tb.hasOn}))
	return tb.b
}

// InternalTransitionBuilder configures one self-loop transition.
type InternalTransitionBuilder[S, E comparable, C any] struct {
	b                *Builder[S, E, C]
	t                Transition[S, E, C]
	hasWithin, hasOn bool
}

// Within sets the state the transition loops on.
func (tb *InternalTransitionBuilder[S, E, C]) Within(state S) *InternalTransitionBuilder[S, E, C] {
	tb.t.From, tb.t.To, tb.hasWithin = state, state, true
	return tb
}

// On sets the triggering event.
func (tb *InternalTransitionBuilder[S, E, C]) On(event E) *InternalTransitionBuilder[S, E, C] {
	tb.t.Event, tb.hasOn = event, true
	return tb
}

// When sets the guard.
func (tb *InternalTransitionBuilder[S, E, C]) When(guard Guard[S, E, C]) *InternalTransitionBuilder[S, E, C] {
	tb.t.Guard = guard
	return tb
}

// WithPriority sets the priority. Higher values are tried first.
func (tb *InternalTransitionBuilder[S, E, C]) WithPriority(p int) *InternalTransitionBuilder[S, E, C] {
	tb.t.Priority = p
	return tb
}

// Perform sets the required action and registers the transition.
func (tb *InternalTransitionBuilder[S, E, C]) Perform(action Action[S, E, C]) *Builder[S, E, C] {
	tb.t.Action = action
	tb.t.Kind = Internal
	tb.b.register(tb.t, "internal", missingFields(
		field{"within", tb.hasWithin}, field{"event", tb.hasOn}))
	return tb.b
}

// ExternalTransitionsBuilder configures one transition shared by several sources.
type ExternalTransitionsBuilder[S, E comparable, C any] struct {
	b            *Builder[S, E, C]
	from         []S
	t            Transition[S, E, C]
	hasTo, hasOn bool
}

// FromAmong sets the source states.
func (tb *ExternalTransitionsBuilder[S, E, C]) FromAmong(states ...S) *ExternalTransitionsBuilder[S, E, C] {
	tb.from = append(tb.from, states...)
	return tb
}

// To sets the target state.
func (tb *ExternalTransitionsBuilder[S, E, C]) To(state S) *ExternalTransitionsBuilder[S, E, C] {
	tb.t.To, tb.hasTo = state, true
	return tb
}

// On sets the triggering event.
func (tb *ExternalTransitionsBuilder[S, E, C]) On(event E) *ExternalTransitionsBuilder[S, E, C] {
	tb.t.Event, tb.hasOn = event, true
	return tb
}

// When sets the guard shared by every source.
func (tb *ExternalTransitionsBuilder[S, E, C]) When(guard Guard[S, E, C]) *ExternalTransitionsBuilder[S, E, C] {
	tb.t.Guard = guard
	return tb
}

// WithPriority sets the priority shared by every source.
func (tb *ExternalTransitionsBuilder[S, E, C]) WithPriority(p int) *ExternalTransitionsBuilder[S, E, C] {
	tb.t.Priority = p
	return tb
}

// Perform sets the required action and registers one transition per source.
func (tb *ExternalTransitionsBuilder[S, E, C]) Perform(action Action[S, E, C]) *Builder[S, E, C] {
	tb.t.Action = action
	tb.t.Kind = External
	missing := missingFields(field{"from", len(tb.from) > 0}, field{"to", tb.hasTo}, field{"event", tb.hasOn})
	if len(missing) > 0 {
		tb.b.register(tb.t, "external", missing)
		return tb.b
	}
	for _, from := range tb.from {
		t := tb.t
		t.From = from
		tb.b.register(t, "external", nil)
	}
	return tb.b
}

type field struct {
	name string
	set  bool
}

func missingFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if !f.set {
			missing = append(missing, f.name)
		}
	}
	return missing
}
