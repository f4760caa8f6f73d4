// Package fsmx is a generic finite-state-machine engine.
//
// Rules are registered declaratively through a Builder and frozen into an
// Engine. FireEvent evaluates a (state, event, context) triple, selects at
// most one transition by guard and priority, runs its action with exit and
// entry hooks around it, and returns the resulting state or a
// *TransitionError.
//
//	b := fsmx.NewBuilder[State, Event, Order]()
//	b.ExternalTransition().From(New).To(PaymentPending).On(Pay).Perform(charge)
//	m, err := b.ID("orders").Build()
//	next, err := m.FireEvent(New, Pay, order)
//
// An Engine starts no goroutines; FireEvent is safe for concurrent callers.
package fsmx

import (
	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
)

type (
	Engine[S, E comparable, C any]      = core.Engine[S, E, C]
	Table[S, E comparable, C any]       = core.Table[S, E, C]
	Parallel[S, E comparable, C any]    = core.Parallel[S, E, C]
	Result[S comparable]                = core.Result[S]
	AsyncAction[S, E comparable, C any] = core.AsyncAction[S, E, C]

	Transition[S, E comparable, C any]   = primitives.Transition[S, E, C]
	Key[S, E comparable]                 = primitives.Key[S, E]
	Guard[S, E comparable, C any]        = primitives.Guard[S, E, C]
	Action[S, E comparable, C any]       = primitives.Action[S, E, C]
	Hook[S comparable, C any]            = primitives.Hook[S, C]
	FailCallback[S, E comparable, C any] = primitives.FailCallback[S, E, C]
	TimeoutSpec[S, E comparable]         = primitives.TimeoutSpec[S, E]
	TransitionRecord[S, E comparable]    = primitives.TransitionRecord[S, E]

	Kind        = primitives.Kind
	Metrics     = primitives.Metrics
	Edge        = primitives.Edge
	Description = primitives.Description
	Envelope    = primitives.Envelope
	Labeler     = primitives.Labeler

	Option          = core.Option
	Step            = core.Step
	ActionRunner    = core.ActionRunner
	GuardEvaluator  = core.GuardEvaluator
	Publisher       = core.Publisher
	Visualizer      = core.Visualizer
	Machine         = core.Machine
	Registry        = core.Registry
	TransitionError = core.TransitionError
	ErrorKind       = core.ErrorKind
)

const (
	External = primitives.External
	Internal = primitives.Internal

	KindNoValidTransition = core.KindNoValidTransition
	KindConditionFailed   = core.KindConditionFailed
	KindTimeout           = core.KindTimeout
	KindAsync             = core.KindAsync

	DefaultID = core.DefaultID
)

var (
	ErrNoValidTransition = core.ErrNoValidTransition
	ErrConditionFailed   = core.ErrConditionFailed
	ErrTimeout           = core.ErrTimeout
	ErrAsync             = core.ErrAsync
	ErrInvalidTransition = core.ErrInvalidTransition
	ErrMissingAction     = core.ErrMissingAction
	ErrExists            = core.ErrExists
	ErrNotFound          = core.ErrNotFound
)

var (
	WithID             = core.WithID
	WithHistory        = core.WithHistory
	WithMetrics        = core.WithMetrics
	WithLogger         = core.WithLogger
	WithPublisher      = core.WithPublisher
	WithVisualizer     = core.WithVisualizer
	WithLabeler        = core.WithLabeler
	WithClock          = core.WithClock
	WithActionRunner   = core.WithActionRunner
	WithGuardEvaluator = core.WithGuardEvaluator

	IsNoTransition    = core.IsNoTransition
	IsConditionFailed = core.IsConditionFailed
	IsAsync           = core.IsAsync
	KindOf            = core.KindOf
	NewTimeoutError   = core.NewTimeoutError
	NewRegistry       = core.NewRegistry
)

// NewParallel creates a coordinator firing one event across regions.
func NewParallel[S, E comparable, C any](regions ...*Engine[S, E, C]) *Parallel[S, E, C] {
	return core.NewParallel(regions...)
}

// Lookup returns the machine registered under id as a typed engine.
func Lookup[S, E comparable, C any](r *Registry, id string) (*Engine[S, E, C], error) {
	return core.Lookup[S, E, C](r, id)
}
