// Package core provides the transition engine: the frozen rule table, guard and
// priority selection, hook sequencing around a firing, the observability sink,
// declarative timeouts and parallel regions.
//
// An Engine is passive. It starts no goroutines, and FireEvent is safe for
// concurrent callers; the only shared mutable state is the sink.
//
//go:generate go test ./... -race
package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/internal/production"
)

// Engine is a built, immutable state machine.
type Engine[S, E comparable, C any] struct {
	id       string
	table    *Table[S, E, C]
	hooks    map[S]primitives.StateHooks[S, C]
	timeouts map[S]primitives.TimeoutSpec[S, E]
	async    map[primitives.Key[S, E]]AsyncAction[S, E, C]
	fail     primitives.FailCallback[S, E, C]
	sink     *sink[S, E]
	settings settings
	log      zerolog.Logger
}

// FireEvent evaluates event against from and returns the resulting state.
//
// The exit hook of from runs first, before lookup, whatever the outcome.
// Candidates are tried by priority descending, ties in declaration order, and
// the first whose guard accepts is selected. Its action runs, then the entry
// hook of its target. When nothing is selected the fail callback runs and
// from is returned with a *TransitionError.
func (e *Engine[S, E, C]) FireEvent(from S, event E, c C) (S, error) {
	start := e.settings.clock()

	if h := e.hooks[from].Exit; h != nil {
		h(from, c)
	}

	to, err := e.evaluate(from, event, c)
	if err == nil {
		if h := e.hooks[to].Entry; h != nil {
			h(to, c)
		}
	} else if e.fail != nil {
		e.fail(from, event, c)
	}

	end := e.settings.clock()
	elapsed := end.Sub(start)
	rec := primitives.TransitionRecord[S, E]{
		From:      from,
		To:        to,
		Event:     event,
		Timestamp: end,
		Success:   err == nil,
	}

	var destination string
	if rec.Success && e.settings.metrics {
		destination = e.label(to)
	}
	e.sink.record(rec, elapsed, destination)

	e.publish(rec, elapsed)

	if ev := e.log.Debug(); ev.Enabled() {
		ev.Str("from", e.label(from)).
			Str("event", e.label(event)).
			Str("to", e.label(to)).
			Bool("success", rec.Success).
			Dur("duration", elapsed).
			Msg("fire event")
	}

	return to, err
}

func (e *Engine[S, E, C]) evaluate(from S, event E, c C) (S, error) {
	candidates := e.table.candidates(from, event)
	if len(candidates) == 0 {
		return from, e.newError(KindNoValidTransition, from, event, nil)
	}

	for _, t := range candidates {
		if !e.accepts(t, from, event, c) {
			continue
		}
		e.run(t, from, event, c)
		return t.To, nil
	}
	return from, e.newError(KindConditionFailed, from, event, nil)
}

func (e *Engine[S, E, C]) accepts(t primitives.Transition[S, E, C], from S, event E, c C) bool {
	if t.Guard == nil {
		return true
	}
	if e.settings.guardEval == nil {
		return t.Guard(from, event, c)
	}
	return e.settings.guardEval.Eval(e.step(from, event, t.To), func() bool {
		return t.Guard(from, event, c)
	})
}

func (e *Engine[S, E, C]) run(t primitives.Transition[S, E, C], from S, event E, c C) {
	if t.Action == nil {
		return
	}
	if e.settings.actionRunner == nil {
		t.Action(from, event, c)
		return
	}
	step := e.step(from, event, t.To)
	if err := e.settings.actionRunner.Run(step, func() { t.Action(from, event, c) }); err != nil {
		e.log.Error().Err(err).
			Str("from", step.From).
			Str("event", step.Event).
			Str("to", step.To).
			Msg("transition action failed")
	}
}

func (e *Engine[S, E, C]) publish(rec primitives.TransitionRecord[S, E], elapsed time.Duration) {
	if e.settings.publisher == nil {
		return
	}
	env := e.envelope(rec)
	env.Duration = elapsed
	if err := e.settings.publisher.Publish(context.Background(), env); err != nil {
		e.log.Warn().Err(err).Str("event", env.Event).Msg("publish transition record")
	}
}

// FireEventAsync runs the async action registered for (from, event), if any,
// and then the synchronous core. An action error or a done ctx yields an
// AsyncError and the synchronous core is not run.
func (e *Engine[S, E, C]) FireEventAsync(ctx context.Context, from S, event E, c C) (S, error) {
	if err := ctx.Err(); err != nil {
		return from, e.newError(KindAsync, from, event, err)
	}
	if a, ok := e.async[primitives.Key[S, E]{From: from, Event: event}]; ok {
		if err := a(ctx, from, event, c); err != nil {
			return from, e.newError(KindAsync, from, event, err)
		}
		if err := ctx.Err(); err != nil {
			return from, e.newError(KindAsync, from, event, err)
		}
	}
	return e.FireEvent(from, event, c)
}

// Verify reports whether any transition is registered for (from, event).
// Guards are not evaluated and the sink is untouched.
func (e *Engine[S, E, C]) Verify(from S, event E) bool {
	return e.table.Has(from, event)
}

// CanFire reports whether FireEvent would select a transition for c. Guards
// are evaluated; actions, hooks and the sink are not touched.
func (e *Engine[S, E, C]) CanFire(from S, event E, c C) bool {
	for _, t := range e.table.candidates(from, event) {
		if e.accepts(t, from, event, c) {
			return true
		}
	}
	return false
}

// ID returns the machine identifier.
func (e *Engine[S, E, C]) ID() string { return e.id }

// Table returns the frozen transition table.
func (e *Engine[S, E, C]) Table() *Table[S, E, C] { return e.table }

// History returns a copy of the firing log.
func (e *Engine[S, E, C]) History() []primitives.TransitionRecord[S, E] {
	return e.sink.History()
}

// ClearHistory empties the firing log. Metrics are kept.
func (e *Engine[S, E, C]) ClearHistory() { e.sink.ClearHistory() }

// Metrics returns a deep-copied snapshot of the aggregate.
func (e *Engine[S, E, C]) Metrics() primitives.Metrics { return e.sink.Metrics() }

// ResetMetrics zeroes the aggregate. History is kept.
func (e *Engine[S, E, C]) ResetMetrics() { e.sink.ResetMetrics() }

// ToDOT renders the table as Graphviz DOT.
func (e *Engine[S, E, C]) ToDOT() string {
	return e.settings.visualizer.ExportDOT(e.table.Edges(e.settings.labeler))
}

// ToPlantUML renders the table as a PlantUML state diagram.
func (e *Engine[S, E, C]) ToPlantUML() string {
	return e.settings.visualizer.ExportPlantUML(e.table.Edges(e.settings.labeler))
}

// Describe returns the versioned outline of the table and its timeouts.
func (e *Engine[S, E, C]) Describe() primitives.Description {
	d := primitives.Description{
		ID:      e.id,
		Edges:   e.table.Edges(e.settings.labeler),
		Timeout: e.timeoutOutlines(),
	}
	d.Version = primitives.ComputeVersion(d)
	return d
}

// Report snapshots history and metrics for a report writer.
func (e *Engine[S, E, C]) Report() production.Report {
	m := e.Metrics()
	avg, _ := m.AverageTransitionTime()

	history := e.History()
	envelopes := make([]primitives.Envelope, 0, len(history))
	for _, rec := range history {
		envelopes = append(envelopes, e.envelope(rec))
	}

	return production.Report{
		MachineID:   e.id,
		Version:     e.Describe().Version,
		GeneratedAt: e.settings.clock(),
		SuccessRate: m.SuccessRate(),
		AverageTime: avg,
		Metrics:     m,
		History:     envelopes,
	}
}

func (e *Engine[S, E, C]) envelope(rec primitives.TransitionRecord[S, E]) primitives.Envelope {
	return primitives.Envelope{
		MachineID: e.id,
		From:      e.label(rec.From),
		To:        e.label(rec.To),
		Event:     e.label(rec.Event),
		Timestamp: rec.Timestamp,
		Success:   rec.Success,
	}
}

func (e *Engine[S, E, C]) step(from S, event E, to S) Step {
	return Step{
		Machine: e.id,
		From:    e.label(from),
		Event:   e.label(event),
		To:      e.label(to),
	}
}

func (e *Engine[S, E, C]) label(v any) string {
	return e.settings.labeler(v)
}

func (e *Engine[S, E, C]) newError(kind ErrorKind, from S, event E, err error) *TransitionError {
	return &TransitionError{
		Kind:  kind,
		From:  e.label(from),
		Event: e.label(event),
		Err:   err,
	}
}
