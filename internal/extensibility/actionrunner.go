// Package extensibility provides pluggable ActionRunner and GuardEvaluator
// implementations, expression guards over map contexts, and a caller-side
// Tracker that enforces declared timeouts on a ticker.
package extensibility

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/core"
)

// DefaultActionRunner runs the action inline.
type DefaultActionRunner struct{}

// Run executes the action.
func (r *DefaultActionRunner) Run(_ core.Step, action func()) error {
	if action == nil {
		return nil
	}
	action()
	return nil
}

// LoggingActionRunner wraps an ActionRunner and adds logging around execution.
type LoggingActionRunner struct {
	inner core.ActionRunner
	log   zerolog.Logger
}

// NewLoggingActionRunner creates a new LoggingActionRunner wrapping the given inner runner.
func NewLoggingActionRunner(inner core.ActionRunner, log zerolog.Logger) *LoggingActionRunner {
	if inner == nil {
		inner = &DefaultActionRunner{}
	}
	return &LoggingActionRunner{inner: inner, log: log}
}

// Run logs before and after delegating to the inner runner.
func (r *LoggingActionRunner) Run(step core.Step, action func()) error {
	r.log.Debug().
		Str("machine", step.Machine).
		Str("from", step.From).
		Str("event", step.Event).
		Str("to", step.To).
		Msg("executing action")

	start := time.Now()
	err := r.inner.Run(step, action)

	var ev *zerolog.Event
	if err != nil {
		ev = r.log.Warn().Err(err)
	} else {
		ev = r.log.Debug()
	}
	ev.Str("machine", step.Machine).
		Str("event", step.Event).
		Dur("elapsed", time.Since(start)).
		Msg("action completed")
	return err
}

// RecoveringActionRunner turns a panicking action into an error so the
// firing still completes its entry hook and sink update.
type RecoveringActionRunner struct {
	inner core.ActionRunner
}

// NewRecoveringActionRunner wraps inner, or the default runner when nil.
func NewRecoveringActionRunner(inner core.ActionRunner) *RecoveringActionRunner {
	if inner == nil {
		inner = &DefaultActionRunner{}
	}
	return &RecoveringActionRunner{inner: inner}
}

// Run delegates to the inner runner and recovers any panic.
func (r *RecoveringActionRunner) Run(step core.Step, action func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("action %s -> %s on %q panicked: %v", step.From, step.To, step.Event, p)
		}
	}()
	return r.inner.Run(step, action)
}
