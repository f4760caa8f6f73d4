// Options for configuring Engine instances.
package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/primitives"
	"github.com/comalice/fsmx/internal/production"
)

// DefaultID is the machine ID used when none is configured.
const DefaultID = "StateMachine"

// Step describes the firing a guard or action runs for, in label form.
type Step struct {
	Machine string
	From    string
	Event   string
	To      string
}

// ActionRunner executes transition actions. A returned error is logged; the
// transition still commits.
type ActionRunner interface {
	Run(step Step, action func()) error
}

// GuardEvaluator evaluates transition guards.
type GuardEvaluator interface {
	Eval(step Step, guard func() bool) bool
}

// Publisher receives one envelope per firing, after the sink update.
type Publisher interface {
	Publish(ctx context.Context, env primitives.Envelope) error
	Close() error
}

// Visualizer renders the canonical edge list.
type Visualizer interface {
	ExportDOT(edges []primitives.Edge) string
	ExportPlantUML(edges []primitives.Edge) string
}

// Option applies configuration to an Engine via the functional options pattern.
type Option func(*settings)

type settings struct {
	id           string
	history      bool
	metrics      bool
	logger       zerolog.Logger
	publisher    Publisher
	visualizer   Visualizer
	labeler      primitives.Labeler
	clock        func() time.Time
	actionRunner ActionRunner
	guardEval    GuardEvaluator
}

func defaultSettings() settings {
	return settings{
		id:         DefaultID,
		history:    true,
		metrics:    true,
		logger:     zerolog.Nop(),
		visualizer: &production.DefaultVisualizer{},
		labeler:    primitives.Label,
		clock:      time.Now,
	}
}

// WithID sets the machine identifier.
func WithID(id string) Option {
	return func(s *settings) {
		if id != "" {
			s.id = id
		}
	}
}

// WithHistory toggles the history log.
func WithHistory(enabled bool) Option {
	return func(s *settings) {
		s.history = enabled
	}
}

// WithMetrics toggles metrics aggregation.
func WithMetrics(enabled bool) Option {
	return func(s *settings) {
		s.metrics = enabled
	}
}

// WithLogger configures the Engine with a zerolog logger. Firings log at debug.
func WithLogger(l zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithPublisher configures the Engine with a record Publisher.
func WithPublisher(p Publisher) Option {
	return func(s *settings) {
		s.publisher = p
	}
}

// WithVisualizer configures the Engine with a custom Visualizer.
func WithVisualizer(v Visualizer) Option {
	return func(s *settings) {
		if v != nil {
			s.visualizer = v
		}
	}
}

// WithLabeler sets how states and events are rendered in metrics, errors and exports.
func WithLabeler(l primitives.Labeler) Option {
	return func(s *settings) {
		if l != nil {
			s.labeler = l
		}
	}
}

// WithClock replaces time.Now for timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithActionRunner configures the Engine with a custom ActionRunner.
func WithActionRunner(r ActionRunner) Option {
	return func(s *settings) {
		s.actionRunner = r
	}
}

// WithGuardEvaluator configures the Engine with a custom GuardEvaluator.
func WithGuardEvaluator(e GuardEvaluator) Option {
	return func(s *settings) {
		s.guardEval = e
	}
}
