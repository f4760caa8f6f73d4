package extensibility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
)

// DefaultGuardEvaluator provides the default implementation of GuardEvaluator.
type DefaultGuardEvaluator struct{}

// Eval evaluates a guard condition. A nil guard accepts.
func (e *DefaultGuardEvaluator) Eval(_ core.Step, guard func() bool) bool {
	if guard == nil {
		return true
	}
	return guard()
}

// LoggingGuardEvaluator logs every guard outcome at debug level.
type LoggingGuardEvaluator struct {
	inner core.GuardEvaluator
	log   zerolog.Logger
}

// NewLoggingGuardEvaluator wraps inner, or the default evaluator when nil.
func NewLoggingGuardEvaluator(inner core.GuardEvaluator, log zerolog.Logger) *LoggingGuardEvaluator {
	if inner == nil {
		inner = &DefaultGuardEvaluator{}
	}
	return &LoggingGuardEvaluator{inner: inner, log: log}
}

func (e *LoggingGuardEvaluator) Eval(step core.Step, guard func() bool) bool {
	ok := e.inner.Eval(step, guard)
	e.log.Debug().
		Str("machine", step.Machine).
		Str("from", step.From).
		Str("event", step.Event).
		Str("to", step.To).
		Bool("accepted", ok).
		Msg("guard evaluated")
	return ok
}

// ErrBadExpression is returned for guard expressions that do not parse.
var ErrBadExpression = errors.New("bad guard expression")

// Predicate is a compiled expression over a map context.
type Predicate func(vars map[string]any) bool

// ParseExpression compiles simple expressions like "amount >= 1000" or
// "approved == true". The form is "key op value" with op one of
// ==, !=, >, <, >=, <=. Missing keys and mismatched types evaluate to false.
func ParseExpression(expr string) (Predicate, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w %q: want \"key op value\"", ErrBadExpression, expr)
	}
	key, op, lit := parts[0], parts[1], parts[2]

	switch op {
	case "==":
		return func(vars map[string]any) bool {
			v, ok := vars[key]
			return ok && equalLiteral(v, lit)
		}, nil
	case "!=":
		return func(vars map[string]any) bool {
			v, ok := vars[key]
			return ok && !equalLiteral(v, lit)
		}, nil
	case ">", "<", ">=", "<=":
		want, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %s needs a number", ErrBadExpression, expr, op)
		}
		return func(vars map[string]any) bool {
			got, ok := toFloat(vars[key])
			if !ok {
				return false
			}
			switch op {
			case ">":
				return got > want
			case "<":
				return got < want
			case ">=":
				return got >= want
			default:
				return got <= want
			}
		}, nil
	default:
		return nil, fmt.Errorf("%w %q: unknown operator %q", ErrBadExpression, expr, op)
	}
}

// ExpressionGuard compiles expr into a transition guard over a map context.
func ExpressionGuard[S, E comparable](expr string) (primitives.Guard[S, E, map[string]any], error) {
	pred, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return func(_ S, _ E, vars map[string]any) bool { return pred(vars) }, nil
}

// MustExpressionGuard is ExpressionGuard that panics on a bad expression.
func MustExpressionGuard[S, E comparable](expr string) primitives.Guard[S, E, map[string]any] {
	g, err := ExpressionGuard[S, E](expr)
	if err != nil {
		panic(err)
	}
	return g
}

func equalLiteral(v any, lit string) bool {
	switch lit {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	}
	if want, err := strconv.ParseFloat(lit, 64); err == nil {
		if got, ok := toFloat(v); ok {
			return got == want
		}
	}
	if s, ok := v.(string); ok {
		return s == lit
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
