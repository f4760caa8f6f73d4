package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed firing.
type ErrorKind int

const (
	// KindNoValidTransition: nothing is registered for (from, event).
	KindNoValidTransition ErrorKind = iota
	// KindConditionFailed: rules exist for (from, event) but every guard rejected.
	KindConditionFailed
	// KindTimeout is a caller-side marker; the engine never produces it.
	KindTimeout
	// KindAsync: an async action failed or its context ended before the firing.
	KindAsync
)

var (
	ErrNoValidTransition = errors.New("no valid transition")
	ErrConditionFailed   = errors.New("transition condition failed")
	ErrTimeout           = errors.New("state timeout")
	ErrAsync             = errors.New("async action failed")

	ErrInvalidTransition = errors.New("invalid transition")
	ErrMissingAction     = errors.New("transition requires an action")
	ErrExists            = errors.New("machine already registered")
	ErrNotFound          = errors.New("machine not found")
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoValidTransition:
		return "NoValidTransition"
	case KindConditionFailed:
		return "ConditionFailed"
	case KindTimeout:
		return "Timeout"
	case KindAsync:
		return "AsyncError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindNoValidTransition:
		return ErrNoValidTransition
	case KindConditionFailed:
		return ErrConditionFailed
	case KindTimeout:
		return ErrTimeout
	case KindAsync:
		return ErrAsync
	default:
		return nil
	}
}

// TransitionError is returned by every failed firing. From and Event carry the
// display labels of the firing key.
type TransitionError struct {
	Kind  ErrorKind
	From  string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	var msg string
	switch e.Kind {
	case KindNoValidTransition:
		msg = fmt.Sprintf("no valid transition from state '%s' for event '%s'", e.From, e.Event)
	case KindConditionFailed:
		msg = fmt.Sprintf("transition from state '%s' for event '%s' was rejected by guards", e.From, e.Event)
	case KindTimeout:
		msg = fmt.Sprintf("state '%s' timed out (event '%s')", e.From, e.Event)
	case KindAsync:
		msg = fmt.Sprintf("async action from state '%s' for event '%s' failed", e.From, e.Event)
	default:
		msg = fmt.Sprintf("%s from state '%s' for event '%s'", e.Kind, e.From, e.Event)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the sentinel of the error's kind.
func (e *TransitionError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

func (e *TransitionError) Unwrap() error { return e.Err }

// NewTimeoutError builds the Timeout marker for callers that enforce dwell
// limits themselves.
func NewTimeoutError(from, event string) *TransitionError {
	return &TransitionError{Kind: KindTimeout, From: from, Event: event}
}

// IsNoTransition reports whether err means no transition was selected,
// whether for lack of rules or because every guard rejected.
func IsNoTransition(err error) bool {
	return errors.Is(err, ErrNoValidTransition) || errors.Is(err, ErrConditionFailed)
}

// IsConditionFailed reports whether rules existed but every guard rejected.
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}

// IsAsync reports whether err came from the async wrapper.
func IsAsync(err error) bool {
	return errors.Is(err, ErrAsync)
}

// KindOf extracts the kind of a TransitionError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var te *TransitionError
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}
