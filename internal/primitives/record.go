package primitives

import "time"

// TransitionRecord is one history entry, appended once per firing attempt.
// A failed attempt reports To == From and Success == false.
type TransitionRecord[S, E comparable] struct {
	From      S
	To        S
	Event     E
	Timestamp time.Time
	Success   bool
}

// Envelope is the label-only form of a TransitionRecord, handed to publishers
// and report writers that do not know the machine's type parameters.
type Envelope struct {
	ID        string        `json:"id" yaml:"id"`
	MachineID string        `json:"machineID" yaml:"machineID"`
	From      string        `json:"from" yaml:"from"`
	To        string        `json:"to" yaml:"to"`
	Event     string        `json:"event" yaml:"event"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Success   bool          `json:"success" yaml:"success"`
	Duration  time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}
