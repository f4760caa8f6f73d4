package primitives

import (
	"cmp"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"slices"
)

// Labeler renders a state or event for display, metrics keys and exports.
type Labeler func(v any) string

// Label is the default Labeler. Values implementing fmt.Stringer use String().
func Label(v any) string {
	return fmt.Sprintf("%v", v)
}

// Edge is one exported transition. Guards and priorities are deliberately absent.
type Edge struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Event string `json:"event" yaml:"event"`
	Kind  Kind   `json:"kind" yaml:"kind"`
}

// SortEdges orders edges by From, then Event. The sort is stable so edges on
// the same key keep declaration order.
func SortEdges(edges []Edge) {
	slices.SortStableFunc(edges, func(a, b Edge) int {
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.Event, b.Event)
	})
}

// Description is the serializable outline of a frozen table.
type Description struct {
	Version string           `json:"version" yaml:"version"`
	ID      string           `json:"id" yaml:"id"`
	Edges   []Edge           `json:"edges" yaml:"edges"`
	Timeout []TimeoutOutline `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
}

// TimeoutOutline is the label form of a TimeoutSpec.
type TimeoutOutline struct {
	State    string `json:"state" yaml:"state"`
	Duration string `json:"duration" yaml:"duration"`
	Target   string `json:"target" yaml:"target"`
	Event    string `json:"event" yaml:"event"`
}

// ComputeVersion fingerprints a description: SHA256 over its JSON form with
// Version cleared, truncated to 8 bytes. Equal tables yield equal versions.
func ComputeVersion(d Description) string {
	d.Version = ""
	data, err := json.Marshal(d)
	if err != nil {
		return "invalid"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}
