package fsmx

import (
	"maps"
	"sync"

	"github.com/comalice/fsmx/internal/extensibility"
)

// Vars provides thread-safe storage for extended state. A *Vars is a
// convenient context type when guards and actions share mutable data
// across concurrent firings.
type Vars struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewVars creates an empty Vars.
func NewVars() *Vars {
	return &Vars{
		data: make(map[string]any),
	}
}

// Get retrieves a value by key. Returns nil if the key does not exist.
func (v *Vars) Get(key string) any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data[key]
}

// Lookup retrieves a value and reports whether the key exists.
func (v *Vars) Lookup(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.data[key]
	return val, ok
}

// Set stores a value by key.
func (v *Vars) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data[key] = value
}

// Delete removes a key.
func (v *Vars) Delete(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.data, key)
}

// Snapshot returns a copy of all data. Modifications to it do not affect v.
func (v *Vars) Snapshot() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return maps.Clone(v.data)
}

// Load atomically replaces all data with a copy of data.
func (v *Vars) Load(data map[string]any) {
	cp := maps.Clone(data)
	if cp == nil {
		cp = make(map[string]any)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = cp
}

// Expr compiles a "key op value" expression (==, !=, >, <, >=, <=) into a
// guard over *Vars. A nil *Vars rejects.
func Expr[S, E comparable](expr string) (Guard[S, E, *Vars], error) {
	pred, err := extensibility.ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return func(_ S, _ E, v *Vars) bool {
		if v == nil {
			return false
		}
		v.mu.RLock()
		defer v.mu.RUnlock()
		return pred(v.data)
	}, nil
}

// MustExpr is Expr that panics on a bad expression.
func MustExpr[S, E comparable](expr string) Guard[S, E, *Vars] {
	g, err := Expr[S, E](expr)
	if err != nil {
		panic(err)
	}
	return g
}
