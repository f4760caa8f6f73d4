// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"github.com/comalice/fsmx"
)

// Ctx is the context type used by generated machines.
type Ctx struct {
	N int
}

func noop(string, string, Ctx) {}

// GenFlat creates a machine with n states cycling s0 -> s1 -> ... -> s0 on "tick".
func GenFlat(n int, opts ...fsmx.Option) *fsmx.Engine[string, string, Ctx] {
	if n < 1 {
		n = 1
	}
	b := fsmx.NewBuilder[string, string, Ctx]().ID(fmt.Sprintf("flat_%d", n))
	for i := 0; i < n; i++ {
		b.ExternalTransition().
			From(fmt.Sprintf("s%d", i)).
			To(fmt.Sprintf("s%d", (i+1)%n)).
			On("tick").
			Perform(noop)
	}
	return b.MustBuild(opts...)
}

// GenWide creates one "main" state with numTransitions prioritized "tick"
// transitions. Only the lowest-priority one accepts, so every firing walks the
// whole candidate list.
func GenWide(numTransitions int, opts ...fsmx.Option) *fsmx.Engine[string, string, Ctx] {
	if numTransitions < 1 {
		numTransitions = 1
	}
	b := fsmx.NewBuilder[string, string, Ctx]().ID(fmt.Sprintf("wide_%d", numTransitions))
	for i := 0; i < numTransitions; i++ {
		last := i == numTransitions-1
		b.ExternalTransition().
			From("main").
			To("main").
			On("tick").
			When(func(string, string, Ctx) bool { return last }).
			WithPriority(numTransitions - i).
			Perform(noop)
	}
	return b.MustBuild(opts...)
}

// Quiet disables history and metrics so benchmarks measure selection alone.
func Quiet() []fsmx.Option {
	return []fsmx.Option{fsmx.WithHistory(false), fsmx.WithMetrics(false)}
}
