package extensibility

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/comalice/fsmx/internal/core"
	"github.com/comalice/fsmx/internal/primitives"
)

func TestEngineWithCustomExtensibility(t *testing.T) {
	// Counter machine: TICK loops in running while count < 3, STOP leaves.
	count := 0
	vars := map[string]any{"count": 0}

	d := core.NewDefinition[string, string, map[string]any]()
	for _, tr := range []primitives.Transition[string, string, map[string]any]{
		{
			From: "running", To: "running", Event: "TICK", Kind: primitives.Internal, Priority: 1,
			Guard: MustExpressionGuard[string, string]("count < 3"),
			Action: func(_ string, _ string, v map[string]any) {
				count++
				v["count"] = count
			},
		},
		{From: "running", To: "stopped", Event: "STOP"},
		{From: "stopped", To: "running", Event: "RESET"},
	} {
		if err := d.Register(tr); err != nil {
			t.Fatal(err)
		}
	}

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	e, err := d.Build(
		core.WithID("counter"),
		core.WithActionRunner(NewRecoveringActionRunner(NewLoggingActionRunner(nil, log))),
		core.WithGuardEvaluator(NewLoggingGuardEvaluator(nil, log)),
	)
	if err != nil {
		t.Fatal(err)
	}

	tr := NewTracker(e, "running", vars)
	for range 5 {
		_, _ = tr.Fire("TICK")
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	m := e.Metrics()
	if m.Succeeded != 3 || m.Failed != 2 {
		t.Errorf("metrics = %+v, want 3 succeeded and 2 failed", m)
	}

	if _, err := tr.Fire("STOP"); err != nil {
		t.Fatal(err)
	}
	if tr.State() != "stopped" {
		t.Errorf("State() = %q, want stopped", tr.State())
	}

	if n := strings.Count(buf.String(), `"message":"executing action"`); n != 3 {
		t.Errorf("logged %d action executions, want 3", n)
	}
}
