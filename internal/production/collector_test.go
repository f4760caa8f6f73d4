package production

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx/internal/primitives"
)

type staticSource struct {
	id string
	m  primitives.Metrics
}

func (s staticSource) ID() string                  { return s.id }
func (s staticSource) Metrics() primitives.Metrics { return s.m }

func TestCollector_Exposition(t *testing.T) {
	m := primitives.NewMetrics()
	m.Observe(true, time.Second, "Processing")
	m.Observe(false, 3*time.Second, "")

	c := NewCollector("fsmx", staticSource{id: "orders", m: m})

	want := `
# HELP fsmx_transitions_total Total number of firing attempts.
# TYPE fsmx_transitions_total counter
fsmx_transitions_total{machine="orders"} 2
# HELP fsmx_transitions_failed_total Number of firings that selected no transition.
# TYPE fsmx_transitions_failed_total counter
fsmx_transitions_failed_total{machine="orders"} 1
# HELP fsmx_state_visits_total Successful arrivals per destination state.
# TYPE fsmx_state_visits_total counter
fsmx_state_visits_total{machine="orders",state="Processing"} 1
# HELP fsmx_success_rate Succeeded over total firings.
# TYPE fsmx_success_rate gauge
fsmx_success_rate{machine="orders"} 0.5
# HELP fsmx_transition_duration_average_seconds Mean firing duration.
# TYPE fsmx_transition_duration_average_seconds gauge
fsmx_transition_duration_average_seconds{machine="orders"} 2
`
	err := testutil.CollectAndCompare(c, strings.NewReader(want),
		"fsmx_transitions_total",
		"fsmx_transitions_failed_total",
		"fsmx_state_visits_total",
		"fsmx_success_rate",
		"fsmx_transition_duration_average_seconds",
	)
	assert.NoError(t, err)
}

func TestCollector_EmptyMachineOmitsAverage(t *testing.T) {
	c := NewCollector("fsmx", staticSource{id: "idle", m: primitives.NewMetrics()})

	// total, succeeded, failed, success rate; no visits and no average.
	assert.Equal(t, 4, testutil.CollectAndCount(c))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewCollector("fsmx",
		staticSource{id: "a", m: primitives.NewMetrics()},
		staticSource{id: "b", m: primitives.NewMetrics()},
	)
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
