package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx/internal/primitives"
)

const Expire orderEvent = "Expire"

func timeoutEngine(t *testing.T) *orderEngine {
	t.Helper()
	d := NewDefinition[orderState, orderEvent, order]()
	mustRegister(t, d,
		orderTransition{From: New, To: PaymentPending, Event: Pay},
		orderTransition{From: PaymentPending, To: New, Event: Expire},
	)
	d.SetTimeout(PaymentPending, primitives.TimeoutSpec[orderState, orderEvent]{
		Duration: 15 * time.Minute,
		Target:   New,
		Event:    Expire,
	})
	return mustBuild(t, d)
}

func TestTimeout_Declarative(t *testing.T) {
	e := timeoutEngine(t)

	spec, ok := e.Timeout(PaymentPending)
	require.True(t, ok)
	assert.Equal(t, 15*time.Minute, spec.Duration)
	assert.Equal(t, New, spec.Target)

	_, ok = e.Timeout(New)
	assert.False(t, ok)

	all := e.Timeouts()
	delete(all, PaymentPending)
	_, ok = e.Timeout(PaymentPending)
	assert.True(t, ok, "Timeouts returns a copy")
}

func TestTimeout_Expired(t *testing.T) {
	e := timeoutEngine(t)

	_, ok := e.Expired(PaymentPending, 14*time.Minute)
	assert.False(t, ok)

	spec, ok := e.Expired(PaymentPending, 15*time.Minute)
	assert.True(t, ok)
	assert.Equal(t, Expire, spec.Event)

	_, ok = e.Expired(New, time.Hour)
	assert.False(t, ok, "states without a timeout never expire")
	assert.Empty(t, e.History(), "Expired never fires")
}

func TestTimeout_FireTimeout(t *testing.T) {
	e := timeoutEngine(t)

	got, fired, err := e.FireTimeout(PaymentPending, time.Minute, order{})
	require.NoError(t, err)
	assert.False(t, fired)
	assert.Equal(t, PaymentPending, got)

	got, fired, err = e.FireTimeout(PaymentPending, time.Hour, order{})
	require.NoError(t, err)
	assert.True(t, fired)
	assert.Equal(t, New, got)

	h := e.History()
	require.Len(t, h, 1)
	assert.Equal(t, Expire, h[0].Event)
}

func TestTimeoutError_IsMarker(t *testing.T) {
	err := NewTimeoutError("PaymentPending", "Expire")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.False(t, IsNoTransition(err))
	assert.Contains(t, err.Error(), "timed out")
}
