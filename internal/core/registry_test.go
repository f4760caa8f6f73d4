package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()
	a, b := region(t, "A", "B"), region(t, "C", "D")

	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(a))
	assert.ErrorIs(t, r.Register(region(t, "A", "B")), ErrExists)

	assert.Equal(t, []string{"AB", "CD"}, r.IDs())

	m, err := r.Get("AB")
	require.NoError(t, err)
	assert.Same(t, a, m)

	machines := r.Machines()
	require.Len(t, machines, 2)
	assert.Equal(t, "AB", machines[0].ID())

	require.NoError(t, r.Remove("AB"))
	assert.ErrorIs(t, r.Remove("AB"), ErrNotFound)
	_, err = r.Get("AB")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_TypedLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(region(t, "A", "B")))

	e, err := Lookup[string, string, struct{}](r, "AB")
	require.NoError(t, err)
	to, err := e.FireEvent("A", "go", struct{}{})
	require.NoError(t, err)
	assert.Equal(t, "B", to)

	_, err = Lookup[orderState, orderEvent, order](r, "AB")
	assert.Error(t, err)

	_, err = Lookup[string, string, struct{}](r, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()

	const N = 50
	var wg sync.WaitGroup
	for i := range N {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d := NewDefinition[string, string, struct{}]()
			e, err := d.Build(WithID(fmt.Sprintf("m%d", i)))
			if err != nil {
				t.Error(err)
				return
			}
			if err := r.Register(e); err != nil {
				t.Error(err)
			}
			_ = r.IDs()
		}()
	}
	wg.Wait()
	assert.Len(t, r.IDs(), N)
}
