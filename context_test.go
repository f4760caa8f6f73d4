package fsmx_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/fsmx"
)

func TestVars_GetSet(t *testing.T) {
	v := NewVars()
	assert.Nil(t, v.Get("missing"))

	v.Set("amount", 250)
	assert.Equal(t, 250, v.Get("amount"))

	got, ok := v.Lookup("amount")
	assert.True(t, ok)
	assert.Equal(t, 250, got)

	v.Delete("amount")
	_, ok = v.Lookup("amount")
	assert.False(t, ok)
}

func TestVars_SnapshotIsACopy(t *testing.T) {
	v := NewVars()
	v.Set("a", 1)

	snap := v.Snapshot()
	snap["a"] = 2
	snap["b"] = 3

	assert.Equal(t, 1, v.Get("a"))
	assert.Nil(t, v.Get("b"))
}

func TestVars_Load(t *testing.T) {
	v := NewVars()
	v.Set("stale", true)

	src := map[string]any{"fresh": "yes"}
	v.Load(src)
	src["fresh"] = "mutated"

	assert.Equal(t, map[string]any{"fresh": "yes"}, v.Snapshot())

	v.Load(nil)
	assert.Empty(t, v.Snapshot())
	v.Set("after", 1)
	assert.Equal(t, 1, v.Get("after"))
}

func TestVars_Concurrent(t *testing.T) {
	v := NewVars()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			v.Set("k", i)
		}()
		go func() {
			defer wg.Done()
			_ = v.Snapshot()
		}()
	}
	wg.Wait()
	_, ok := v.Lookup("k")
	assert.True(t, ok)
}

func TestExpr(t *testing.T) {
	g, err := Expr[string, string]("amount >= 1000")
	require.NoError(t, err)

	v := NewVars()
	assert.False(t, g("", "", v), "missing key rejects")
	v.Set("amount", 999)
	assert.False(t, g("", "", v))
	v.Set("amount", 1000.0)
	assert.True(t, g("", "", v))
	assert.False(t, g("", "", nil))

	_, err = Expr[string, string]("amount >=")
	assert.Error(t, err)
	assert.Panics(t, func() { MustExpr[string, string]("amount ~ 3") })
}

func TestExpr_DrivesEngine(t *testing.T) {
	b := NewBuilder[string, string, *Vars]()
	b.ExternalTransition().From("review").To("approved").On("decide").
		When(MustExpr[string, string]("score > 7")).WithPriority(1).
		Perform(func(string, string, *Vars) {})
	b.ExternalTransition().From("review").To("rejected").On("decide").
		Perform(func(_ string, _ string, v *Vars) { v.Set("rejected", true) })
	m := b.MustBuild()

	v := NewVars()
	v.Set("score", 9)
	got, err := m.FireEvent("review", "decide", v)
	require.NoError(t, err)
	assert.Equal(t, "approved", got)

	v.Set("score", 3)
	got, err = m.FireEvent("review", "decide", v)
	require.NoError(t, err)
	assert.Equal(t, "rejected", got)
	assert.Equal(t, true, v.Get("rejected"))
}
