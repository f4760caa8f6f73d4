package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx/internal/primitives"
)

func TestTable_LookupPreservesDeclarationOrder(t *testing.T) {
	d := NewDefinition[orderState, orderEvent, order]()
	mustRegister(t, d,
		orderTransition{From: PaymentReceived, To: AutoApproved, Event: Process, Priority: 10},
		orderTransition{From: PaymentReceived, To: ManualReview, Event: Process, Priority: 30},
		orderTransition{From: New, To: PaymentPending, Event: Pay},
		orderTransition{From: PaymentReceived, To: Processing, Event: Process, Priority: 20},
	)
	tbl := mustBuild(t, d).Table()

	got := tbl.Lookup(PaymentReceived, Process)
	require.Len(t, got, 3)
	assert.Equal(t, []orderState{AutoApproved, ManualReview, Processing},
		[]orderState{got[0].To, got[1].To, got[2].To})

	ranked := tbl.candidates(PaymentReceived, Process)
	assert.Equal(t, []orderState{ManualReview, Processing, AutoApproved},
		[]orderState{ranked[0].To, ranked[1].To, ranked[2].To})

	assert.Nil(t, tbl.Lookup(Shipped, Pay))
	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []primitives.Key[orderState, orderEvent]{
		{From: PaymentReceived, Event: Process},
		{From: New, Event: Pay},
	}, tbl.Keys())
}

func TestTable_LookupReturnsCopy(t *testing.T) {
	d := NewDefinition[orderState, orderEvent, order]()
	mustRegister(t, d, orderTransition{From: New, To: PaymentPending, Event: Pay})
	tbl := mustBuild(t, d).Table()

	got := tbl.Lookup(New, Pay)
	got[0].To = Shipped
	assert.Equal(t, PaymentPending, tbl.Lookup(New, Pay)[0].To)
}

func TestTable_FrozenAtBuild(t *testing.T) {
	d := NewDefinition[orderState, orderEvent, order]()
	mustRegister(t, d, orderTransition{From: New, To: PaymentPending, Event: Pay})
	e := mustBuild(t, d)

	mustRegister(t, d, orderTransition{From: New, To: Shipped, Event: Ship})
	d.OnEntry(PaymentPending, func(orderState, order) { t.Fatal("hook registered after Build must not run") })

	assert.False(t, e.Verify(New, Ship))
	_, err := e.FireEvent(New, Pay, order{})
	assert.NoError(t, err)
}

func TestTable_EdgesSorted(t *testing.T) {
	d := NewDefinition[orderState, orderEvent, order]()
	mustRegister(t, d,
		orderTransition{From: PaymentPending, To: New, Event: "Cancel"},
		orderTransition{From: New, To: PaymentPending, Event: Pay},
		orderTransition{From: New, To: ManualReview, Event: Pay, Priority: 99},
		orderTransition{From: New, To: New, Event: Note, Kind: primitives.Internal},
	)
	edges := mustBuild(t, d).Table().Edges(nil)

	assert.Equal(t, []primitives.Edge{
		{From: "New", To: "New", Event: "Note", Kind: primitives.Internal},
		{From: "New", To: "PaymentPending", Event: "Pay"},
		{From: "New", To: "ManualReview", Event: "Pay"},
		{From: "PaymentPending", To: "New", Event: "Cancel"},
	}, edges)
}
