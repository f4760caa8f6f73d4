package main

import (
	"fmt"
	"time"

	"github.com/comalice/fsmx"
)

type light string

const (
	red    light = "red"
	green  light = "green"
	yellow light = "yellow"
)

const timer = "timer"

// trafficMachine cycles red -> green -> yellow on timer. Every light carries a
// timeout so a Tracker can drive it without external events.
func trafficMachine(phase time.Duration, opts ...fsmx.Option) (*fsmx.Engine[light, string, struct{}], error) {
	b := fsmx.NewBuilder[light, string, struct{}]().ID("traffic")
	next := map[light]light{red: green, green: yellow, yellow: red}
	for _, from := range []light{red, green, yellow} {
		b.ExternalTransition().From(from).To(next[from]).On(timer).Perform(func(light, string, struct{}) {})
	}
	b.WithStateTimeout(red, 2*phase, green, timer).
		WithStateTimeout(green, 2*phase, yellow, timer).
		WithStateTimeout(yellow, phase, red, timer)
	return b.Build(opts...)
}

type orderState string

type orderEvent string

type order struct {
	ID     string
	Amount float64
}

const (
	orderNew             orderState = "New"
	orderPaymentPending  orderState = "PaymentPending"
	orderPaymentReceived orderState = "PaymentReceived"
	orderAutoApproved    orderState = "AutoApproved"
	orderProcessing      orderState = "Processing"
	orderManualReview    orderState = "ManualReview"
	orderShipped         orderState = "Shipped"
	orderCancelled       orderState = "Cancelled"

	evPay            orderEvent = "Pay"
	evConfirmPayment orderEvent = "ConfirmPayment"
	evProcess        orderEvent = "Process"
	evApprove        orderEvent = "Approve"
	evShip           orderEvent = "Ship"
	evCancel         orderEvent = "Cancel"
)

// orderMachine routes payments by amount: small orders are approved
// automatically, large ones go to manual review.
func orderMachine(opts ...fsmx.Option) (*fsmx.Engine[orderState, orderEvent, order], error) {
	below := func(limit float64) fsmx.Guard[orderState, orderEvent, order] {
		return func(_ orderState, _ orderEvent, o order) bool { return o.Amount < limit }
	}
	atLeast := func(limit float64) fsmx.Guard[orderState, orderEvent, order] {
		return fsmx.Not(below(limit))
	}
	noop := func(orderState, orderEvent, order) {}

	b := fsmx.NewBuilder[orderState, orderEvent, order]().ID("orders")
	b.ExternalTransition().From(orderNew).To(orderPaymentPending).On(evPay).Perform(noop)
	b.ExternalTransition().From(orderPaymentPending).To(orderPaymentReceived).On(evConfirmPayment).Perform(noop)
	b.ExternalTransition().From(orderPaymentReceived).To(orderAutoApproved).On(evProcess).
		When(below(100)).WithPriority(10).Perform(noop)
	b.ExternalTransition().From(orderPaymentReceived).To(orderProcessing).On(evProcess).
		When(fsmx.All(atLeast(100), below(1000))).WithPriority(20).Perform(noop)
	b.ExternalTransition().From(orderPaymentReceived).To(orderManualReview).On(evProcess).
		When(atLeast(1000)).WithPriority(30).Perform(noop)
	b.ExternalTransitions().FromAmong(orderAutoApproved, orderManualReview).To(orderProcessing).On(evApprove).Perform(noop)
	b.ExternalTransition().From(orderProcessing).To(orderShipped).On(evShip).Perform(noop)
	b.ExternalTransitions().FromAmong(orderNew, orderPaymentPending, orderPaymentReceived, orderManualReview).
		To(orderCancelled).On(evCancel).Perform(noop)
	return b.Build(opts...)
}

// exportable is what the export command needs from a machine.
type exportable interface {
	ToDOT() string
	ToPlantUML() string
	Describe() fsmx.Description
}

func buildExportable(name string) (exportable, error) {
	switch name {
	case "orders":
		return orderMachine()
	case "traffic":
		return trafficMachine(time.Second)
	default:
		return nil, fmt.Errorf("unknown machine %q: want orders or traffic", name)
	}
}
