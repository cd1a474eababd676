package order

import (
	"encoding/json"
	"time"

	"github.com/corray333/order-management/internal/service/models/delivery"
	"github.com/corray333/order-management/internal/service/models/lineitem"
	"github.com/corray333/order-management/internal/service/models/money"
	"github.com/corray333/order-management/internal/service/models/payment"
	"github.com/corray333/order-management/internal/service/models/status"
)

// Order is the aggregate of customer metadata, a non-empty sequence of line
// items, a status, and the total derived from the items. The total is never
// taken from a caller; it is always recomputed from the items.
type Order struct {
	ID           int64               `json:"id"`
	CustomerName string              `json:"customerName"`
	Address      string              `json:"address"`
	PaymentType  payment.Type        `json:"paymentType"`
	DeliveryType delivery.Type       `json:"deliveryType,omitempty"`
	Items        []lineitem.LineItem `json:"items"`
	Status       status.Status       `json:"status"`
	Total        money.Money         `json:"total"`
	CreatedAt    time.Time           `json:"createdAt,omitzero"`
	UpdatedAt    time.Time           `json:"updatedAt,omitzero"`
}

// IsDraft reports whether the order has not yet been accepted by the
// authority. The authority assigns ids starting from 1.
func (o Order) IsDraft() bool {
	return o.ID == 0
}

// SumItems computes the invariant-defined total of an item sequence.
func SumItems(items []lineitem.LineItem) money.Money {
	total := money.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}

	return total
}

// RecalculateTotal restores the total invariant after the items changed.
func (o *Order) RecalculateTotal() {
	o.Total = SumItems(o.Items)
}

// DeliveryCost returns the configured surcharge for the order's delivery
// type. It is display data on top of the total, never folded into it.
func (o Order) DeliveryCost() money.Money {
	return delivery.Cost(o.DeliveryType)
}

// GrandTotal is the item total plus the delivery surcharge.
func (o Order) GrandTotal() money.Money {
	return o.Total.Add(o.DeliveryCost())
}

// MarshalJSON augments the wire shape with the derived delivery cost and
// grand total, read-only fields the presentation layer displays but never
// sends back.
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order

	return json.Marshal(struct {
		plain
		DeliveryCost money.Money `json:"deliveryCost"`
		GrandTotal   money.Money `json:"grandTotal"`
	}{
		plain:        plain(o),
		DeliveryCost: o.DeliveryCost(),
		GrandTotal:   o.GrandTotal(),
	})
}

// Transition returns a copy of the order with the new status if the edge is
// in the workflow table. Items and total are untouched. The receiver is
// never mutated.
func (o Order) Transition(to status.Status) (Order, error) {
	if !status.CanTransition(o.Status, to) {
		return Order{}, &status.InvalidTransitionError{From: o.Status, To: to}
	}

	next := o
	next.Status = to

	return next, nil
}

// Clone returns a deep copy so cache consumers cannot alias the canonical
// item slice.
func (o Order) Clone() Order {
	clone := o
	clone.Items = make([]lineitem.LineItem, len(o.Items))
	copy(clone.Items, o.Items)

	return clone
}
