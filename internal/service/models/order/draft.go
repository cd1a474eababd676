package order

import (
	"strings"

	"github.com/corray333/order-management/internal/service/models/delivery"
	"github.com/corray333/order-management/internal/service/models/lineitem"
	"github.com/corray333/order-management/internal/service/models/money"
	"github.com/corray333/order-management/internal/service/models/payment"
	"github.com/corray333/order-management/internal/service/models/status"
)

// ItemInput is the raw, unvalidated form of one line item.
type ItemInput struct {
	Name     string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// DraftInput is the raw form data for a new order.
type DraftInput struct {
	CustomerName string      `json:"customerName"`
	Address      string      `json:"address"`
	PaymentType  string      `json:"paymentType"`
	DeliveryType string      `json:"deliveryType,omitempty"`
	Items        []ItemInput `json:"items"`
}

// ComposeDraft validates raw input and assembles a draft order. Validation
// is eager and collected: every rule is evaluated and all violations come
// back at once, so the caller can report every problem in a single pass.
// On success the draft has no id, status forced to Pending, and the total
// computed from the items. ComposeDraft has no side effects.
func ComposeDraft(in DraftInput) (Order, Violations) {
	var violations Violations

	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		violations = violations.add("customerName", 0, "customer name is required")
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		violations = violations.add("address", 0, "address is required")
	}

	paymentType, err := payment.Parse(in.PaymentType)
	if err != nil {
		violations = violations.add("paymentType", 0, "unknown payment type: "+in.PaymentType)
	}

	items := make([]lineitem.LineItem, 0, len(in.Items))
	if len(in.Items) == 0 {
		violations = violations.add("items", 0, "order must contain at least one item")
	}

	for i, raw := range in.Items {
		pos := i + 1
		ok := true

		if strings.TrimSpace(raw.Name) == "" {
			violations = violations.add("itemName", pos, "item name is required")
			ok = false
		}
		if raw.Quantity < 1 {
			violations = violations.add("quantity", pos, "quantity must be at least 1")
			ok = false
		}

		price, err := money.FromFloat(raw.Price)
		if err != nil {
			violations = violations.add("price", pos, "price cannot be negative")
			ok = false
		}

		if !ok {
			continue
		}

		item, err := lineitem.New(raw.Name, raw.Quantity, price)
		if err != nil {
			violations = violations.add("items", pos, err.Error())

			continue
		}
		items = append(items, item)
	}

	if len(violations) > 0 {
		return Order{}, violations
	}

	draft := Order{
		CustomerName: customerName,
		Address:      address,
		PaymentType:  paymentType,
		DeliveryType: delivery.Type(strings.TrimSpace(in.DeliveryType)),
		Items:        items,
		Status:       status.Pending,
	}
	draft.RecalculateTotal()

	return draft, nil
}
