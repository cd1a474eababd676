package remote

import (
	"fmt"
	"log/slog"

	"github.com/corray333/order-management/internal/service/models/delivery"
	"github.com/corray333/order-management/internal/service/models/lineitem"
	"github.com/corray333/order-management/internal/service/models/money"
	"github.com/corray333/order-management/internal/service/models/order"
	"github.com/corray333/order-management/internal/service/models/payment"
	"github.com/corray333/order-management/internal/service/models/status"
)

// orderDTO mirrors the authority's wire format: amounts travel as plain
// JSON numbers and are converted to cents at this boundary.
type orderDTO struct {
	ID           int64     `json:"id,omitempty"`
	CustomerName string    `json:"customerName"`
	Address      string    `json:"address"`
	PaymentType  string    `json:"paymentType"`
	DeliveryType string    `json:"deliveryType,omitempty"`
	Status       string    `json:"status"`
	Total        *float64  `json:"total,omitempty"`
	Items        []itemDTO `json:"items"`
}

type itemDTO struct {
	Name     string  `json:"itemName"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type errorDTO struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func fromModel(o order.Order) orderDTO {
	items := make([]itemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = itemDTO{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.UnitPrice.Float64(),
		}
	}

	total := o.Total.Float64()

	return orderDTO{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Address:      o.Address,
		PaymentType:  o.PaymentType.String(),
		DeliveryType: o.DeliveryType.String(),
		Status:       o.Status.String(),
		Total:        &total,
		Items:        items,
	}
}

// toModel converts an authoritative record. The total is recomputed from
// the items; the remote-claimed total is stale display data at best and is
// only checked for a mismatch warning.
func toModel(dto orderDTO) (order.Order, error) {
	st, err := status.Parse(dto.Status)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w: %q", dto.ID, err, dto.Status)
	}

	paymentType, err := payment.Parse(dto.PaymentType)
	if err != nil {
		return order.Order{}, fmt.Errorf("order %d: %w: %q", dto.ID, err, dto.PaymentType)
	}

	items := make([]lineitem.LineItem, 0, len(dto.Items))
	for i, raw := range dto.Items {
		price, err := money.FromFloat(raw.Price)
		if err != nil {
			return order.Order{}, fmt.Errorf("order %d item %d: %w", dto.ID, i+1, err)
		}
		item, err := lineitem.New(raw.Name, raw.Quantity, price)
		if err != nil {
			return order.Order{}, fmt.Errorf("order %d item %d: %w", dto.ID, i+1, err)
		}
		items = append(items, item)
	}

	o := order.Order{
		ID:           dto.ID,
		CustomerName: dto.CustomerName,
		Address:      dto.Address,
		PaymentType:  paymentType,
		DeliveryType: delivery.Type(dto.DeliveryType),
		Items:        items,
		Status:       st,
	}
	o.RecalculateTotal()

	if dto.Total != nil {
		claimed, err := money.FromFloat(*dto.Total)
		if err == nil && claimed != o.Total {
			slog.Warn("authority total disagrees with its items",
				"order_id", dto.ID,
				"claimed", claimed.String(),
				"computed", o.Total.String(),
			)
		}
	}

	return o, nil
}
