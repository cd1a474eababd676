package lineitem

import (
	"errors"
	"strings"

	"github.com/corray333/order-management/internal/service/models/money"
)

// LineItem represents one ordered product within an order. It is mutable
// only while a draft is being composed; once the order is submitted the
// item is never changed in place.
type LineItem struct {
	Name      string      `json:"itemName"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Money `json:"price"`
}

var (
	ErrEmptyName       = errors.New("item name is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// New creates a line item. The name is trimmed and must be non-empty, the
// quantity must be a positive integer.
func New(name string, quantity int, unitPrice money.Money) (LineItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, ErrEmptyName
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}

	return LineItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

// Subtotal returns unit price times quantity.
func (i LineItem) Subtotal() money.Money {
	return i.UnitPrice.MulInt(int64(i.Quantity))
}
