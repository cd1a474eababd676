package payment

import (
	"errors"

	"github.com/spf13/viper"
)

// Type is a payment method label. The legal set is deployment
// configuration, not a compiled-in constant.
type Type string

const (
	TypeCash         Type = "Cash"
	TypeCard         Type = "Card"
	TypeUPI          Type = "UPI"
	TypeBankTransfer Type = "Bank Transfer"
	TypeCOD          Type = "COD"
)

var ErrInvalidPaymentType = errors.New("invalid payment type")

var defaultTypes = []Type{TypeCash, TypeCard, TypeUPI, TypeBankTransfer, TypeCOD}

func (t Type) String() string {
	return string(t)
}

// Allowed returns the legal payment types, from order.payment_types when
// configured, otherwise the built-in default set.
func Allowed() []Type {
	configured := viper.GetStringSlice("order.payment_types")
	if len(configured) == 0 {
		return defaultTypes
	}

	types := make([]Type, 0, len(configured))
	for _, s := range configured {
		types = append(types, Type(s))
	}

	return types
}

// Parse validates a payment type against the allowed set.
func Parse(s string) (Type, error) {
	for _, t := range Allowed() {
		if s == t.String() {
			return t, nil
		}
	}

	return "", ErrInvalidPaymentType
}
