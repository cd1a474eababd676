package delivery

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/corray333/order-management/internal/service/models/money"
)

// Type is a delivery method label. Unknown or empty labels are legal and
// carry no surcharge.
type Type string

const (
	TypeSpeedPost Type = "Speed Post"
	TypeCourier   Type = "Courier Service"
)

var defaultCosts = map[Type]money.Money{
	TypeSpeedPost: money.MustFromCents(35000),
	TypeCourier:   money.MustFromCents(55000),
}

func (t Type) String() string {
	return string(t)
}

// Cost returns the delivery surcharge for the given type. The table comes
// from delivery.costs when configured, otherwise the built-in defaults.
func Cost(t Type) money.Money {
	configured := viper.GetStringMapString("delivery.costs")
	if len(configured) == 0 {
		return defaultCosts[t]
	}

	// viper lowercases map keys
	raw, ok := configured[strings.ToLower(string(t))]
	if !ok {
		return money.Zero
	}

	cost, err := money.Parse(raw)
	if err != nil {
		return money.Zero
	}

	return cost
}
