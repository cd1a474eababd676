package status

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Status is an order fulfillment state.
type Status string

const (
	Pending   Status = "Pending"
	Shipped   Status = "Shipped"
	Finished  Status = "Finished"
	Cancelled Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// InvalidTransitionError reports a status edge that is not in the
// transition table.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// transitions is the full edge table. Terminal states have no outgoing
// edges; self-transitions are not listed and therefore illegal.
var transitions = map[Status][]Status{
	Pending:   {Shipped, Cancelled},
	Shipped:   {Finished, Cancelled},
	Finished:  {},
	Cancelled: {},
}

func (s Status) String() string {
	return string(s)
}

// Label returns the presentation label for the status. Deployments may
// rename the Finished state (e.g. "Delivered") via order.finished_label.
func (s Status) Label() string {
	if s == Finished {
		if label := viper.GetString("order.finished_label"); label != "" {
			return label
		}
	}

	return string(s)
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// All returns every known status in lifecycle order.
func All() []Status {
	return []Status{Pending, Shipped, Finished, Cancelled}
}

// Parse validates a status label. The configured Finished label is accepted
// as an alias and normalized to the canonical value.
func Parse(s string) (Status, error) {
	for _, known := range All() {
		if s == known.String() || s == known.Label() {
			return known, nil
		}
	}

	return "", ErrInvalidStatus
}

// CanTransition is a pure lookup in the transition table.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
