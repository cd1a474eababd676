package order

import (
	"fmt"
	"strings"
)

// Violation is one validation failure. Item is the 1-based position of the
// offending line item, or 0 for order-level fields.
type Violation struct {
	Field   string `json:"field"`
	Item    int    `json:"item,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Item > 0 {
		return fmt.Sprintf("item %d: %s", v.Item, v.Message)
	}

	return v.Message
}

// Violations is the full list of problems found in one validation pass.
// It implements error so it can flow through the usual error paths while
// staying inspectable with errors.As.
type Violations []Violation

func (vs Violations) add(field string, item int, message string) Violations {
	return append(vs, Violation{Field: field, Item: item, Message: message})
}

func (vs Violations) Error() string {
	if len(vs) == 0 {
		return "validation failed"
	}

	msgs := make([]string, len(vs))
	for i, v := range vs {
		msgs[i] = v.String()
	}

	return "validation failed: " + strings.Join(msgs, "; ")
}
