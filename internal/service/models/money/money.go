package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a non-negative amount denominated in cents. Arithmetic stays in
// integer cents; decimal values only appear when crossing a boundary.
type Money struct {
	cents int64
}

var ErrNegativeAmount = errors.New("money amount cannot be negative")

// Zero is the additive identity.
var Zero = Money{}

// FromCents creates a Money from an amount in cents.
func FromCents(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}

	return Money{cents: cents}, nil
}

// MustFromCents is FromCents that panics on a negative amount. Intended for
// constants and tests.
func MustFromCents(cents int64) Money {
	m, err := FromCents(cents)
	if err != nil {
		panic(err)
	}

	return m
}

// FromDecimal converts a decimal amount, rounding half-up to 2 places.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}

	return Money{cents: d.Round(2).Shift(2).IntPart()}, nil
}

// FromFloat converts a wire-level float amount. The float never takes part
// in arithmetic, it is rounded to cents immediately.
func FromFloat(f float64) (Money, error) {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Parse parses a decimal string such as "11.75".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money amount %q: %w", s, err)
	}

	return FromDecimal(d)
}

// Cents returns the amount in cents.
func (m Money) Cents() int64 {
	return m.cents
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{cents: m.cents + o.cents}
}

// MulInt returns the amount multiplied by a non-negative integer factor.
func (m Money) MulInt(n int64) Money {
	return Money{cents: m.cents * n}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Decimal returns the amount as a decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// Float64 returns the amount for wire DTOs that carry plain JSON numbers.
func (m Money) Float64() float64 {
	return m.Decimal().InexactFloat64()
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON emits the amount as a plain JSON number with two fractional
// digits, matching the authority's wire format.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}
