package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits every amount is kept at.
const MoneyScale = 4

// maxMoney is the largest magnitude representable as a signed 64-bit count
// of 1/10000 units.
var maxMoney = decimal.New(math.MaxInt64, -MoneyScale)

// maxIntegerDigits is the number of integer digits in maxMoney.
const maxIntegerDigits = 15

// Money is an exact decimal amount with a fixed scale of four fractional digits.
// The zero value is zero.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// NewMoney builds an amount from an integer count of the smallest unit (1/10000).
func NewMoney(units int64) Money {
	return Money{d: decimal.New(units, -MoneyScale)}
}

// ParseMoney parses a decimal string. Values with more than four significant
// fractional digits or outside the representable range are rejected.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}

	if d.IsZero() {
		return Zero, nil
	}

	// Rescaling costs grow with the exponent, so bound the magnitude by
	// digit count before comparing or rounding anything.
	digits := int64(d.NumDigits())
	exp := int64(d.Exponent())
	if digits+exp > maxIntegerDigits {
		return Money{}, fmt.Errorf("%w: %q", ErrMoneyOverflow, s)
	}
	if -exp-MoneyScale >= digits {
		return Money{}, fmt.Errorf("%w: %q", ErrMoneyPrecision, s)
	}

	if d.Abs().GreaterThan(maxMoney) {
		return Money{}, fmt.Errorf("%w: %q", ErrMoneyOverflow, s)
	}

	if !d.Round(MoneyScale).Equal(d) {
		return Money{}, fmt.Errorf("%w: %q", ErrMoneyPrecision, s)
	}

	return Money{d: d}, nil
}

// MustParseMoney is like ParseMoney but panics on error.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other, or ErrMoneyOverflow.
func (m Money) Add(other Money) (Money, error) {
	return checked(m.d.Add(other.d))
}

// Sub returns m - other, or ErrMoneyOverflow.
func (m Money) Sub(other Money) (Money, error) {
	return checked(m.d.Sub(other.d))
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{d: m.d.Neg()}
}

func checked(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThan(maxMoney) {
		return Money{}, fmt.Errorf("%w: %s", ErrMoneyOverflow, d.String())
	}
	return Money{d: d}, nil
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.d.Cmp(other.d)
}

// Equal reports whether m and other are the same amount.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String renders the amount with exactly four fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(MoneyScale)
}
