// Package money provides functionality for handling monetary values.
//
// It is a value object that represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., paise for INR).
//   - Currency must be one of the supported ISO 4217 codes.
//   - All arithmetic operations require matching currencies.
//   - Amounts are never represented as binary floating point.
package money

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// maxSafeDigits is the number of decimal digits of math.MaxInt64.
const maxSafeDigits = 19

// Amount represents a monetary amount as an integer in the
// smallest currency unit (e.g., cents for USD).
type Amount = int64

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   Amount
	currency Currency
}

// Zero returns a zero amount in the given currency.
func Zero(code Code) Money {
	c, ok := code.Currency()
	if !ok {
		c = Currency{Code: code, Decimals: 2}
	}
	return Money{currency: c}
}

// Parse converts a decimal string such as "70.50" into Money.
// Invariants enforced:
//   - Currency must be supported.
//   - Amount must not have more fraction digits than the currency allows.
//   - Amount must fit in an int64 of smallest units.
func Parse(amount string, code Code) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return NewFromDecimal(d, code)
}

// NewFromDecimal converts an exact decimal value into Money.
func NewFromDecimal(d decimal.Decimal, code Code) (Money, error) {
	c, ok := code.Currency()
	if !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	if d.IsZero() {
		return Money{currency: c}, nil
	}
	// Bound the magnitude from digits and exponent before any rescaling, so
	// inputs like "1e30000000" fail without building huge integers.
	digits := int64(d.NumDigits())
	exp := int64(d.Exponent()) + int64(c.Decimals)
	if digits+exp > maxSafeDigits {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	if -exp >= digits {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places",
			ErrInvalidAmount, d.String(), c.Decimals)
	}
	scaled := d.Shift(int32(c.Decimals))
	if !scaled.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places",
			ErrInvalidAmount, d.String(), c.Decimals)
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) ||
		scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: scaled.IntPart(), currency: c}, nil
}

// NewFromSmallestUnit creates Money from an amount already expressed in the
// smallest currency unit. Used for repository hydration.
func NewFromSmallestUnit(amount int64, code Code) (Money, error) {
	c, ok := code.Currency()
	if !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}
	return Money{amount: amount, currency: c}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(amount string, code Code) Money {
	m, err := Parse(amount, code)
	if err != nil {
		panic(fmt.Sprintf("money.MustParse(%q, %s): %v", amount, code, err))
	}
	return m
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() Amount {
	return m.amount
}

// Decimal returns the amount in the main currency unit as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -int32(m.currency.Decimals))
}

// Currency returns the currency of the Money object.
func (m Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code of the Money object.
func (m Money) CurrencyCode() Code {
	return m.currency.Code
}

// IsSameCurrency checks if both values have the same currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// Add returns the sum of both amounts.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, fmt.Errorf("%w: %s and %s", ErrMismatchedCurrencies,
			m.currency.Code, other.currency.Code)
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract returns the difference of both amounts.
// The result can be negative if the subtrahend is larger than the minuend.
func (m Money) Subtract(other Money) (Money, error) {
	return m.Add(other.Negate())
}

// Negate returns the value with the opposite sign.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Equals checks if both values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// GreaterThan checks if m is greater than other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrMismatchedCurrencies
	}
	return m.amount > other.amount, nil
}

// LessThan checks if m is less than other.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, ErrMismatchedCurrencies
	}
	return m.amount < other.amount, nil
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Format returns the amount in the main currency unit with the currency's
// fixed number of decimals, e.g. "70.00".
func (m Money) Format() string {
	return m.Decimal().StringFixed(int32(m.currency.Decimals))
}

// String returns a string representation such as "70.00 INR".
func (m Money) String() string {
	return m.Format() + " " + string(m.currency.Code)
}

// MarshalJSON encodes Money as {"amount":"70.00","currency":"INR"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency Code   `json:"currency"`
	}{
		Amount:   m.Format(),
		Currency: m.currency.Code,
	})
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var aux struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	parsed, err := Parse(aux.Amount, Code(aux.Currency))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
