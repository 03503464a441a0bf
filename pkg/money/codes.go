package money

import "strings"

// Code represents a currency code (e.g., "INR", "USD").
type Code string

// Supported currency codes
const (
	INR Code = "INR" // Indian Rupee
	USD Code = "USD" // US Dollar
	EUR Code = "EUR" // Euro
	GBP Code = "GBP" // British Pound
	AUD Code = "AUD" // Australian Dollar
	CAD Code = "CAD" // Canadian Dollar
)

// Currency represents a monetary unit with its standard decimal places
type Currency struct {
	Code     Code // 3-letter ISO 4217 code
	Decimals int  // Number of decimal places
}

// String returns the currency code as a string
func (c Currency) String() string { return string(c.Code) }

var currencies = map[Code]Currency{
	INR: {Code: INR, Decimals: 2},
	USD: {Code: USD, Decimals: 2},
	EUR: {Code: EUR, Decimals: 2},
	GBP: {Code: GBP, Decimals: 2},
	AUD: {Code: AUD, Decimals: 2},
	CAD: {Code: CAD, Decimals: 2},
}

// DefaultCode is the currency new wallets use when none is given.
var DefaultCode = INR

// ParseCode normalizes s and returns it as a supported Code.
func ParseCode(s string) (Code, error) {
	c := Code(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsSupported() {
		return "", ErrInvalidCurrency
	}
	return c, nil
}

// Currency returns the currency definition for c.
func (c Code) Currency() (Currency, bool) {
	cur, ok := currencies[c]
	return cur, ok
}

// IsSupported reports whether c is one of the supported currencies.
func (c Code) IsSupported() bool {
	_, ok := currencies[c]
	return ok
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// SupportedCodes lists every supported currency code.
func SupportedCodes() []Code {
	return []Code{INR, USD, EUR, GBP, AUD, CAD}
}
