// Package fixedpoint converts between human-scale decimal quantities and the
// venue-scale integers the matching engine operates on. All monetary and size
// fields cross this boundary in both directions.
package fixedpoint

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by venue-scale integers.
const Decimals = 18

// InvalidNumericLiteralError is returned when a textual numeric value cannot
// be parsed. Malformed input is never coerced to a default.
type InvalidNumericLiteralError struct {
	Value string
}

func (e *InvalidNumericLiteralError) Error() string {
	return fmt.Sprintf("invalid numeric literal %q", e.Value)
}

// ToScaled converts a decimal quantity to a venue-scale integer by shifting
// 18 digits and truncating. Digits past the 18th fractional place are
// discarded, not rounded.
func ToScaled(d decimal.Decimal) *big.Int {
	return d.Shift(Decimals).Truncate(0).BigInt()
}

// FromScaled converts a venue-scale integer back to a decimal quantity.
// The conversion is exact: FromScaled(ToScaled(x)) == x for any x with at
// most 18 fractional digits.
func FromScaled(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -Decimals)
}

// ParseDecimal parses a human-scale decimal literal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &InvalidNumericLiteralError{Value: s}
	}
	return d, nil
}

// ParseScaled parses a venue-scale integer literal and converts it to a
// decimal quantity. Inbound event payloads carry all numeric fields in this
// form.
func ParseScaled(s string) (decimal.Decimal, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return decimal.Decimal{}, &InvalidNumericLiteralError{Value: s}
	}
	return FromScaled(v), nil
}

// ExceedsScale reports whether d carries more than 18 fractional digits and
// would therefore lose precision when converted with ToScaled.
func ExceedsScale(d decimal.Decimal) bool {
	return d.Exponent() < -Decimals && !d.Equal(d.Truncate(Decimals))
}
