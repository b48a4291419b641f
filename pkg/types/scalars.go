package types

import (
	"math/big"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/hook-xyz/odyssey-go/pkg/fixedpoint"
)

// ScaledDecimal is a decimal quantity carried on the wire as a venue-scale
// integer (10^18 fixed point), usually quoted as a string. Decoding converts
// back to human scale; malformed values fail loudly rather than defaulting.
type ScaledDecimal struct {
	decimal.Decimal
}

func (d *ScaledDecimal) UnmarshalJSON(b []byte) error {
	v, err := fixedpoint.ParseScaled(unquote(b))
	if err != nil {
		return err
	}
	d.Decimal = v
	return nil
}

func (d ScaledDecimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(fixedpoint.ToScaled(d.Decimal).String())
}

// BigInt is an arbitrary-precision integer quoted as a string on the wire
// (the venue's BigInt scalar).
type BigInt struct {
	big.Int
}

func (v *BigInt) UnmarshalJSON(b []byte) error {
	s := unquote(b)
	if _, ok := v.SetString(s, 10); !ok {
		return &fixedpoint.InvalidNumericLiteralError{Value: s}
	}
	return nil
}

func (v BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// unquote strips the quotes from a JSON string token. Bare numeric tokens
// pass through untouched, since the venue is inconsistent about quoting
// integer scalars.
func unquote(b []byte) string {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return string(b[1 : len(b)-1])
	}
	return string(b)
}
