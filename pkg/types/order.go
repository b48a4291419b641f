package types

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/hook-xyz/odyssey-go/pkg/fixedpoint"
)

// OrderParams are the caller-facing inputs for building an order. Decimal
// fields are human scale; conversion to venue scale happens in the
// constructor.
type OrderParams struct {
	MarketHash     string
	InstrumentHash string
	Subaccount     uint64
	OrderType      OrderType
	Direction      OrderDirection
	Size           decimal.Decimal
	LimitPrice     *decimal.Decimal // required iff OrderType == Limit
	VolatilityBips *int32
	TimeInForce    TimeInForce
	Expiration     *int64 // unix seconds
	Nonce          uint64
	PostOnly       bool
	ReduceOnly     bool
}

// PlaceOrderInput is a validated, venue-scale order request. Build it with
// NewPlaceOrderInput and treat it as immutable afterwards: the signature is
// computed over exactly these fields, and a mutated order must be re-signed.
type PlaceOrderInput struct {
	MarketHash     string
	InstrumentHash string
	Subaccount     uint64
	OrderType      OrderType
	Direction      OrderDirection
	Size           *big.Int // venue scale
	LimitPrice     *big.Int // venue scale, nil for market orders
	VolatilityBips *int32
	TimeInForce    TimeInForce
	Expiration     *int64
	Nonce          uint64
	PostOnly       bool
	ReduceOnly     bool
}

// NewPlaceOrderInput validates params and converts decimal fields to venue
// scale. Precision or type mismatches fail here rather than producing a
// silently wrong order.
func NewPlaceOrderInput(p OrderParams) (*PlaceOrderInput, error) {
	if err := validateHash("marketHash", p.MarketHash); err != nil {
		return nil, err
	}
	if err := validateHash("instrumentHash", p.InstrumentHash); err != nil {
		return nil, err
	}

	switch p.Direction {
	case Buy, Sell:
	default:
		return nil, fmt.Errorf("invalid direction %q", string(p.Direction))
	}

	switch p.TimeInForce {
	case GTC, GTD:
	default:
		return nil, fmt.Errorf("invalid timeInForce %q", string(p.TimeInForce))
	}

	if !p.Size.IsPositive() {
		return nil, fmt.Errorf("size must be positive, got %s", p.Size)
	}
	if fixedpoint.ExceedsScale(p.Size) {
		return nil, fmt.Errorf("size %s exceeds %d fractional digits", p.Size, fixedpoint.Decimals)
	}

	order := &PlaceOrderInput{
		MarketHash:     p.MarketHash,
		InstrumentHash: p.InstrumentHash,
		Subaccount:     p.Subaccount,
		OrderType:      p.OrderType,
		Direction:      p.Direction,
		Size:           fixedpoint.ToScaled(p.Size),
		VolatilityBips: p.VolatilityBips,
		TimeInForce:    p.TimeInForce,
		Expiration:     p.Expiration,
		Nonce:          p.Nonce,
		PostOnly:       p.PostOnly,
		ReduceOnly:     p.ReduceOnly,
	}

	switch p.OrderType {
	case Limit:
		if p.LimitPrice == nil {
			return nil, fmt.Errorf("limit order requires a limit price")
		}
		if !p.LimitPrice.IsPositive() {
			return nil, fmt.Errorf("limit price must be positive, got %s", p.LimitPrice)
		}
		if fixedpoint.ExceedsScale(*p.LimitPrice) {
			return nil, fmt.Errorf("limit price %s exceeds %d fractional digits", p.LimitPrice, fixedpoint.Decimals)
		}
		order.LimitPrice = fixedpoint.ToScaled(*p.LimitPrice)
	case Market:
		if p.LimitPrice != nil {
			return nil, fmt.Errorf("market order cannot carry a limit price")
		}
	default:
		return nil, fmt.Errorf("invalid orderType %q", string(p.OrderType))
	}

	if p.Expiration != nil && *p.Expiration < 0 {
		return nil, fmt.Errorf("expiration must be non-negative, got %d", *p.Expiration)
	}

	return order, nil
}

// MarshalJSON emits the orderInput shape fixed by the venue: numeric fields
// as decimal strings, optional fields omitted when absent.
func (o *PlaceOrderInput) MarshalJSON() ([]byte, error) {
	type wire struct {
		MarketHash     string `json:"marketHash"`
		InstrumentHash string `json:"instrumentHash"`
		Subaccount     string `json:"subaccount"`
		OrderType      string `json:"orderType"`
		Direction      string `json:"direction"`
		Size           string `json:"size"`
		LimitPrice     string `json:"limitPrice,omitempty"`
		VolatilityBips *int32 `json:"volatilityBips,omitempty"`
		TimeInForce    string `json:"timeInForce"`
		Expiration     *int64 `json:"expiration,omitempty"`
		Nonce          string `json:"nonce"`
		PostOnly       bool   `json:"postOnly"`
		ReduceOnly     bool   `json:"reduceOnly"`
	}

	w := wire{
		MarketHash:     o.MarketHash,
		InstrumentHash: o.InstrumentHash,
		Subaccount:     strconv.FormatUint(o.Subaccount, 10),
		OrderType:      string(o.OrderType),
		Direction:      string(o.Direction),
		Size:           o.Size.String(),
		VolatilityBips: o.VolatilityBips,
		TimeInForce:    string(o.TimeInForce),
		Expiration:     o.Expiration,
		Nonce:          strconv.FormatUint(o.Nonce, 10),
		PostOnly:       o.PostOnly,
		ReduceOnly:     o.ReduceOnly,
	}
	if o.LimitPrice != nil {
		w.LimitPrice = o.LimitPrice.String()
	}

	return json.Marshal(w)
}

func validateHash(field, value string) error {
	b, err := hexutil.Decode(value)
	if err != nil || len(b) != 32 {
		return fmt.Errorf("%s must be a 0x-prefixed 32-byte hash, got %q", field, value)
	}
	return nil
}
