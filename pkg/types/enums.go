package types

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// EventType distinguishes full snapshots from incremental updates on
// subscription streams.
type EventType string

const (
	EventTypeSnapshot EventType = "SNAPSHOT"
	EventTypeUpdate   EventType = "UPDATE"
)

// OrderDirection is the side of an order.
type OrderDirection string

const (
	Buy  OrderDirection = "BUY"
	Sell OrderDirection = "SELL"
)

// PriceLevelDirection marks a book level as bid or ask.
type PriceLevelDirection string

const (
	Bid PriceLevelDirection = "BID"
	Ask PriceLevelDirection = "ASK"
)

// OrderStatus is the venue-reported lifecycle state of a resting order.
type OrderStatus string

const (
	OrderStatusOpen             OrderStatus = "OPEN"
	OrderStatusPartiallyMatched OrderStatus = "PARTIALLY_MATCHED"
	OrderStatusMatched          OrderStatus = "MATCHED"
	OrderStatusPartiallyFilled  OrderStatus = "PARTIALLY_FILLED"
	OrderStatusFilled           OrderStatus = "FILLED"
	OrderStatusCanceled         OrderStatus = "CANCELED"
	OrderStatusUnfillable       OrderStatus = "UNFILLABLE"
	OrderStatusExpired          OrderStatus = "EXPIRED"
	OrderStatusRejected         OrderStatus = "REJECTED"
	OrderStatusFailed           OrderStatus = "FAILED"
)

// OrderType is the order kind.
type OrderType string

const (
	Market OrderType = "MARKET"
	Limit  OrderType = "LIMIT"
)

// RewardsTier is the account fee tier.
type RewardsTier string

const (
	TierBase RewardsTier = "TIER_BASE"
	Tier1    RewardsTier = "TIER_1"
	Tier2    RewardsTier = "TIER_2"
	Tier3    RewardsTier = "TIER_3"
	Tier4    RewardsTier = "TIER_4"
)

// BaseCurrency is the settlement currency of a market.
type BaseCurrency string

const (
	ETH  BaseCurrency = "ETH"
	USDC BaseCurrency = "USDC"
)

// TimeInForce selects order expiry semantics.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	GTD TimeInForce = "GTD"
)

// SignatureType tags how an order signature was produced. Client-side
// signing always reports Direct; the remaining values exist for wire
// compatibility with venue-managed signing keys and EIP-1271 contracts.
type SignatureType string

const (
	SignatureDirect           SignatureType = "DIRECT"
	SignatureSigningKey       SignatureType = "SIGNING_KEY"
	SignatureSigningKeyCached SignatureType = "SIGNING_KEY_CACHED"
	SignatureEIP1271          SignatureType = "EIP1271"
)

// TransferType classifies a subaccount ledger entry.
type TransferType string

const (
	TransferTypeTransfer    TransferType = "TRANSFER"
	TransferTypeTrade       TransferType = "TRADE"
	TransferTypeFunding     TransferType = "FUNDING"
	TransferTypeSettlement  TransferType = "SETTLEMENT"
	TransferTypeLiquidation TransferType = "LIQUIDATION"
)

var (
	eventTypes = enumSet(EventTypeSnapshot, EventTypeUpdate)
	directions = enumSet(Buy, Sell)
	levelDirs  = enumSet(Bid, Ask)
	statuses   = enumSet(OrderStatusOpen, OrderStatusPartiallyMatched, OrderStatusMatched,
		OrderStatusPartiallyFilled, OrderStatusFilled, OrderStatusCanceled,
		OrderStatusUnfillable, OrderStatusExpired, OrderStatusRejected, OrderStatusFailed)
	orderTypes    = enumSet(Market, Limit)
	rewardsTiers  = enumSet(TierBase, Tier1, Tier2, Tier3, Tier4)
	currencies    = enumSet(ETH, USDC)
	transferTypes = enumSet(TransferTypeTransfer, TransferTypeTrade, TransferTypeFunding,
		TransferTypeSettlement, TransferTypeLiquidation)
)

func enumSet[T ~string](values ...T) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[string(v)] = true
	}
	return set
}

func unmarshalEnum(b []byte, valid map[string]bool, name string) (string, error) {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return "", fmt.Errorf("invalid %s %s", name, string(b))
	}
	if !valid[s] {
		return "", fmt.Errorf("invalid %s %q", name, s)
	}
	return s, nil
}

func (e *EventType) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, eventTypes, "eventType")
	if err != nil {
		return err
	}
	*e = EventType(s)
	return nil
}

func (d *OrderDirection) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, directions, "direction")
	if err != nil {
		return err
	}
	*d = OrderDirection(s)
	return nil
}

func (d *PriceLevelDirection) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, levelDirs, "direction")
	if err != nil {
		return err
	}
	*d = PriceLevelDirection(s)
	return nil
}

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	v, err := unmarshalEnum(b, statuses, "status")
	if err != nil {
		return err
	}
	*s = OrderStatus(v)
	return nil
}

func (o *OrderType) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, orderTypes, "orderType")
	if err != nil {
		return err
	}
	*o = OrderType(s)
	return nil
}

func (r *RewardsTier) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, rewardsTiers, "tier")
	if err != nil {
		return err
	}
	*r = RewardsTier(s)
	return nil
}

func (c *BaseCurrency) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, currencies, "baseCurrency")
	if err != nil {
		return err
	}
	*c = BaseCurrency(s)
	return nil
}

func (tt *TransferType) UnmarshalJSON(b []byte) error {
	s, err := unmarshalEnum(b, transferTypes, "transferType")
	if err != nil {
		return err
	}
	*tt = TransferType(s)
	return nil
}
