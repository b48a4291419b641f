// Package types defines the wire model shared by the query and subscription
// surfaces: inbound events decoded from venue scale at the boundary, the
// outbound order input, and the signature envelope.
package types

import "errors"

// ErrAPIKeyRequired is returned by account-scoped operations when the client
// was constructed without an API key.
var ErrAPIKeyRequired = errors.New("api key required")

// TickerEvent is a last-price tick for one symbol.
type TickerEvent struct {
	Price     ScaledDecimal `json:"price"`
	Timestamp int64         `json:"timestamp"`
}

// StatisticsEvent carries funding statistics for one symbol.
type StatisticsEvent struct {
	EventType        EventType `json:"eventType"`
	Timestamp        int64     `json:"timestamp"`
	FundingRateBips  int64     `json:"fundingRateBips"`
	NextFundingEpoch int64     `json:"nextFundingEpoch"`
}

// Instrument identifies one tradeable instrument, optionally with its
// current mark price.
type Instrument struct {
	ID        string         `json:"id"`
	MarkPrice *ScaledDecimal `json:"markPrice"`
}

// BBOEvent is a best-bid-offer update across a symbol's instruments.
type BBOEvent struct {
	EventType   EventType    `json:"eventType"`
	Timestamp   int64        `json:"timestamp"`
	Instruments []Instrument `json:"instruments"`
}

// PriceLevel is one side/price/size entry of an order book.
type PriceLevel struct {
	Direction PriceLevelDirection `json:"direction"`
	Size      ScaledDecimal       `json:"size"`
	Price     ScaledDecimal       `json:"price"`
}

// OrderbookEvent is a book snapshot or incremental update for one instrument.
type OrderbookEvent struct {
	EventType EventType    `json:"eventType"`
	Timestamp int64        `json:"timestamp"`
	BidLevels []PriceLevel `json:"bidLevels"`
	AskLevels []PriceLevel `json:"askLevels"`
}

// OpenOrder is one of the caller's resting orders as reported by the venue.
type OpenOrder struct {
	Instrument    Instrument     `json:"instrument"`
	Direction     OrderDirection `json:"direction"`
	Size          ScaledDecimal  `json:"size"`
	RemainingSize ScaledDecimal  `json:"remainingSize"`
	OrderHash     string         `json:"orderHash"`
	Status        OrderStatus    `json:"status"`
	OrderType     OrderType      `json:"orderType"`
	LimitPrice    *ScaledDecimal `json:"limitPrice"`
}

// SubaccountOrderEvent reports the open orders of one subaccount.
type SubaccountOrderEvent struct {
	EventType EventType   `json:"eventType"`
	Orders    []OpenOrder `json:"orders"`
}

// Balance is one subaccount asset balance.
type Balance struct {
	Subaccount   BigInt        `json:"subaccount"`
	SubaccountID int64         `json:"subaccountID"`
	Balance      ScaledDecimal `json:"balance"`
	AssetName    string        `json:"assetName"`
}

// SubaccountBalanceEvent reports balances across an address's subaccounts.
type SubaccountBalanceEvent struct {
	EventType EventType `json:"eventType"`
	Balances  []Balance `json:"balances"`
}

// Position is one open position of a subaccount.
type Position struct {
	Instrument  Instrument    `json:"instrument"`
	Subaccount  BigInt        `json:"subaccount"`
	MarketHash  string        `json:"marketHash"`
	SizeHeld    ScaledDecimal `json:"sizeHeld"`
	IsLong      bool          `json:"isLong"`
	AverageCost ScaledDecimal `json:"averageCost"`
}

// SubaccountPositionEvent reports positions across an address's subaccounts.
type SubaccountPositionEvent struct {
	EventType EventType  `json:"eventType"`
	Positions []Position `json:"positions"`
}

// PerpetualPair is the static metadata for one perpetual market.
type PerpetualPair struct {
	MarketHash            string        `json:"marketHash"`
	InstrumentHash        string        `json:"instrumentHash"`
	Symbol                string        `json:"symbol"`
	BaseCurrency          BaseCurrency  `json:"baseCurrency"`
	MinOrderSize          ScaledDecimal `json:"minOrderSize"`
	MaxOrderSize          ScaledDecimal `json:"maxOrderSize"`
	MinOrderSizeIncrement ScaledDecimal `json:"minOrderSizeIncrement"`
	MinPriceIncrement     ScaledDecimal `json:"minPriceIncrement"`
	InitialMarginBips     int64         `json:"initialMarginBips"`
	PreferredSubaccount   int64         `json:"preferredSubaccount"`
	Subaccount            *BigInt       `json:"subaccount"`
}

// AccountDetails is the caller's fee tier information.
type AccountDetails struct {
	Tier         RewardsTier `json:"tier"`
	MakerFeeBips int64       `json:"makerFeeBips"`
	TakerFeeBips int64       `json:"takerFeeBips"`
}

// TransferHistoryItem is one subaccount ledger entry.
type TransferHistoryItem struct {
	TransactionHash string        `json:"transactionHash"`
	Name            string        `json:"name"`
	Symbol          string        `json:"symbol"`
	Type            TransferType  `json:"type"`
	Subaccount      BigInt        `json:"subaccount"`
	Amount          ScaledDecimal `json:"amount"`
	Price           ScaledDecimal `json:"price"`
	Fees            ScaledDecimal `json:"fees"`
	BaseCurrency    BaseCurrency  `json:"baseCurrency"`
	FundingRate     int64         `json:"fundingRate"`
	IsShort         bool          `json:"isShort"`
	Timestamp       int64         `json:"timestamp"`
}

// TransferHistory is one page of ledger entries plus the cursor for the next.
type TransferHistory struct {
	Data   []TransferHistoryItem `json:"data"`
	Cursor string                `json:"cursor"`
}

// SignatureInput is the signature envelope attached to an order mutation.
type SignatureInput struct {
	SignatureType SignatureType `json:"signatureType"`
	Signature     string        `json:"signature"`
}
