// Package journal records order activity so placements and cancellations
// submitted by this client can be audited later.
package journal

import (
	"context"
	"time"
)

// OrderRecord is one journaled order placement.
type OrderRecord struct {
	OrderHash  string
	MarketHash string
	Subaccount uint64
	OrderType  string
	Direction  string
	Size       string // venue-scale integer
	LimitPrice string // venue-scale integer, empty for market orders
	PlacedAt   time.Time
}

// Journal is the interface for recording order activity.
type Journal interface {
	// RecordPlacement records a placed order.
	RecordPlacement(ctx context.Context, rec *OrderRecord) error

	// RecordCancellation records a cancellation request for an order.
	RecordCancellation(ctx context.Context, orderHash string) error

	// Close closes the journal.
	Close() error
}
