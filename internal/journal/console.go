package journal

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleJournal implements Journal by logging order activity.
type ConsoleJournal struct {
	logger *zap.Logger
}

// NewConsoleJournal creates a journal that writes to the log.
func NewConsoleJournal(logger *zap.Logger) *ConsoleJournal {
	return &ConsoleJournal{logger: logger}
}

// RecordPlacement logs a placed order.
func (c *ConsoleJournal) RecordPlacement(ctx context.Context, rec *OrderRecord) error {
	c.logger.Info("order-placed",
		zap.String("order-hash", rec.OrderHash),
		zap.String("market-hash", rec.MarketHash),
		zap.Uint64("subaccount", rec.Subaccount),
		zap.String("order-type", rec.OrderType),
		zap.String("direction", rec.Direction),
		zap.String("size", rec.Size),
		zap.String("limit-price", rec.LimitPrice))
	return nil
}

// RecordCancellation logs a cancellation request.
func (c *ConsoleJournal) RecordCancellation(ctx context.Context, orderHash string) error {
	c.logger.Info("order-canceled", zap.String("order-hash", orderHash))
	return nil
}

// Close is a no-op for the console journal.
func (c *ConsoleJournal) Close() error {
	return nil
}
