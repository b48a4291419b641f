package client

import (
	"context"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hook-xyz/odyssey-go/pkg/stream"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

// subscribeTyped opens a subscription and decodes its events into T. The
// returned channel closes when the subscription ends; call Unsubscribe on
// the returned subscription to end it. field names the root of the payload,
// e.g. "ticker" for {"ticker": {...}}.
func subscribeTyped[T any](ctx context.Context, c *Client, query, field string, variables map[string]any) (<-chan T, *stream.Subscription, error) {
	sub, err := c.stream.Subscribe(ctx, query, variables)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan T, c.cfg.StreamEventBufferSize)
	go func() {
		defer close(out)
		for raw := range sub.Events() {
			var envelope map[string]json.RawMessage
			if err := json.Unmarshal(raw, &envelope); err != nil {
				c.logger.Warn("undecodable-event",
					zap.String("field", field),
					zap.Error(err))
				continue
			}

			var ev T
			if err := json.Unmarshal(envelope[field], &ev); err != nil {
				c.logger.Warn("undecodable-event",
					zap.String("field", field),
					zap.Error(err))
				continue
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				sub.Unsubscribe()
				return
			}
		}
	}()

	return out, sub, nil
}

// SubscribeTicker streams last-price ticks for a symbol.
func (c *Client) SubscribeTicker(ctx context.Context, symbol string) (<-chan types.TickerEvent, *stream.Subscription, error) {
	return subscribeTyped[types.TickerEvent](ctx, c, tickerSubscription, "ticker",
		map[string]any{"symbol": symbol})
}

// SubscribeStatistics streams funding statistics for a symbol.
func (c *Client) SubscribeStatistics(ctx context.Context, symbol string) (<-chan types.StatisticsEvent, *stream.Subscription, error) {
	return subscribeTyped[types.StatisticsEvent](ctx, c, statisticsSubscription, "statistics",
		map[string]any{"symbol": symbol})
}

// SubscribeBBO streams best-bid-offer updates for a symbol's perpetual
// instruments.
func (c *Client) SubscribeBBO(ctx context.Context, symbol string) (<-chan types.BBOEvent, *stream.Subscription, error) {
	return subscribeTyped[types.BBOEvent](ctx, c, bboSubscription, "bbo",
		map[string]any{"symbol": symbol, "instrumentType": "PERPETUAL"})
}

// SubscribeOrderbook streams book snapshots and updates for an instrument.
func (c *Client) SubscribeOrderbook(ctx context.Context, instrumentHash string) (<-chan types.OrderbookEvent, *stream.Subscription, error) {
	return subscribeTyped[types.OrderbookEvent](ctx, c, orderbookSubscription, "orderbook",
		map[string]any{"instrumentHash": instrumentHash})
}

// SubscribeSubaccountOrders streams the open orders of a subaccount.
// Requires an API key.
func (c *Client) SubscribeSubaccountOrders(ctx context.Context, subaccount string) (<-chan types.SubaccountOrderEvent, *stream.Subscription, error) {
	if !c.gql.HasAPIKey() {
		return nil, nil, types.ErrAPIKeyRequired
	}
	return subscribeTyped[types.SubaccountOrderEvent](ctx, c, subaccountOrdersSubscription, "subaccountOrders",
		map[string]any{"subaccount": subaccount})
}

// SubscribeSubaccountBalances streams balances across an address's
// subaccounts. Requires an API key.
func (c *Client) SubscribeSubaccountBalances(ctx context.Context, address string) (<-chan types.SubaccountBalanceEvent, *stream.Subscription, error) {
	if !c.gql.HasAPIKey() {
		return nil, nil, types.ErrAPIKeyRequired
	}
	return subscribeTyped[types.SubaccountBalanceEvent](ctx, c, subaccountBalancesSubscription, "subaccountBalances",
		map[string]any{"address": address})
}

// SubscribeSubaccountPositions streams positions across an address's
// subaccounts. Requires an API key.
func (c *Client) SubscribeSubaccountPositions(ctx context.Context, address string) (<-chan types.SubaccountPositionEvent, *stream.Subscription, error) {
	if !c.gql.HasAPIKey() {
		return nil, nil, types.ErrAPIKeyRequired
	}
	return subscribeTyped[types.SubaccountPositionEvent](ctx, c, subaccountPositionsSubscription, "subaccountPositions",
		map[string]any{"address": address})
}
