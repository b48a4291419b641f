// Package client is the high-level venue client: queries and mutations over
// HTTP, typed subscriptions over the shared streaming session, order signing,
// and the order journal.
package client

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hook-xyz/odyssey-go/internal/journal"
	"github.com/hook-xyz/odyssey-go/pkg/cache"
	"github.com/hook-xyz/odyssey-go/pkg/config"
	"github.com/hook-xyz/odyssey-go/pkg/graphql"
	"github.com/hook-xyz/odyssey-go/pkg/signing"
	"github.com/hook-xyz/odyssey-go/pkg/stream"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

const pairsCacheKey = "perpetual-pairs"

// Client talks to one venue environment. Construct it with New and Close it
// when done.
type Client struct {
	cfg     *config.Config
	logger  *zap.Logger
	gql     *graphql.Client
	stream  *stream.Manager
	signer  *signing.Signer // nil without a private key
	cache   cache.Cache
	journal journal.Journal
}

// New wires a client from configuration. A missing private key is fine for
// read-only use; PlaceOrder will fail with ErrSigningUnavailable.
func New(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	info := cfg.Environment.Info()

	c := &Client{
		cfg:    cfg,
		logger: logger,
		gql: graphql.NewClient(&graphql.Config{
			URL:    info.HTTPURL,
			APIKey: cfg.APIKey,
			Logger: logger,
		}),
		stream: stream.NewManager(stream.Config{
			URL:                   info.WSURL,
			APIKey:                cfg.APIKey,
			DialTimeout:           cfg.StreamDialTimeout,
			PingInterval:          cfg.StreamPingInterval,
			ReconnectInitialDelay: cfg.StreamReconnectInitialDelay,
			ReconnectMaxDelay:     cfg.StreamReconnectMaxDelay,
			ReconnectBackoffMult:  cfg.StreamReconnectBackoffMult,
			EventBufferSize:       cfg.StreamEventBufferSize,
			Logger:                logger,
		}),
	}

	if cfg.PrivateKey != "" {
		signer, err := signing.New(info.Domain, cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("create signer: %w", err)
		}
		c.signer = signer
	}

	pairsCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	c.cache = pairsCache

	switch cfg.JournalMode {
	case "postgres":
		j, err := journal.NewPostgresJournal(&journal.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create journal: %w", err)
		}
		c.journal = j
	default:
		c.journal = journal.NewConsoleJournal(logger)
	}

	return c, nil
}

// SignerAddress returns the signing address, or false when the client is
// read-only.
func (c *Client) SignerAddress() (string, bool) {
	if c.signer == nil {
		return "", false
	}
	return c.signer.Address().Hex(), true
}

// StreamState reports the state of the shared subscription session.
func (c *Client) StreamState() stream.SessionState {
	return c.stream.State()
}

// PerpetualPairs returns the perpetual market listings. Results are cached;
// a listing change shows up after the TTL expires.
func (c *Client) PerpetualPairs(ctx context.Context) ([]types.PerpetualPair, error) {
	if cached, found := c.cache.Get(pairsCacheKey); found {
		if pairs, ok := cached.([]types.PerpetualPair); ok {
			return pairs, nil
		}
	}

	var out struct {
		PerpetualPairs []types.PerpetualPair `json:"perpetualPairs"`
	}
	if err := c.gql.Execute(ctx, perpetualPairsQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch perpetual pairs: %w", err)
	}

	c.cache.Set(pairsCacheKey, out.PerpetualPairs, c.cfg.PairsCacheTTL)

	return out.PerpetualPairs, nil
}

// AccountDetails returns the caller's fee tier. Requires an API key.
func (c *Client) AccountDetails(ctx context.Context) (*types.AccountDetails, error) {
	if !c.gql.HasAPIKey() {
		return nil, types.ErrAPIKeyRequired
	}

	var out struct {
		AccountDetails types.AccountDetails `json:"accountDetails"`
	}
	if err := c.gql.Execute(ctx, accountDetailsQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("fetch account details: %w", err)
	}

	return &out.AccountDetails, nil
}

// TransferHistoryOptions narrows a transfer history page.
type TransferHistoryOptions struct {
	MarketHash   string
	TransferType types.TransferType
	Cursor       string
}

// TransferHistory returns one page of a subaccount's ledger. Requires an API
// key. Pass the returned cursor back in opts to fetch the next page.
func (c *Client) TransferHistory(ctx context.Context, subaccount string, opts *TransferHistoryOptions) (*types.TransferHistory, error) {
	if !c.gql.HasAPIKey() {
		return nil, types.ErrAPIKeyRequired
	}

	variables := map[string]any{"subaccount": subaccount}
	if opts != nil {
		if opts.MarketHash != "" {
			variables["marketHash"] = opts.MarketHash
		}
		if opts.TransferType != "" {
			variables["transferType"] = string(opts.TransferType)
		}
		if opts.Cursor != "" {
			variables["cursor"] = opts.Cursor
		}
	}

	var out struct {
		TransferHistory types.TransferHistory `json:"transferHistory"`
	}
	if err := c.gql.Execute(ctx, transferHistoryQuery, variables, &out); err != nil {
		return nil, fmt.Errorf("fetch transfer history: %w", err)
	}

	return &out.TransferHistory, nil
}

// PlaceOrder signs and submits an order, returning its hash. Requires both
// an API key and a signing key.
func (c *Client) PlaceOrder(ctx context.Context, order *types.PlaceOrderInput) (string, error) {
	if !c.gql.HasAPIKey() {
		return "", types.ErrAPIKeyRequired
	}
	if c.signer == nil {
		return "", signing.ErrSigningUnavailable
	}

	signature, orderHash, err := c.signer.SignOrder(order)
	if err != nil {
		return "", fmt.Errorf("sign order: %w", err)
	}

	variables := map[string]any{
		"orderInput": order,
		"signature": types.SignatureInput{
			SignatureType: types.SignatureDirect,
			Signature:     signature,
		},
	}
	if err := c.gql.Execute(ctx, placeOrderMutation, variables, nil); err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	limitPrice := ""
	if order.LimitPrice != nil {
		limitPrice = order.LimitPrice.String()
	}
	if err := c.journal.RecordPlacement(ctx, &journal.OrderRecord{
		OrderHash:  orderHash,
		MarketHash: order.MarketHash,
		Subaccount: order.Subaccount,
		OrderType:  string(order.OrderType),
		Direction:  string(order.Direction),
		Size:       order.Size.String(),
		LimitPrice: limitPrice,
		PlacedAt:   time.Now().UTC(),
	}); err != nil {
		// The venue accepted the order; a journal failure must not mask
		// that.
		c.logger.Warn("journal-placement-failed",
			zap.String("order-hash", orderHash),
			zap.Error(err))
	}

	return orderHash, nil
}

// CancelOrder requests cancellation of a resting order by hash.
func (c *Client) CancelOrder(ctx context.Context, orderHash string) (bool, error) {
	var out struct {
		CancelOrderV2 bool `json:"cancelOrderV2"`
	}
	err := c.gql.Execute(ctx, cancelOrderMutation, map[string]any{"orderHash": orderHash}, &out)
	if err != nil {
		return false, fmt.Errorf("cancel order: %w", err)
	}

	if out.CancelOrderV2 {
		if err := c.journal.RecordCancellation(ctx, orderHash); err != nil {
			c.logger.Warn("journal-cancellation-failed",
				zap.String("order-hash", orderHash),
				zap.Error(err))
		}
	}

	return out.CancelOrderV2, nil
}

// Close releases the streaming session, cache, and journal.
func (c *Client) Close() error {
	err := c.stream.Close()
	c.cache.Close()
	if jerr := c.journal.Close(); jerr != nil && err == nil {
		err = jerr
	}
	return err
}
