package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hook-xyz/odyssey-go/pkg/stream"
	"github.com/hook-xyz/odyssey-go/pkg/types"
)

type wsFrame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// newSubscriptionServer runs a graphql-transport-ws server that answers every
// subscribe with the frames produced by respond.
func newSubscriptionServer(t *testing.T, respond func(query string) []string) string {
	t.Helper()

	upgrader := websocket.Upgrader{Subprotocols: []string{stream.Subprotocol}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		for {
			var f wsFrame
			if err := ws.ReadJSON(&f); err != nil {
				return
			}

			switch f.Type {
			case "connection_init":
				if err := ws.WriteJSON(wsFrame{Type: "connection_ack"}); err != nil {
					return
				}
			case "subscribe":
				var payload struct {
					Query string `json:"query"`
				}
				if err := json.Unmarshal(f.Payload, &payload); err != nil {
					return
				}
				for _, data := range respond(payload.Query) {
					if err := ws.WriteJSON(wsFrame{
						ID:      f.ID,
						Type:    "next",
						Payload: json.RawMessage(`{"data": ` + data + `}`),
					}); err != nil {
						return
					}
				}
			}
		}
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func withStream(t *testing.T, c *Client, url string) *Client {
	t.Helper()

	c.stream = stream.NewManager(stream.Config{
		URL:                   url,
		DialTimeout:           2 * time.Second,
		PingInterval:          time.Hour,
		ReconnectInitialDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:     100 * time.Millisecond,
		ReconnectBackoffMult:  2.0,
		EventBufferSize:       16,
		Logger:                zap.NewNop(),
	})
	t.Cleanup(func() { _ = c.stream.Close() })

	return c
}

func TestSubscribeTicker_TypedEvents(t *testing.T) {
	url := newSubscriptionServer(t, func(query string) []string {
		assert.Contains(t, query, "ticker")
		return []string{
			`{"ticker": {"price": "1850500000000000000000", "timestamp": 1700000000}}`,
			`{"ticker": {"price": "1851000000000000000000", "timestamp": 1700000001}}`,
		}
	})

	c := withStream(t, newTestClient(t, "", "", nil), url)

	events, sub, err := c.SubscribeTicker(t.Context(), "ETH-PERP")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	first := waitTyped(t, events)
	assert.True(t, first.Price.Equal(decimal.RequireFromString("1850.5")))
	assert.Equal(t, int64(1700000000), first.Timestamp)

	second := waitTyped(t, events)
	assert.True(t, second.Price.Equal(decimal.RequireFromString("1851")))
}

func TestSubscribeOrderbook_TypedEvents(t *testing.T) {
	url := newSubscriptionServer(t, func(query string) []string {
		return []string{`{"orderbook": {
			"eventType": "SNAPSHOT",
			"timestamp": 1700000000,
			"bidLevels": [{"direction": "BID", "size": "1000000000000000000", "price": "1850000000000000000000"}],
			"askLevels": []
		}}`}
	})

	c := withStream(t, newTestClient(t, "", "", nil), url)

	events, sub, err := c.SubscribeOrderbook(t.Context(), testInstrumentHash)
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev := waitTyped(t, events)
	assert.Equal(t, types.EventTypeSnapshot, ev.EventType)
	require.Len(t, ev.BidLevels, 1)
	assert.True(t, ev.BidLevels[0].Price.Equal(decimal.NewFromInt(1850)))
}

func TestAccountScopedSubscriptions_RequireAPIKey(t *testing.T) {
	c := newTestClient(t, "", "", nil)

	_, _, err := c.SubscribeSubaccountOrders(t.Context(), "37")
	assert.True(t, errors.Is(err, types.ErrAPIKeyRequired))

	_, _, err = c.SubscribeSubaccountBalances(t.Context(), "0xabc")
	assert.True(t, errors.Is(err, types.ErrAPIKeyRequired))

	_, _, err = c.SubscribeSubaccountPositions(t.Context(), "0xabc")
	assert.True(t, errors.Is(err, types.ErrAPIKeyRequired))
}

func waitTyped[T any](t *testing.T, events <-chan T) T {
	t.Helper()

	select {
	case ev, ok := <-events:
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		var zero T
		return zero
	}
}
