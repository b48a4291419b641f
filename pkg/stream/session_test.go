package stream

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// wsServer is a minimal graphql-transport-ws server for exercising the
// session manager against real connections.
type wsServer struct {
	t        *testing.T
	srv      *httptest.Server
	upgrader websocket.Upgrader

	connCount  atomic.Int32
	rejectNext atomic.Bool

	mu    sync.Mutex
	conns []*wsServerConn
}

type wsServerConn struct {
	ws *websocket.Conn

	// frames receives subscribe and complete frames as the client sends
	// them.
	frames chan frame

	writeMu sync.Mutex
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	s := &wsServer{
		t:        t,
		upgrader: websocket.Upgrader{Subprotocols: []string{Subprotocol}},
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.close)

	return s
}

func (s *wsServer) close() {
	s.mu.Lock()
	for _, c := range s.conns {
		c.ws.Close()
	}
	s.mu.Unlock()
	s.srv.Close()
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

func (s *wsServer) handle(w http.ResponseWriter, r *http.Request) {
	if s.rejectNext.CompareAndSwap(true, false) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.connCount.Add(1)

	conn := &wsServerConn{ws: ws, frames: make(chan frame, 64)}
	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	for {
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			return
		}

		switch f.Type {
		case msgConnectionInit:
			conn.write(s.t, frame{Type: msgConnectionAck})
		case msgPing:
			conn.write(s.t, frame{Type: msgPong})
		case msgSubscribe, msgComplete:
			conn.frames <- f
		}
	}
}

func (c *wsServerConn) write(t *testing.T, f frame) {
	t.Helper()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteJSON(f); err != nil {
		t.Logf("server write failed: %v", err)
	}
}

func (c *wsServerConn) sendNext(t *testing.T, id, data string) {
	t.Helper()
	c.write(t, frame{ID: id, Type: msgNext, Payload: json.RawMessage(fmt.Sprintf(`{"data": %s}`, data))})
}

func (c *wsServerConn) waitFrame(t *testing.T) frame {
	t.Helper()

	select {
	case f := <-c.frames:
		return f
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for client frame")
		return frame{}
	}
}

func (s *wsServer) conn(t *testing.T, i int) *wsServerConn {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		if len(s.conns) > i {
			c := s.conns[i]
			s.mu.Unlock()
			return c
		}
		s.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for server connection %d", i)
	return nil
}

func newTestManager(t *testing.T, url string) *Manager {
	t.Helper()

	m := NewManager(Config{
		URL:                   url,
		DialTimeout:           2 * time.Second,
		PingInterval:          time.Hour,
		ReconnectInitialDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:     100 * time.Millisecond,
		ReconnectBackoffMult:  2.0,
		EventBufferSize:       16,
		Logger:                zap.NewNop(),
	})
	t.Cleanup(func() { _ = m.Close() })

	return m
}

func waitEvent(t *testing.T, sub *Subscription) json.RawMessage {
	t.Helper()

	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestSubscribe_SingleFlightEstablishment(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	const n = 8
	subs := make([]*Subscription, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			subs[i], errs[i] = m.Subscribe(t.Context(), "subscription ticker { price }", nil)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, subs[i])
	}

	assert.Equal(t, int32(1), srv.connCount.Load())
	assert.Equal(t, StateActive, m.State())

	conn := srv.conn(t, 0)
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		f := conn.waitFrame(t)
		assert.Equal(t, msgSubscribe, f.Type)
		seen[f.ID] = true
	}
	assert.Len(t, seen, n)
}

func TestSubscribe_DeliversEventsInOrder(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	sub, err := m.Subscribe(t.Context(), "subscription ticker { price }", map[string]any{"symbol": "ETH-PERP"})
	require.NoError(t, err)

	conn := srv.conn(t, 0)
	f := conn.waitFrame(t)
	require.Equal(t, msgSubscribe, f.Type)
	require.Equal(t, sub.ID(), f.ID)

	var payload subscribePayload
	require.NoError(t, json.Unmarshal(f.Payload, &payload))
	assert.Contains(t, payload.Query, "ticker")
	assert.Equal(t, "ETH-PERP", payload.Variables["symbol"])

	for i := 0; i < 3; i++ {
		conn.sendNext(t, sub.ID(), fmt.Sprintf(`{"seq": %d}`, i))
	}
	for i := 0; i < 3; i++ {
		ev := waitEvent(t, sub)
		assert.JSONEq(t, fmt.Sprintf(`{"seq": %d}`, i), string(ev))
	}
}

func TestSubscribe_ReconnectReplaysSubscriptions(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	sub, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.NoError(t, err)

	conn1 := srv.conn(t, 0)
	require.Equal(t, sub.ID(), conn1.waitFrame(t).ID)

	// Drop the session from the server side.
	conn1.ws.Close()

	conn2 := srv.conn(t, 1)
	f := conn2.waitFrame(t)
	assert.Equal(t, msgSubscribe, f.Type)
	assert.Equal(t, sub.ID(), f.ID, "subscription id survives reconnect")

	// The original channel keeps delivering after the outage.
	conn2.sendNext(t, sub.ID(), `{"resumed": true}`)
	ev := waitEvent(t, sub)
	assert.JSONEq(t, `{"resumed": true}`, string(ev))

	assert.Equal(t, StateActive, m.State())
	assert.Equal(t, int32(2), srv.connCount.Load())
}

func TestSubscribe_EstablishmentFailureIsRetryable(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	srv.rejectNext.Store(true)

	_, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.Error(t, err)

	var unavailable *SessionUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, StateUninitialized, m.State())

	// The next attempt succeeds against the recovered server.
	sub, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.NoError(t, err)
	assert.NotNil(t, sub)
	assert.Equal(t, StateActive, m.State())
}

func TestUnsubscribe_LeavesSessionAndPeersAlive(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	sub1, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.NoError(t, err)
	sub2, err := m.Subscribe(t.Context(), "subscription bbo { instruments }", nil)
	require.NoError(t, err)

	conn := srv.conn(t, 0)
	conn.waitFrame(t)
	conn.waitFrame(t)

	sub1.Unsubscribe()

	f := conn.waitFrame(t)
	assert.Equal(t, msgComplete, f.Type)
	assert.Equal(t, sub1.ID(), f.ID)

	_, ok := <-sub1.Events()
	assert.False(t, ok, "unsubscribed channel is closed")
	assert.NoError(t, sub1.Err())

	// The peer and the session are untouched.
	conn.sendNext(t, sub2.ID(), `{"still": "alive"}`)
	ev := waitEvent(t, sub2)
	assert.JSONEq(t, `{"still": "alive"}`, string(ev))
	assert.Equal(t, StateActive, m.State())

	// Unsubscribing the last subscription keeps the session up.
	sub2.Unsubscribe()
	assert.Equal(t, StateActive, m.State())
	assert.Equal(t, int32(1), srv.connCount.Load())
}

func TestServerErrorFrame_EndsSubscription(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	sub, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.NoError(t, err)

	conn := srv.conn(t, 0)
	conn.waitFrame(t)

	conn.write(t, frame{ID: sub.ID(), Type: msgError, Payload: json.RawMessage(`[{"message": "unknown symbol"}]`)})

	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	require.Error(t, sub.Err())
	assert.Contains(t, sub.Err().Error(), "unknown symbol")
	assert.Equal(t, StateActive, m.State())
}

func TestClose_EndsEverything(t *testing.T) {
	srv := newWSServer(t)
	m := newTestManager(t, srv.url())

	sub, err := m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	assert.Equal(t, StateClosed, m.State())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	_, err = m.Subscribe(t.Context(), "subscription ticker { price }", nil)
	var unavailable *SessionUnavailableError
	require.True(t, errors.As(err, &unavailable))

	// Close is idempotent.
	require.NoError(t, m.Close())
}
