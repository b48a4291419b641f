package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// SessionState is the lifecycle state of the subscription session.
type SessionState int32

const (
	StateUninitialized SessionState = iota
	StateEstablishing
	StateActive
	StateReconnecting
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateEstablishing:
		return "establishing"
	case StateActive:
		return "active"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// SessionUnavailableError reports that the session could not be established
// or used. The operation is retryable once connectivity returns.
type SessionUnavailableError struct {
	Cause error
}

func (e *SessionUnavailableError) Error() string {
	return fmt.Sprintf("subscription session unavailable: %v", e.Cause)
}

func (e *SessionUnavailableError) Unwrap() error { return e.Cause }

// Subscription is one logical subscription multiplexed on the session. Its
// identity and event channel survive session reconnects.
type Subscription struct {
	id     string
	events chan json.RawMessage
	mgr    *Manager
	once   sync.Once

	mu  sync.Mutex
	err error
}

// ID returns the protocol-level subscription id.
func (s *Subscription) ID() string { return s.id }

// Events returns the channel events are delivered on. It is closed when the
// subscription ends, whether by Unsubscribe, a server error, or completion.
func (s *Subscription) Events() <-chan json.RawMessage { return s.events }

// Err reports why the subscription ended, nil for a clean end.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Unsubscribe ends this subscription. The session and any other
// subscriptions on it are unaffected.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { s.mgr.unsubscribe(s.id) })
}

// registration ties a subscription to the document that created it, so it
// can be replayed after a reconnect.
type registration struct {
	sub       *Subscription
	query     string
	variables map[string]any
}

// Config holds session manager configuration.
type Config struct {
	URL                   string
	APIKey                string
	DialTimeout           time.Duration
	PingInterval          time.Duration
	ReconnectInitialDelay time.Duration
	ReconnectMaxDelay     time.Duration
	ReconnectBackoffMult  float64
	EventBufferSize       int
	Logger                *zap.Logger
}

// Manager owns the single WebSocket session all subscriptions share. The
// session is established lazily by the first Subscribe call and kept alive
// with automatic reconnection until Close.
type Manager struct {
	cfg       Config
	logger    *zap.Logger
	reconnect *reconnector

	state       atomic.Int32
	connectedAt atomic.Int64

	// mu guards conn, subs, and session establishment. Holding it across
	// the dial is what makes establishment single-flight.
	mu          sync.Mutex
	conn        *websocket.Conn
	subs        map[string]*registration
	pingStarted bool

	// writeMu serializes writes to the connection. Lock ordering is
	// always mu before writeMu.
	writeMu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager creates a session manager. No connection is made until the
// first Subscribe.
func NewManager(cfg Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	policy := backoffPolicy{
		initial:    cfg.ReconnectInitialDelay,
		max:        cfg.ReconnectMaxDelay,
		multiplier: cfg.ReconnectBackoffMult,
		jitter:     0.2,
	}

	return &Manager{
		cfg:       cfg,
		logger:    cfg.Logger,
		reconnect: newReconnector(policy, cfg.Logger),
		subs:      make(map[string]*registration),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// State returns the current session state.
func (m *Manager) State() SessionState {
	return SessionState(m.state.Load())
}

// Subscribe registers a subscription for the given document, establishing
// the session first if no connection exists. Concurrent first subscribers
// share a single establishment attempt. A failed establishment returns
// SessionUnavailableError and leaves the manager ready to retry.
func (m *Manager) Subscribe(ctx context.Context, query string, variables map[string]any) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch SessionState(m.state.Load()) {
	case StateClosed:
		return nil, &SessionUnavailableError{Cause: errors.New("session closed")}
	case StateUninitialized:
		if err := m.establishLocked(ctx); err != nil {
			return nil, &SessionUnavailableError{Cause: err}
		}
	}

	sub := &Subscription{
		id:     uuid.NewString(),
		events: make(chan json.RawMessage, m.cfg.EventBufferSize),
		mgr:    m,
	}
	m.subs[sub.id] = &registration{sub: sub, query: query, variables: variables}
	ActiveSubscriptions.Set(float64(len(m.subs)))

	// While reconnecting, the subscribe frame goes out with the replay
	// that follows the redial.
	if SessionState(m.state.Load()) == StateActive {
		if err := m.writeSubscribe(m.conn, sub.id, query, variables); err != nil {
			delete(m.subs, sub.id)
			ActiveSubscriptions.Set(float64(len(m.subs)))
			return nil, &SessionUnavailableError{Cause: err}
		}
	}

	m.logger.Debug("subscription-registered",
		zap.String("subscription-id", sub.id),
		zap.Int("total", len(m.subs)))

	return sub, nil
}

// establishLocked dials and handshakes the session. Caller holds mu.
func (m *Manager) establishLocked(ctx context.Context) error {
	m.state.Store(int32(StateEstablishing))

	conn, err := m.dial(ctx)
	if err != nil {
		m.state.Store(int32(StateUninitialized))
		return err
	}

	m.conn = conn
	m.state.Store(int32(StateActive))
	m.connectedAt.Store(time.Now().Unix())
	SessionActive.Set(1)

	m.wg.Add(1)
	go m.readLoop(conn)

	if !m.pingStarted {
		m.pingStarted = true
		m.wg.Add(1)
		go m.pingLoop()
	}

	m.logger.Info("session-established", zap.String("url", m.cfg.URL))
	return nil
}

// dial opens the WebSocket and completes the connection_init handshake.
func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: m.cfg.DialTimeout,
		Subprotocols:     []string{Subprotocol},
	}

	conn, _, err := dialer.DialContext(ctx, m.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}

	init := frame{Type: msgConnectionInit}
	if m.cfg.APIKey != "" {
		payload, err := json.Marshal(map[string]string{"X-Api-Key": m.cfg.APIKey})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("marshal init payload: %w", err)
		}
		init.Payload = payload
	}
	if err := conn.WriteJSON(init); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write connection_init: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(m.cfg.DialTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set handshake deadline: %w", err)
	}

	var ack frame
	if err := conn.ReadJSON(&ack); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read connection_ack: %w", err)
	}
	if ack.Type != msgConnectionAck {
		conn.Close()
		return nil, fmt.Errorf("unexpected handshake frame %q", ack.Type)
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("clear handshake deadline: %w", err)
	}

	return conn, nil
}

func (m *Manager) writeSubscribe(conn *websocket.Conn, id, query string, variables map[string]any) error {
	payload, err := json.Marshal(subscribePayload{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal subscribe payload: %w", err)
	}
	if err := m.writeFrame(conn, frame{ID: id, Type: msgSubscribe, Payload: payload}); err != nil {
		return fmt.Errorf("write subscribe: %w", err)
	}
	return nil
}

func (m *Manager) writeFrame(conn *websocket.Conn, f frame) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return conn.WriteJSON(f)
}

// readLoop reads frames from one connection until it fails, then hands off
// to the reconnect path.
func (m *Manager) readLoop(conn *websocket.Conn) {
	defer m.wg.Done()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			m.handleDisconnect(conn, err)
			return
		}

		switch f.Type {
		case msgPing:
			if err := m.writeFrame(conn, frame{Type: msgPong}); err != nil {
				m.logger.Warn("pong-error", zap.Error(err))
			}
		case msgPong:
		case msgNext:
			m.dispatch(f)
		case msgError:
			m.failSubscription(f)
		case msgComplete:
			m.endSubscription(f.ID, nil)
		default:
			m.logger.Debug("unexpected-frame", zap.String("type", f.Type))
		}
	}
}

// dispatch routes a next frame to its subscriber. A full subscriber buffer
// drops the event rather than stalling the session.
func (m *Manager) dispatch(f frame) {
	var payload nextPayload
	if err := json.Unmarshal(f.Payload, &payload); err != nil {
		m.logger.Warn("unparseable-event",
			zap.String("subscription-id", f.ID),
			zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.subs[f.ID]
	if !ok {
		return
	}

	EventsReceivedTotal.Inc()

	select {
	case reg.sub.events <- payload.Data:
	default:
		m.logger.Warn("event-buffer-full", zap.String("subscription-id", f.ID))
		EventsDroppedTotal.WithLabelValues("buffer_full").Inc()
	}
}

// failSubscription ends a subscription the server rejected with an error
// frame.
func (m *Manager) failSubscription(f frame) {
	m.logger.Warn("subscription-error",
		zap.String("subscription-id", f.ID),
		zap.String("payload", string(f.Payload)))

	m.endSubscription(f.ID, fmt.Errorf("subscription rejected: %s", f.Payload))
}

// endSubscription removes a subscription and closes its channel. Safe to
// call for unknown ids.
func (m *Manager) endSubscription(id string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.subs[id]
	if !ok {
		return
	}
	delete(m.subs, id)
	ActiveSubscriptions.Set(float64(len(m.subs)))

	if cause != nil {
		reg.sub.setErr(cause)
	}
	close(reg.sub.events)
}

// unsubscribe ends one subscription on caller request, telling the server
// with a complete frame when the session is up. The session itself stays
// alive even if this was the last subscription.
func (m *Manager) unsubscribe(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.subs[id]
	if !ok {
		return
	}
	delete(m.subs, id)
	ActiveSubscriptions.Set(float64(len(m.subs)))

	if m.conn != nil && SessionState(m.state.Load()) == StateActive {
		if err := m.writeFrame(m.conn, frame{ID: id, Type: msgComplete}); err != nil {
			m.logger.Warn("write-complete-failed",
				zap.String("subscription-id", id),
				zap.Error(err))
		}
	}

	close(reg.sub.events)

	m.logger.Debug("subscription-ended",
		zap.String("subscription-id", id),
		zap.Int("remaining", len(m.subs)))
}

// handleDisconnect transitions a failed connection into the reconnect path.
// Errors from a connection that has already been replaced are ignored.
func (m *Manager) handleDisconnect(failed *websocket.Conn, cause error) {
	m.mu.Lock()
	if m.conn != failed || SessionState(m.state.Load()) == StateClosed {
		m.mu.Unlock()
		return
	}

	m.conn = nil
	m.state.Store(int32(StateReconnecting))
	SessionActive.Set(0)

	if start := m.connectedAt.Load(); start > 0 {
		SessionDurationSeconds.Observe(time.Since(time.Unix(start, 0)).Seconds())
	}
	m.mu.Unlock()

	m.logger.Warn("session-disconnected", zap.Error(cause))

	m.wg.Add(1)
	go m.reconnectLoop()
}

func (m *Manager) reconnectLoop() {
	defer m.wg.Done()

	if err := m.reconnect.run(m.ctx, m.redial); err != nil {
		// Context canceled: the manager is shutting down.
		return
	}
}

// redial re-establishes the session and replays every live subscription
// under the same ids, so subscriber channels carry across the outage.
func (m *Manager) redial(ctx context.Context) error {
	conn, err := m.dial(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if SessionState(m.state.Load()) == StateClosed {
		conn.Close()
		return nil
	}

	m.conn = conn

	for id, reg := range m.subs {
		if err := m.writeSubscribe(conn, id, reg.query, reg.variables); err != nil {
			conn.Close()
			m.conn = nil
			return fmt.Errorf("replay subscription: %w", err)
		}
	}

	m.state.Store(int32(StateActive))
	m.connectedAt.Store(time.Now().Unix())
	SessionActive.Set(1)

	m.wg.Add(1)
	go m.readLoop(conn)

	m.logger.Info("session-resumed", zap.Int("subscriptions", len(m.subs)))
	return nil
}

// pingLoop sends protocol-level ping frames while the session is active.
func (m *Manager) pingLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			conn := m.conn
			active := SessionState(m.state.Load()) == StateActive
			m.mu.Unlock()

			if !active || conn == nil {
				continue
			}
			if err := m.writeFrame(conn, frame{Type: msgPing}); err != nil {
				m.logger.Warn("ping-error", zap.Error(err))
			}
		}
	}
}

// Close shuts the session down and ends every subscription. The manager
// cannot be reused afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	if SessionState(m.state.Load()) == StateClosed {
		m.mu.Unlock()
		return nil
	}
	m.state.Store(int32(StateClosed))
	m.cancel()

	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	for id, reg := range m.subs {
		delete(m.subs, id)
		close(reg.sub.events)
	}
	ActiveSubscriptions.Set(0)
	SessionActive.Set(0)
	m.mu.Unlock()

	m.wg.Wait()

	m.logger.Info("session-closed")
	return nil
}
