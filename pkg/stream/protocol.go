// Package stream maintains a single persistent GraphQL subscription session
// over WebSocket and multiplexes all subscriptions across it.
package stream

import (
	json "github.com/goccy/go-json"
)

// Subprotocol is the WebSocket subprotocol the venue's subscription endpoint
// speaks (graphql-transport-ws).
const Subprotocol = "graphql-transport-ws"

// Frame types of the graphql-transport-ws protocol.
const (
	msgConnectionInit = "connection_init"
	msgConnectionAck  = "connection_ack"
	msgPing           = "ping"
	msgPong           = "pong"
	msgSubscribe      = "subscribe"
	msgNext           = "next"
	msgError          = "error"
	msgComplete       = "complete"
)

// frame is one protocol message. ID is set on subscription-scoped frames and
// empty on connection-scoped ones.
type frame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// subscribePayload is the payload of a subscribe frame.
type subscribePayload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// nextPayload is the payload of a next frame: a standard GraphQL execution
// result scoped to one subscription.
type nextPayload struct {
	Data json.RawMessage `json:"data"`
}
