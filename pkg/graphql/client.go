// Package graphql is the HTTP query/mutation transport for the venue's
// GraphQL endpoint.
package graphql

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// ResponseError is one entry of the errors array in a GraphQL response.
type ResponseError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// RequestFailedError reports a request the venue rejected, either at the HTTP
// layer or through the GraphQL errors array.
type RequestFailedError struct {
	StatusCode int
	Errors     []ResponseError
}

func (e *RequestFailedError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	msgs := make([]string, len(e.Errors))
	for i, re := range e.Errors {
		msgs[i] = re.Message
	}
	return fmt.Sprintf("request failed: %s", strings.Join(msgs, "; "))
}

// Client executes GraphQL documents over HTTP POST.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds client configuration.
type Config struct {
	URL     string
	APIKey  string // optional, required only for account-scoped operations
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a GraphQL client for the given endpoint.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     cfg.Logger,
	}
}

// HasAPIKey reports whether the client can perform account-scoped operations.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []ResponseError `json:"errors"`
}

// Execute posts the document with its variables and decodes the data payload
// into out. A nil out discards the payload.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	start := time.Now()
	operation := operationName(query)

	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues(operation, "transport_error").Inc()
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	RequestDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		RequestsTotal.WithLabelValues(operation, "http_error").Inc()
		c.logger.Warn("request-rejected",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode))
		return &RequestFailedError{StatusCode: resp.StatusCode}
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		RequestsTotal.WithLabelValues(operation, "decode_error").Inc()
		return fmt.Errorf("decode response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		RequestsTotal.WithLabelValues(operation, "graphql_error").Inc()
		c.logger.Warn("request-rejected",
			zap.String("operation", operation),
			zap.String("error", envelope.Errors[0].Message))
		return &RequestFailedError{StatusCode: resp.StatusCode, Errors: envelope.Errors}
	}

	RequestsTotal.WithLabelValues(operation, "ok").Inc()

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// operationName extracts the operation name from a document for metric
// labels, e.g. "query perpetualPairs(...)" yields "perpetualPairs".
func operationName(query string) string {
	fields := strings.Fields(query)
	if len(fields) < 2 {
		return "unknown"
	}
	name := fields[1]
	if i := strings.IndexAny(name, "({"); i > 0 {
		name = name[:i]
	}
	return name
}
