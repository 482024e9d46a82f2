package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// TransportError means the gateway was unreachable, timed out, or returned
// an undecodable response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("gateway unreachable: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// GraphQLError carries the error messages the gateway returned instead of
// data.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql errors: " + strings.Join(e.Messages, "; ")
}

// Client issues fixed documents against a single configured gateway URL.
// It never retries; the scheduler owns retry policy.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []string                   `json:"errors"`
}

func (c *Client) Execute(ctx context.Context, document string, variables map[string]any) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(request{Query: document, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if len(out.Errors) > 0 {
		return nil, &GraphQLError{Messages: out.Errors}
	}
	if out.Data == nil {
		return nil, &TransportError{Err: fmt.Errorf("empty response (status %d)", resp.StatusCode)}
	}

	return out.Data, nil
}
