package pwinty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is what a Transport hands back for a completed exchange.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Transport sends a Request and reports the raw outcome. A non-nil error
// means no HTTP status was received.
type Transport interface {
	Dispatch(ctx context.Context, req Request) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (*Response, error)

// Dispatch calls f.
func (f TransportFunc) Dispatch(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

const (
	defaultUserAgent = "pwinty-go/0.1"
	requestTimeout   = 30 * time.Second
	maxResponseBytes = 8 << 20
)

// HTTPTransport dispatches Requests over net/http with JSON bodies.
type HTTPTransport struct {
	http      *http.Client
	userAgent string
}

// NewHTTPTransport wraps hc. A nil hc gets a client with a 30s timeout.
func NewHTTPTransport(hc *http.Client, userAgent string) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{Timeout: requestTimeout}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPTransport{http: hc, userAgent: userAgent}
}

// Dispatch implements Transport.
func (t *HTTPTransport) Dispatch(ctx context.Context, r Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for name, values := range r.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return nil, fmt.Errorf("read response: body exceeds %d bytes", maxResponseBytes)
	}
	return &Response{StatusCode: resp.StatusCode, Body: asJSON(raw)}, nil
}

// asJSON returns raw when it is valid JSON. Anything else, such as an HTML
// error page, is returned as a JSON string so callers always get JSON.
func asJSON(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
