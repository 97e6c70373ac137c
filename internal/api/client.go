package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 30 * time.Second

// maxErrorBodyBytes bounds how much of an error response body is read when
// extracting the structured detail. Oversized bodies are truncated, not fatal.
const maxErrorBodyBytes = 64 << 10

// TokenSource supplies the bearer token for authenticated calls. Returning
// an empty string means the request goes out unauthenticated.
type TokenSource func() (string, error)

// Client is a thin HTTP client for the Draftmill REST API. It does not retry
// and does not classify failures; it only produces the typed failure values
// (StatusError, wrapped transport errors) the upper layers consume.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// Option configures a Client during construction.
type Option func(*Client) error

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithTokenSource sets the bearer-token supplier for authenticated calls.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) error {
		c.token = ts
		return nil
	}
}

// WithDebugLogging wraps the transport with a request/response dump logger.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: base}
		return nil
	}
}

// New constructs a Client with optional functional arguments.
func New(base string, opts ...Option) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: defaultTimeout},
	}

	// Auto-enable debug via env variable without changing code.
	if os.Getenv("DRAFTMILL_DEBUG") == "true" || os.Getenv("DEBUG") == "true" {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// do issues a single request and decodes the response into out (if non-nil).
// Non-2xx responses become *StatusError; transport failures are returned
// wrapped so callers can errors.As into *url.Error / net.Error.
//
// requestID is the correlation/idempotency key for mutating calls. Callers
// that retry must pass a stable id so the server can deduplicate; when
// empty, a fresh one is generated per call.
func (c *Client) do(ctx context.Context, method, path, requestID string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Correlation id for mutating calls; echoed back by the API in
		// error bodies and the X-Request-Id response header.
		if requestID == "" {
			requestID = uuid.NewString()
		}
		req.Header.Set("X-Request-Id", requestID)
	}
	if c.token != nil {
		tok, err := c.token()
		if err != nil {
			return fmt.Errorf("api: load token: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// statusError builds a *StatusError from a non-2xx response. A malformed or
// empty error body is tolerated; the status line is always preserved.
func statusError(resp *http.Response) *StatusError {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil {
		return se
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		se.Detail = eb.Detail
		se.Code = eb.Code
		if eb.RequestID != "" {
			se.RequestID = eb.RequestID
		}
	}
	return se
}

// debugTransport wraps an http.RoundTripper to log requests and responses.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}
