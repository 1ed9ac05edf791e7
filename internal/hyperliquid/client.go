package hyperliquid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// LatencyObserver receives the duration of every upstream request.
type LatencyObserver interface {
	ObserveUpstream(requestType string, status int, d time.Duration)
}

// Client is an HTTP client for the Hyperliquid info API.
// Requests are rate limited on the client side and never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   LatencyObserver
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRateLimit caps outgoing requests at rps with the given burst. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithObserver reports request latencies to o.
func WithObserver(o LatencyObserver) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a new Hyperliquid API client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// postInfo sends an info request and unmarshals the JSON response into dest.
// It reports false when the upstream body is empty or JSON null; dest is left untouched then.
func (c *Client) postInfo(ctx context.Context, body map[string]any, dest any) (bool, error) {
	requestType, _ := body["type"].(string)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("marshaling %s request: %w", requestType, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(requestType, 0, start)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, &UpstreamError{RequestType: requestType, StatusCode: http.StatusBadGateway, Err: err}
	}
	defer resp.Body.Close()
	c.observe(requestType, resp.StatusCode, start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, &UpstreamError{RequestType: requestType, StatusCode: http.StatusBadGateway, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &UpstreamError{RequestType: requestType, StatusCode: resp.StatusCode, Body: truncate(string(data), 256)}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}

	if err := decodeJSON(trimmed, dest); err != nil {
		return false, fmt.Errorf("parsing %s response: %w", requestType, err)
	}
	return true, nil
}

// decodeJSON keeps untyped numbers as json.Number so an out-of-range literal
// does not fail the whole response.
func decodeJSON(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dest)
}

func (c *Client) observe(requestType string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(requestType, status, time.Since(start))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
