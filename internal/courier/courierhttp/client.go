// Package courierhttp wraps net/http for the courier adapters: one place for
// timeouts, JSON encoding, error surfacing, and request/response logging with
// phone-number redaction.
package courierhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// StatusError is returned for non-2xx upstream responses. The raw status and
// body are preserved for diagnostics and error classification.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

// Client is a thin JSON client bound to one courier's base URL.
type Client struct {
	http     *http.Client
	baseURL  string
	provider string
	log      zerolog.Logger
}

// New builds a Client for the given courier base URL. A timeout <= 0 falls
// back to 30s; every upstream call is bounded by it.
func New(provider, baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  baseURL,
		provider: provider,
		log:      log,
	}
}

// PostJSON sends body as JSON to path and decodes the 2xx response into out.
// Non-2xx responses return a *StatusError carrying the raw body.
func (c *Client) PostJSON(ctx context.Context, path string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.log.Debug().Str("provider", c.provider).Str("path", path).
		RawJSON("body", Redact(payload)).Msg("courier request")

	return c.do(req, path, out)
}

// GetJSON performs a GET with optional query parameters and decodes the 2xx
// response into out.
func (c *Client) GetJSON(ctx context.Context, path string, headers map[string]string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.log.Debug().Str("provider", c.provider).Str("path", path).Msg("courier request")

	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(c.provider, path).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("courier request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug().Str("provider", c.provider).Str("path", path).
		Int("status", resp.StatusCode).Bytes("body", Redact(raw)).Msg("courier response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// phonePattern matches local and international phone number shapes so debug
// logs never carry recipient phone numbers.
var phonePattern = regexp.MustCompile(`\+?\d[\d\s-]{7,14}\d`)

// Redact masks phone numbers in a request/response body before logging.
func Redact(body []byte) []byte {
	return phonePattern.ReplaceAll(body, []byte("[redacted]"))
}
