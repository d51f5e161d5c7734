// Package httpx provides the shared HTTP client, bounded retry policy, and
// classified error type used by every provider adapter. Retry behavior lives
// here, once, so it is testable in one place instead of drifting per adapter.
package httpx

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultTimeout   = 8 * time.Second
	defaultAttempts  = 3
	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 10 * time.Second
	// rateLimitFloor is the minimum wait after a 429 when the provider
	// sends no Retry-After hint.
	rateLimitFloor = 2 * time.Second
)

// Policy bounds the retry loop applied uniformly to every provider call.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultPolicy returns the retry policy used when a provider does not
// override it.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: defaultAttempts,
		BaseDelay:   defaultBaseDelay,
		MaxDelay:    defaultMaxDelay,
	}
}

// delay computes the backoff before attempt n (1-based second attempt and
// later): exponential growth capped at MaxDelay.
func (p Policy) delay(attempt int) time.Duration {
	d := p.BaseDelay * time.Duration(1<<uint(attempt-1))
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Client wraps an http.Client with the retry policy. One Client is shared
// per adapter; the underlying transport pools connections.
type Client struct {
	hc     *http.Client
	policy Policy
}

// NewClient builds a Client with a tuned transport and per-request timeout.
// A zero timeout selects the default.
func NewClient(timeout time.Duration, policy Policy) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if policy.MaxAttempts <= 0 {
		policy = DefaultPolicy()
	}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		hc:     &http.Client{Timeout: timeout, Transport: tr},
		policy: policy,
	}
}

// Do performs req with bounded retries and exponential backoff. Non-2xx
// statuses are classified via FromStatus; a 429 waits the provider-suggested
// Retry-After (floored, capped at MaxDelay) before the next attempt.
// Non-retryable failures short-circuit. The returned bytes are the full
// response body of the first successful attempt.
//
// req must be built with http.NewRequestWithContext so cancellation
// propagates into the transport.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < c.policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := c.policy.delay(attempt)
			var he *Error
			if errors.As(lastErr, &he) && he.Kind == KindRateLimit && he.retryAfter > wait {
				wait = he.retryAfter
				if wait > c.policy.MaxDelay {
					wait = c.policy.MaxDelay
				}
			}
			select {
			case <-req.Context().Done():
				return nil, FromTransport(req.Context().Err())
			case <-time.After(wait):
			}
		}

		body, err := c.do(req)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var he *Error
		if errors.As(err, &he) && !he.Retryable() {
			return nil, err
		}
		// A cancelled parent context ends the loop regardless of kind.
		if req.Context().Err() != nil {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, FromTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, FromTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		he := FromStatus(resp.StatusCode, truncate(string(body), 256))
		if he.Kind == KindRateLimit {
			he.retryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return nil, he
	}

	return body, nil
}

// parseRetryAfter honors a seconds-valued Retry-After header, floored so a
// zero or missing value still backs off meaningfully.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return rateLimitFloor
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return rateLimitFloor
	}
	d := time.Duration(secs) * time.Second
	if d < rateLimitFloor {
		return rateLimitFloor
	}
	return d
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Get is a convenience wrapper: build a GET with headers, run it through
// the retry loop.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindParse, Message: "build request: " + err.Error()}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.Do(req)
}
