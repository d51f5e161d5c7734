package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrorKind classifies a provider call failure by cause.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
	KindTimeout   ErrorKind = "timeout"
	KindServer    ErrorKind = "server"
	KindNetwork   ErrorKind = "network"
	KindParse     ErrorKind = "parse"
)

// Error is a classified provider-call failure. It is the only error type
// that crosses an adapter boundary.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string

	// retryAfter is the provider-suggested wait parsed from Retry-After;
	// only set for KindRateLimit.
	retryAfter time.Duration
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether another attempt could plausibly succeed.
// Auth failures and parse failures never are; rate limits are, after the
// provider-suggested wait.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindAuth, KindParse:
		return false
	default:
		return true
	}
}

// FromStatus classifies a non-2xx HTTP status.
func FromStatus(status int, message string) *Error {
	kind := KindServer
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 429:
		kind = KindRateLimit
	case status == 408 || status == 504:
		kind = KindTimeout
	case status >= 400 && status < 500:
		// Remaining 4xx are request-shape problems the provider rejects;
		// treat as non-retryable parse-class failures.
		kind = KindParse
	}
	return &Error{Kind: kind, StatusCode: status, Message: message}
}

// FromTransport classifies a transport-level error from net/http.
func FromTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: err.Error()}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: err.Error()}
	}
	return &Error{Kind: KindNetwork, Message: err.Error()}
}

// KindOf extracts the classification from err, defaulting to KindNetwork
// for errors that did not originate in this package.
func KindOf(err error) ErrorKind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindNetwork
}
