package httputil

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the per-request timeout of clients built by NewClient.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// NewClient returns an HTTP client with the given timeout (DefaultTimeout
// when zero) whose requests carry a fresh X-Request-ID.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &RequestIDTransport{},
	}
}

// RequestIDTransport sets X-Request-ID to a new UUID on requests that do
// not already carry one.
type RequestIDTransport struct {
	// Base is the underlying transport; http.DefaultTransport when nil.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *RequestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if req.Header.Get(RequestIDHeader) != "" {
		return base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return base.RoundTrip(req)
}
