// Package api is a client for the family tree REST service.
//
// Every call carries the stored bearer token, a fresh X-Request-ID and the
// jiapu User-Agent. GET, PUT and DELETE are retried on network errors and
// 5xx responses; POST is never retried. A 401 clears the stored session.
//
// Errors returned by the client are *errors.Error values whose Code tells
// the caller what went wrong:
//
//	fam, err := client.GetFamily(ctx, id)
//	if errors.Is(err, errors.ErrCodeFamilyNotFound) {
//	    // ...
//	}
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jiapu/pkg/buildinfo"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/httputil"
	"github.com/matzehuels/jiapu/pkg/observability"
	"github.com/matzehuels/jiapu/pkg/session"
)

// DefaultBaseURL is used when Options.BaseURL is empty.
const DefaultBaseURL = "https://jiapu.example.com/api"

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Sessions supplies the bearer token. Login and Register write to it,
	// a 401 clears it. Nil means anonymous.
	Sessions session.Store

	// HTTPClient overrides the default client built by httputil.NewClient.
	HTTPClient *http.Client

	Logger *log.Logger

	// RetryAttempts and RetryDelay tune retries of idempotent requests.
	// Zero values mean 3 attempts starting at one second.
	RetryAttempts int
	RetryDelay    time.Duration
}

// Client talks to the family service.
type Client struct {
	base     *url.URL
	http     *http.Client
	sessions session.Store
	logger   *log.Logger
	attempts int
	delay    time.Duration
}

// New returns a client. The base URL must be http or https.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(opts.BaseURL, "/")
	if raw == "" {
		raw = DefaultBaseURL
	}
	if err := errors.ValidateURL(raw); err != nil {
		return nil, err
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid API base URL")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = httputil.NewClient(opts.Timeout)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Client{
		base:     base,
		http:     hc,
		sessions: opts.Sessions,
		logger:   logger,
		attempts: attempts,
		delay:    delay,
	}, nil
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.base.String() }

// errorBody is the service's error shape.
type errorBody struct {
	Message string `json:"message"`
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode request")
		}
	}

	send := func() error {
		var r io.Reader
		if body != nil {
			r = bytes.NewReader(body)
		}
		req, err := c.newRequest(ctx, method, path, query, r)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.send(req, out)
	}

	if !idempotent(method) {
		return unwrapRetryable(send())
	}
	return unwrapRetryable(httputil.Retry(ctx, c.attempts, c.delay, send))
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	token, err := session.Token(ctx, c.sessions)
	if err != nil {
		c.logger.Warn("could not read session", "err", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send performs req and decodes the response. Failures worth retrying come
// back wrapped in httputil.RetryableError.
func (c *Client) send(req *http.Request, out any) error {
	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return transportError(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	c.logger.Debug("api", "method", req.Method, "path", path, "status", resp.StatusCode,
		"request_id", req.Header.Get(httputil.RequestIDHeader), "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s %s response", req.Method, path)
		}
		return nil
	}
	return c.statusError(ctx, resp)
}

func (c *Client) statusError(ctx context.Context, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	_ = json.Unmarshal(data, &eb)
	msg := eb.Message
	if msg == "" {
		msg = fmt.Sprintf("request failed (%d)", resp.StatusCode)
	}

	switch code := resp.StatusCode; {
	case code == http.StatusUnauthorized:
		if c.sessions != nil {
			if err := c.sessions.Clear(ctx); err != nil {
				c.logger.Warn("could not clear session", "err", err)
			}
		}
		return errors.New(errors.ErrCodeUnauthorized, "login expired, please log in again")
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "%s", msg)
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return errors.Wrap(errors.ErrCodeRateLimited, &errors.RateLimitedError{RetryAfter: retryAfter, Message: msg}, "%s", msg)
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "%s", msg))
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity || code == http.StatusConflict:
		return errors.New(errors.ErrCodeInvalidInput, "%s", msg)
	default:
		return errors.New(errors.ErrCodeInternal, "%s", msg)
	}
}

func transportError(err error) error {
	var ne net.Error
	if stderrors.Is(err, context.Canceled) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &ne) && ne.Timeout()) {
		return httputil.Retryable(errors.Wrap(errors.ErrCodeTimeout, err, "request timed out"))
	}
	return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "network connection failed"))
}

// unwrapRetryable strips the retry marker so callers see the coded error.
func unwrapRetryable(err error) error {
	var re *httputil.RetryableError
	if stderrors.As(err, &re) {
		return re.Err
	}
	return err
}

func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// remapNotFound narrows a generic NOT_FOUND to a resource-specific code.
func remapNotFound(err error, code errors.Code, format string, args ...any) error {
	if errors.Is(err, errors.ErrCodeNotFound) {
		return errors.Wrap(code, err, format, args...)
	}
	return err
}
