package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/session"
)

// newTestClient starts srv and returns a client with a memory session store
// and millisecond retries.
func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	c, err := New(Options{
		BaseURL:    srv.URL + "/api",
		Sessions:   store,
		RetryDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c, store
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	if _, err := New(Options{BaseURL: "ftp://example.com"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("New(ftp) error = %v", err)
	}
	c, err := New(Options{})
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %s", c.BaseURL())
	}
}

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotID, gotUA string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get("X-Request-ID")
		gotUA = r.Header.Get("User-Agent")
		writeJSON(w, 200, []family.FamilyListItem{})
	})
	ctx := context.Background()

	if _, err := c.ListFamilies(ctx); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("anonymous request sent Authorization %q", gotAuth)
	}
	if _, err := uuid.Parse(gotID); err != nil {
		t.Errorf("X-Request-ID %q: %v", gotID, err)
	}
	if !strings.HasPrefix(gotUA, "jiapu/") {
		t.Errorf("User-Agent = %q", gotUA)
	}

	_ = store.Set(ctx, session.New("tok-9", nil, time.Hour))
	if _, err := c.ListFamilies(ctx); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-9" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "token expired"})
	})
	ctx := context.Background()
	_ = store.Set(ctx, session.New("stale", nil, time.Hour))

	_, err := c.Profile(ctx)
	if !errors.Is(err, errors.ErrCodeUnauthorized) {
		t.Fatalf("Profile() error = %v, want UNAUTHORIZED", err)
	}
	if s, _ := store.Get(ctx); s != nil {
		t.Error("session should be cleared after 401")
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		code    errors.Code
		message string
	}{
		{"forbidden", 403, errorBody{"not your family"}, errors.ErrCodeForbidden, "not your family"},
		{"bad request", 400, errorBody{"name too long"}, errors.ErrCodeInvalidInput, "name too long"},
		{"rate limited", 429, errorBody{"slow down"}, errors.ErrCodeRateLimited, "slow down"},
		{"no message", 418, map[string]int{"code": 1}, errors.ErrCodeInternal, "request failed (418)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			_, err := c.ListFeedback(context.Background())
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if got := errors.UserMessage(err); got != tt.message {
				t.Errorf("UserMessage = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestRateLimitedRetryAfter(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		writeJSON(w, 429, errorBody{"slow down"})
	})
	_, err := c.ListFamilies(context.Background())
	var rl *errors.RateLimitedError
	if !stderrors.As(err, &rl) || rl.RetryAfter != 30 {
		t.Errorf("error = %v, want RateLimitedError{30}", err)
	}
}

func TestRetryIdempotentOn5xx(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, 502, errorBody{"upstream"})
			return
		}
		writeJSON(w, 200, family.FamilyData{Settings: family.Settings{FamilyName: "王氏"}})
	})

	fam, err := c.GetFamily(context.Background(), "f1")
	if err != nil {
		t.Fatalf("GetFamily() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if fam.Settings.FamilyName != "王氏" || fam.APIID != "f1" {
		t.Errorf("GetFamily() = %+v", fam)
	}
}

func TestRetryExhaustedReturnsNetworkError(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(503)
	})
	err := c.DeleteMember(context.Background(), "m1")
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("error = %v, want NETWORK_ERROR", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if errors.UserMessage(err) != "request failed (503)" {
		t.Errorf("UserMessage = %q", errors.UserMessage(err))
	}
}

func TestPostIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(500)
	})
	_, err := c.CreateFamily(context.Background(), FamilyInput{Name: "李氏"})
	if !errors.Is(err, errors.ErrCodeNetwork) {
		t.Fatalf("error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("POST retried: calls = %d", calls.Load())
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, RetryAttempts: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.ListFamilies(context.Background()); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestDecodeError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>")
	})
	if _, err := c.ListFamilies(context.Background()); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}
