package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewClientTimeout(t *testing.T) {
	if c := NewClient(0); c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c := NewClient(5 * time.Second); c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
}

func TestRequestIDTransport(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get(RequestIDHeader))
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	for range 2 {
		resp, err := c.Get(srv.URL)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	if len(got) != 2 {
		t.Fatalf("requests = %d", len(got))
	}
	for _, id := range got {
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("X-Request-ID %q is not a uuid", id)
		}
	}
	if got[0] == got[1] {
		t.Error("request ids should differ per request")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set(RequestIDHeader, "fixed")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got[2] != "fixed" {
		t.Errorf("caller-supplied id overwritten: %q", got[2])
	}
}
