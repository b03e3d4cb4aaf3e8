package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/jiapu/pkg/family"
)

// captureOutput redirects command output to a buffer for the rest of the
// test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// isolate points config, cache and session files at a temp dir and the API
// at baseURL.
func isolate(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("JIAPU_API_BASE_URL", baseURL)
	return dir
}

// run executes the root command with args in a fresh CLI.
func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func sampleFamily() family.FamilyData {
	return family.FamilyData{
		Settings: family.Settings{FamilyName: "孙氏", Hometown: "江南"},
		Generations: []family.Generation{
			{ID: 1, Name: "第一世", Members: []family.Member{
				{ID: 1, Name: "孙公", Gender: family.Male, SpouseID: family.IntRef(2)},
				{ID: 2, Name: "钱氏", Gender: family.Female},
			}},
			{ID: 2, Name: "第二世", Members: []family.Member{
				{ID: 3, Name: "孙子", Gender: family.Male, ParentID: family.IntRef(1)},
			}},
		},
	}
}

func writeFamily(t *testing.T, d family.FamilyData) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "family.json")
	data, err := family.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeAPI is a minimal family service. Family routes require the token
// handed out by login.
type fakeAPI struct {
	mu         sync.Mutex
	familyGets int
	lastBody   map[string]any
}

const fakeToken = "tok-123"

func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			writeTestJSON(w, http.StatusBadRequest, map[string]string{"message": "wrong password"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{
			"token": fakeToken,
			"user":  map[string]any{"id": "u1", "nickname": "小孙", "email": "sun@example.com"},
		})
	})
	mux.HandleFunc("GET /api/families", f.authed(func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, []family.FamilyListItem{
			{ID: "f1", Name: "孙氏", Hometown: "江南", UpdatedAt: "2020-01-02T03:04:05Z"},
		})
	}))
	mux.HandleFunc("GET /api/families/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "f1" {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		f.mu.Lock()
		f.familyGets++
		f.mu.Unlock()
		writeTestJSON(w, http.StatusOK, sampleFamily())
	}))
	mux.HandleFunc("POST /api/families/generations/{id}/members", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastBody = body
		f.mu.Unlock()
		writeTestJSON(w, http.StatusCreated, family.Member{ID: 9, APIID: "m9", Name: "孙女"})
	}))
	mux.HandleFunc("PUT /api/families/members/{id}", f.authed(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.lastBody = body
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv.URL + "/api"
}

func (f *fakeAPI) authed(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+fakeToken {
			writeTestJSON(w, http.StatusUnauthorized, map[string]string{"message": "login required"})
			return
		}
		h(w, r)
	}
}

func (f *fakeAPI) gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.familyGets
}

func (f *fakeAPI) body() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastBody
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
