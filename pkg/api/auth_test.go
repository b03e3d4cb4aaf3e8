package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
)

func TestLoginStoresSession(t *testing.T) {
	var body map[string]string
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, AuthResponse{
			User:  family.User{ID: "u1", Nickname: "老王"},
			Token: "tok-1",
		})
	})
	ctx := context.Background()

	resp, err := c.Login(ctx, "  wang@example.com ", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if body["emailOrUsername"] != "wang@example.com" || body["password"] != "secret" {
		t.Errorf("login body = %v", body)
	}
	if resp.User.Nickname != "老王" {
		t.Errorf("Login() user = %+v", resp.User)
	}
	s, _ := store.Get(ctx)
	if s == nil || s.Token != "tok-1" || s.User.ID != "u1" {
		t.Errorf("stored session = %+v", s)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Get(ctx); s != nil {
		t.Error("Logout did not clear session")
	}
}

func TestLoginValidation(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	ctx := context.Background()
	if _, err := c.Login(ctx, " ", "pw"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank user: %v", err)
	}
	if _, err := c.Login(ctx, "wang", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("blank password: %v", err)
	}
}

func TestRegister(t *testing.T) {
	var got RegisterInput
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, 201, AuthResponse{User: family.User{ID: "u2"}, Token: "tok-2"})
	})
	ctx := context.Background()

	in := RegisterInput{Email: "li@example.com", Password: "pw", Nickname: "小李", Phone: "123", VerificationCode: "8888"}
	if _, err := c.Register(ctx, in); err != nil {
		t.Fatal(err)
	}
	if got != in {
		t.Errorf("register body = %+v", got)
	}
	if s, _ := store.Get(ctx); s == nil || s.Token != "tok-2" {
		t.Errorf("stored session = %+v", s)
	}

	in.VerificationCode = ""
	if _, err := c.Register(ctx, in); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing code: %v", err)
	}
}

func TestSendCode(t *testing.T) {
	var body map[string]string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, 200, messageResponse{Message: "sent"})
	})
	msg, err := c.SendCode(context.Background(), "wang@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "sent" || body["type"] != CodeRegister || body["email"] != "wang@example.com" {
		t.Errorf("msg = %q, body = %v", msg, body)
	}
	if _, err := c.SendCode(context.Background(), "nope", ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad email: %v", err)
	}
}

func TestUpdateProfileRefreshesSession(t *testing.T) {
	var body map[string]any
	c, store := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeJSON(w, 200, AuthResponse{User: family.User{ID: "u1", Nickname: "old"}, Token: "t"})
		case "/api/auth/profile":
			if r.Method != http.MethodPut {
				t.Errorf("method = %s", r.Method)
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, 200, family.User{ID: "u1", Nickname: "new"})
		}
	})
	ctx := context.Background()
	if _, err := c.Login(ctx, "u", "p"); err != nil {
		t.Fatal(err)
	}

	nick := "new"
	u, err := c.UpdateProfile(ctx, ProfileUpdate{Nickname: &nick})
	if err != nil {
		t.Fatal(err)
	}
	if u.Nickname != "new" {
		t.Errorf("UpdateProfile() = %+v", u)
	}
	if _, ok := body["phone"]; ok {
		t.Errorf("unset field sent: %v", body)
	}
	if s, _ := store.Get(ctx); s.User.Nickname != "new" {
		t.Errorf("stored user = %+v", s.User)
	}
}
