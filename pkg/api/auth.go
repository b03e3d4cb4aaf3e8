package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/session"
)

// Verification code purposes accepted by SendCode.
const (
	CodeRegister      = "register"
	CodeResetPassword = "reset_password"
)

// AuthResponse is returned by Login and Register.
type AuthResponse struct {
	User  family.User `json:"user"`
	Token string      `json:"token"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Nickname         string `json:"nickname"`
	Phone            string `json:"phone"`
	VerificationCode string `json:"verificationCode"`
}

// ProfileUpdate changes the current user. Nil fields are left alone.
type ProfileUpdate struct {
	Nickname *string `json:"nickname,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// SendCode asks the service to email a verification code. kind defaults to
// CodeRegister. The service's confirmation message is returned.
func (c *Client) SendCode(ctx context.Context, email, kind string) (string, error) {
	email = strings.TrimSpace(email)
	if err := errors.ValidateEmail(email); err != nil {
		return "", err
	}
	if kind == "" {
		kind = CodeRegister
	}
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "auth/send-code", nil, map[string]string{"email": email, "type": kind}, &resp)
	return resp.Message, err
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := errors.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	for _, f := range [][2]string{
		{"password", in.Password},
		{"nickname", in.Nickname},
		{"verification code", in.VerificationCode},
	} {
		if err := errors.ValidateRequired(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "auth/register", nil, in, &resp); err != nil {
		return nil, err
	}
	return &resp, c.storeSession(ctx, &resp)
}

// Login signs in with an email or username and stores the session.
func (c *Client) Login(ctx context.Context, emailOrUsername, password string) (*AuthResponse, error) {
	emailOrUsername = strings.TrimSpace(emailOrUsername)
	if err := errors.ValidateRequired("email or username", emailOrUsername); err != nil {
		return nil, err
	}
	if err := errors.ValidateRequired("password", password); err != nil {
		return nil, err
	}
	body := map[string]string{"emailOrUsername": emailOrUsername, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return &resp, c.storeSession(ctx, &resp)
}

// Logout forgets the stored session. The service keeps no logout endpoint.
func (c *Client) Logout(ctx context.Context) error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Clear(ctx)
}

// Profile returns the signed-in user.
func (c *Client) Profile(ctx context.Context) (*family.User, error) {
	var u family.User
	if err := c.do(ctx, http.MethodGet, "auth/profile", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes the signed-in user and refreshes the stored copy.
func (c *Client) UpdateProfile(ctx context.Context, in ProfileUpdate) (*family.User, error) {
	var u family.User
	if err := c.do(ctx, http.MethodPut, "auth/profile", nil, in, &u); err != nil {
		return nil, err
	}
	if c.sessions != nil {
		if s, err := c.sessions.Get(ctx); err == nil && s != nil {
			s.User = &u
			_ = c.sessions.Set(ctx, s)
		}
	}
	return &u, nil
}

func (c *Client) storeSession(ctx context.Context, resp *AuthResponse) error {
	if c.sessions == nil || resp.Token == "" {
		return nil
	}
	user := resp.User
	return c.sessions.Set(ctx, session.New(resp.Token, &user, 0))
}
