package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "access_token"

// ErrInvalidCredentials is returned by Client.Login on a rejected login.
var ErrInvalidCredentials = errors.New("session: invalid credentials")

// Client talks to the portal's identity endpoints. It implements Fetcher
// for the Cache and carries the login/logout calls the admin CLI needs.
// The token is supplied by TokenSource so callers control persistence.
type Client struct {
	// BaseURL is the portal root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient defaults to a 10s-timeout client.
	HTTPClient *http.Client
	// TokenSource returns the current session token, or "" when logged
	// out. Optional.
	TokenSource func() string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) baseURL() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}

// meEnvelope is the identity endpoint response contract.
type meEnvelope struct {
	Me *auth.Claims `json:"me"`
}

// FetchIdentity performs one identity check against GET /api/auth/me.
// A "me": null body means no authenticated session and returns (nil, nil);
// transport failures and non-2xx statuses are errors.
func (c *Client) FetchIdentity(ctx context.Context) (*auth.Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("session: build identity request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	c.attachToken(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("session: identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("session: identity endpoint returned %d", resp.StatusCode)
	}

	var envelope meEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("session: decode identity response: %w", err)
	}
	return envelope.Me, nil
}

// LoginResult is the confirmation payload plus the issued session token.
type LoginResult struct {
	Token      string
	RedirectTo string
	Role       auth.Role
	Name       string
	Email      string
}

// Login posts credentials to the login endpoint and extracts the session
// token from the Set-Cookie response header. After a successful Login the
// caller must force-refresh any Cache built on this client.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("session: marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("session: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("session: login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("session: login endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		Me         *auth.Claims `json:"me"`
		RedirectTo string       `json:"redirectTo"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("session: decode login response: %w", err)
	}

	result := &LoginResult{RedirectTo: payload.RedirectTo}
	if payload.Me != nil {
		result.Role = payload.Me.Role
		result.Name = payload.Me.Name
		result.Email = payload.Me.Email
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName {
			result.Token = ck.Value
		}
	}
	if result.Token == "" {
		return nil, errors.New("session: login response carried no session cookie")
	}
	return result, nil
}

// Logout posts to the logout endpoint. Idempotent; safe without a token.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL()+"/api/auth/logout", http.NoBody)
	if err != nil {
		return fmt.Errorf("session: build logout request: %w", err)
	}
	c.attachToken(req)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("session: logout request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("session: logout endpoint returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) attachToken(req *http.Request) {
	if c.TokenSource == nil {
		return
	}
	if tok := c.TokenSource(); tok != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	}
}
