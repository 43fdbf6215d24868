package backendauth

// Package backendauth proxies credential checks and identity reads to a
// remote backend service. The portal relays the backend's token into its
// own session cookie and never inspects signatures itself.

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
	"github.com/sva-utd/portal-api/internal/ports"
)

const sessionCookieName = "access_token"

// Config holds configuration for the backend provider.
type Config struct {
	// BaseURL is the backend root; login posts to {BaseURL}/auth/login and
	// identity reads hit {BaseURL}/auth/me.
	BaseURL string
	// CookieTTL is the lifetime stamped on the relayed session cookie.
	CookieTTL time.Duration
	// HTTPClient defaults to a 10s-timeout client.
	HTTPClient *http.Client
}

// Provider implements ports.Authenticator and ports.IdentityReader by
// delegating to the backend.
type Provider struct {
	baseURL   string
	cookieTTL time.Duration
	client    *http.Client
}

// New constructs a backend provider.
func New(cfg Config) (*Provider, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backendauth: base URL is required")
	}
	if cfg.CookieTTL <= 0 {
		cfg.CookieTTL = time.Hour
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Provider{
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		cookieTTL: cfg.CookieTTL,
		client:    client,
	}, nil
}

// Login forwards the credentials and extracts the session token from the
// response body (access_token/token fields) or the backend's Set-Cookie
// header, whichever is present.
func (p *Provider) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"email":    creds.Email,
		"password": creds.Password,
	})
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("backendauth: marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("backendauth: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("backendauth: login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.LoginResult{}, fmt.Errorf("backendauth: login returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ports.LoginResult{}, fmt.Errorf("backendauth: decode login response: %w", err)
	}

	tok := payload.AccessToken
	if tok == "" {
		tok = payload.Token
	}
	if tok == "" {
		for _, ck := range resp.Cookies() {
			if ck.Name == sessionCookieName {
				tok = ck.Value
			}
		}
	}
	if tok == "" {
		return ports.LoginResult{}, errors.New("backendauth: login response carried no token")
	}

	result := ports.LoginResult{Token: tok, CookieTTL: p.cookieTTL}
	if claims, idErr := p.Identity(ctx, tok); idErr == nil && claims != nil {
		result.Claims = *claims
	}
	return result, nil
}

// Identity asks the backend who the token belongs to. 401/403 mean no
// session; other failures are transport errors the caller surfaces.
func (p *Provider) Identity(ctx context.Context, tok string) (*auth.Claims, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("backendauth: build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backendauth: identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backendauth: identity returned %d", resp.StatusCode)
	}

	var claims auth.Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("backendauth: decode identity response: %w", err)
	}
	return &claims, nil
}
