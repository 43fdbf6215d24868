package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeMock uses the in-memory fixture auth provider with locally
	// issued, unsigned session tokens (for development and demos only).
	AuthModeMock AuthMode = "mock"
	// AuthModeBackend delegates credential checks and identity reads to a
	// remote backend service.
	AuthModeBackend AuthMode = "backend"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "mock", "backend":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: mock, backend)", v)
	}
}

// MockAuthConfig controls the fixture auth provider.
// Used when AUTH_MODE=mock.
type MockAuthConfig struct {
	// SessionTTL is the validity window stamped into issued tokens and
	// mirrored by the session cookie max-age.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`
}

// BackendConfig controls the remote backend auth provider.
// Used when AUTH_MODE=backend.
type BackendConfig struct {
	// BaseURL is the root of the backend auth API
	// (e.g., "https://api.example.org"); login and identity requests are
	// proxied to {BaseURL}/auth/login and {BaseURL}/auth/me.
	BaseURL string `env:"BASE_URL"`

	// OIDCDiscoveryURL, when set, switches identity reads from the /auth/me
	// proxy to local signature verification against the issuer's JWKS.
	// The edge gate itself never verifies; this only hardens the identity
	// endpoint.
	OIDCDiscoveryURL string `env:"OIDC_DISCOVERY_URL"`

	// OIDCClientID is the expected audience for verified tokens.
	// Empty skips the audience check.
	OIDCClientID string `env:"OIDC_CLIENT_ID"`

	// SessionTTL is the lifetime stamped on the session cookie that relays
	// the backend's token.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	// Timeout bounds outbound backend requests.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"mock"`

	// Mock configuration (used when Mode=mock).
	Mock MockAuthConfig `envPrefix:"MOCK_AUTH_"`

	// Backend configuration (used when Mode=backend).
	Backend BackendConfig `envPrefix:"AUTH_BACKEND_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.Mock.SessionTTL <= 0 {
		a.Mock.SessionTTL = time.Hour
	}
	if a.Backend.SessionTTL <= 0 {
		a.Backend.SessionTTL = time.Hour
	}
	if a.Backend.Timeout <= 0 {
		a.Backend.Timeout = 10 * time.Second
	}
	a.Backend.BaseURL = strings.TrimSuffix(a.Backend.BaseURL, "/")
}
