package ports

// Package ports defines interfaces (hexagonal ports) for auth-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"
	"time"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// ErrInvalidCredentials is returned by Authenticator.Login for unknown
// emails and wrong passwords alike, so failures don't reveal which half
// was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}

// LoginResult is a successful credential exchange: the session token to
// set as the cookie, its claims, and the cookie lifetime.
type LoginResult struct {
	Token     string
	Claims    auth.Claims
	CookieTTL time.Duration
}

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	// Login verifies credentials and issues (or relays) a session token.
	// Rejected credentials return auth-domain errors, not transport ones.
	Login(ctx context.Context, creds Credentials) (LoginResult, error)
}

// IdentityReader resolves a raw session token to claims.
// (nil, nil) means "no usable session": absent, malformed, expired, or
// rejected tokens all land there — callers fail closed on nil.
// A non-nil error is a transport/infrastructure failure only.
type IdentityReader interface {
	Identity(ctx context.Context, tok string) (*auth.Claims, error)
}

// TokenDenylist records revoked session tokens until they would have
// expired anyway. Implementations may be absent (nil port) in deployments
// without shared storage; logout then only clears the client cookie.
type TokenDenylist interface {
	Revoke(ctx context.Context, tok string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tok string) (bool, error)
}
