package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/ports"
	"github.com/sva-utd/portal-api/internal/token"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Authenticator ports.Authenticator
	Identity      ports.IdentityReader
	// Denylist is optional; nil disables server-side revocation.
	Denylist ports.TokenDenylist
	Clock    func() time.Time
	Logger   *slog.Logger
}

// AuthService orchestrates the session lifecycle: credential exchange,
// identity reads (with revocation checks), and logout.
type AuthService struct {
	authenticator ports.Authenticator
	identity      ports.IdentityReader
	denylist      ports.TokenDenylist
	now           func() time.Time
	logger        *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &AuthService{
		authenticator: opts.Authenticator,
		identity:      opts.Identity,
		denylist:      opts.Denylist,
		now:           opts.Clock,
		logger:        opts.Logger,
	}
}

// Login exchanges credentials for a session token.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	if creds.Email == "" || creds.Password == "" {
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	}
	result, err := s.authenticator.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			return ports.LoginResult{}, err
		}
		return ports.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	return result, nil
}

// Identity resolves a session token to claims. Nil claims means no usable
// session: empty, malformed, expired, or revoked tokens all land there.
// Errors are transport failures only.
func (s *AuthService) Identity(ctx context.Context, tok string) (*auth.Claims, error) {
	if tok == "" {
		return nil, nil
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, tok)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, nil
		}
	}

	claims, err := s.identity.Identity(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}
	return claims, nil
}

// Logout revokes the token until it would have expired. Idempotent; a
// missing token or absent denylist is not an error — the cookie clear the
// HTTP layer performs is then the whole logout.
func (s *AuthService) Logout(ctx context.Context, tok string) error {
	if tok == "" || s.denylist == nil {
		return nil
	}

	ttl := time.Hour
	if claims, err := token.DecodeClaims(tok); err == nil && claims.ExpiresAt != 0 {
		ttl = time.Unix(claims.ExpiresAt, 0).Sub(s.now())
	}
	if ttl <= 0 {
		// Already expired; nothing left to revoke.
		return nil
	}

	if err := s.denylist.Revoke(ctx, tok, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}
