package mockauth

// Package mockauth provides the fixture-backed auth provider for local
// development and demo deployments. It issues unsigned compact tokens
// whose claims the edge gate and identity endpoint read directly.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sva-utd/portal-api/internal/data/memstore"
	"github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/domain/model"
	"github.com/sva-utd/portal-api/internal/ports"
	"github.com/sva-utd/portal-api/internal/token"
)

// UserSource is the slice of the user store the provider needs.
type UserSource interface {
	ByEmail(email string) (model.User, error)
}

// Config controls the mock auth provider.
type Config struct {
	Users      UserSource
	SessionTTL time.Duration // default 1h when zero
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Provider implements ports.Authenticator and ports.IdentityReader against
// the fixture user store.
type Provider struct {
	users  UserSource
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// New constructs a mock auth provider.
func New(cfg Config) (*Provider, error) {
	if cfg.Users == nil {
		return nil, errors.New("mockauth: user source is required")
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Provider{
		users:  cfg.Users,
		ttl:    cfg.SessionTTL,
		now:    cfg.Clock,
		logger: cfg.Logger,
	}, nil
}

// Login verifies the credentials against the fixture store and issues an
// unsigned session token. Passwordless fixture accounts can never log in.
func (p *Provider) Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error) {
	user, err := p.users.ByEmail(creds.Email)
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return ports.LoginResult{}, ports.ErrInvalidCredentials
		}
		return ports.LoginResult{}, fmt.Errorf("mockauth: lookup user: %w", err)
	}
	if user.Password == "" || user.Password != creds.Password {
		return ports.LoginResult{}, ports.ErrInvalidCredentials
	}

	now := p.now()
	claims := auth.Claims{
		Subject:   user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		SubRole:   user.SubRole,
		Status:    string(user.Status),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(p.ttl).Unix(),
	}

	tok, err := token.Encode(claims)
	if err != nil {
		return ports.LoginResult{}, fmt.Errorf("mockauth: issue token: %w", err)
	}

	p.logger.InfoContext(ctx, "mock login", "user", user.ID, "role", string(user.Role))
	return ports.LoginResult{Token: tok, Claims: claims, CookieTTL: p.ttl}, nil
}

// Identity decodes the token's claims. Malformed and expired tokens are
// "no usable session" (nil, nil), never an error: the caller clears the
// cookie and treats the visitor as logged out.
func (p *Provider) Identity(ctx context.Context, tok string) (*auth.Claims, error) {
	claims, err := token.DecodeClaims(tok)
	if err != nil {
		p.logger.DebugContext(ctx, "rejecting malformed session token", "error", err)
		return nil, nil
	}
	if claims.Expired(p.now()) {
		return nil, nil
	}
	return &claims, nil
}
