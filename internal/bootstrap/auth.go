package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sva-utd/portal-api/config"
	"github.com/sva-utd/portal-api/internal/adapters/backendauth"
	"github.com/sva-utd/portal-api/internal/adapters/mockauth"
	"github.com/sva-utd/portal-api/internal/adapters/oidcauth"
	"github.com/sva-utd/portal-api/internal/data/memstore"
	"github.com/sva-utd/portal-api/internal/ports"
	"github.com/sva-utd/portal-api/internal/service"
)

// AuthDeps contains dependencies for the auth service.
type AuthDeps struct {
	Auth     config.AuthConfig
	Users    *memstore.Users
	Denylist ports.TokenDenylist
	Logger   *slog.Logger
}

// BuildAuthService creates the auth service for the configured auth mode.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	switch deps.Auth.Mode {
	case config.AuthModeMock:
		return buildMockAuthService(deps)
	case config.AuthModeBackend:
		return buildBackendAuthService(deps)
	default:
		return nil, fmt.Errorf("unsupported auth mode: %q", deps.Auth.Mode)
	}
}

func buildMockAuthService(deps AuthDeps) (*service.AuthService, error) {
	provider, err := mockauth.New(mockauth.Config{
		Users:      deps.Users,
		SessionTTL: deps.Auth.Mock.SessionTTL,
		Logger:     deps.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build mock auth provider: %w", err)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: provider,
		Identity:      provider,
		Denylist:      deps.Denylist,
		Logger:        deps.Logger,
	}), nil
}

func buildBackendAuthService(deps AuthDeps) (*service.AuthService, error) {
	backend := deps.Auth.Backend
	provider, err := backendauth.New(backendauth.Config{
		BaseURL:    backend.BaseURL,
		CookieTTL:  backend.SessionTTL,
		HTTPClient: &http.Client{Timeout: backend.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("build backend auth provider: %w", err)
	}

	// Identity reads go through JWKS verification when a discovery URL is
	// configured; otherwise the backend's /auth/me endpoint is trusted.
	var identity ports.IdentityReader = provider
	if backend.OIDCDiscoveryURL != "" {
		reader, rerr := oidcauth.New(oidcauth.Config{
			DiscoveryURL: backend.OIDCDiscoveryURL,
			ClientID:     backend.OIDCClientID,
			Logger:       deps.Logger,
		})
		if rerr != nil {
			return nil, fmt.Errorf("build oidc identity reader: %w", rerr)
		}
		identity = reader
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Authenticator: provider,
		Identity:      identity,
		Denylist:      deps.Denylist,
		Logger:        deps.Logger,
	}), nil
}
