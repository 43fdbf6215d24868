package oidcauth

// Package oidcauth provides a signature-verifying identity reader for
// backend deployments whose issuer publishes an OIDC discovery document.
// It hardens the identity endpoint only; the edge gate stays advisory and
// never sees verification keys.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// Config holds configuration for the verifying reader.
type Config struct {
	// DiscoveryURL is the issuer root or its full
	// /.well-known/openid-configuration URL.
	DiscoveryURL string
	// ClientID is the expected audience. Empty skips the audience check.
	ClientID string
	// HTTPClient defaults to a 30s-timeout client.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Reader implements ports.IdentityReader by verifying tokens against the
// issuer's JWKS. Tokens that fail verification — bad signature, expired,
// wrong audience — are "no usable session", not errors.
type Reader struct {
	verifier *gooidc.IDTokenVerifier
	logger   *slog.Logger
}

// New constructs a Reader, performing a single discovery fetch.
func New(cfg Config) (*Reader, error) {
	if cfg.DiscoveryURL == "" {
		return nil, errors.New("oidcauth: discovery URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	issuer := strings.TrimSuffix(cfg.DiscoveryURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	provider, err := gooidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidcauth: discover provider: %w", err)
	}

	verifierCfg := &gooidc.Config{ClientID: cfg.ClientID}
	if cfg.ClientID == "" {
		verifierCfg = &gooidc.Config{SkipClientIDCheck: true}
	}

	return &Reader{
		verifier: provider.Verifier(verifierCfg),
		logger:   logger,
	}, nil
}

// Identity verifies the token and maps its claims.
func (r *Reader) Identity(ctx context.Context, tok string) (*auth.Claims, error) {
	idToken, err := r.verifier.Verify(ctx, tok)
	if err != nil {
		r.logger.DebugContext(ctx, "token failed verification", "error", err)
		return nil, nil
	}

	var claims auth.Claims
	if err := idToken.Claims(&claims); err != nil {
		r.logger.DebugContext(ctx, "verified token carried undecodable claims", "error", err)
		return nil, nil
	}
	return &claims, nil
}
