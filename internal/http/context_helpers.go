package httpx

import (
	"context"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// claimsKey is the unexported context key for the authenticated identity.
type claimsKey struct{}

// SetClaimsInContext stores the authenticated claims in the context.
func SetClaimsInContext(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the authenticated claims, or nil when the
// request carried no usable session.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}
