package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/gate"
	"github.com/sva-utd/portal-api/internal/session"
	"github.com/sva-utd/portal-api/internal/token"
)

// fakeIdentity is a test double for IdentityService.
type fakeIdentity struct {
	identityFunc func(ctx context.Context, tok string) (*domainauth.Claims, error)
}

func (f *fakeIdentity) Identity(ctx context.Context, tok string) (*domainauth.Claims, error) {
	if f.identityFunc != nil {
		return f.identityFunc(ctx, tok)
	}
	return nil, nil
}

func adminIdentity() *fakeIdentity {
	return &fakeIdentity{identityFunc: func(_ context.Context, _ string) (*domainauth.Claims, error) {
		return &domainauth.Claims{Subject: "mock_admin_1", Role: domainauth.RoleAdmin}, nil
	}}
}

func memberIdentity() *fakeIdentity {
	return &fakeIdentity{identityFunc: func(_ context.Context, _ string) (*domainauth.Claims, error) {
		return &domainauth.Claims{Subject: "mock_user_1", Role: domainauth.RoleMember}, nil
	}}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func withSessionCookie(r *http.Request, tok string) *http.Request {
	r.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: tok})
	return r
}

func TestRequireAuth(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		called := false
		handler := RequireAuth(memberIdentity(), nil)(okHandler(&called))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/members", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})

	t.Run("valid session", func(t *testing.T) {
		var got *domainauth.Claims
		handler := RequireAuth(memberIdentity(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ClaimsFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/members", nil), "tok")
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, "mock_user_1", got.Subject)
	})

	t.Run("transport failure fails closed", func(t *testing.T) {
		svc := &fakeIdentity{identityFunc: func(context.Context, string) (*domainauth.Claims, error) {
			return nil, errors.New("redis down")
		}}
		called := false
		handler := RequireAuth(svc, nil)(okHandler(&called))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/api/members", nil), "tok")
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, called)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Run("admin passes", func(t *testing.T) {
		called := false
		handler := RequireAdmin(adminIdentity(), nil)(okHandler(&called))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/admin/events", nil), "tok")
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("member forbidden", func(t *testing.T) {
		called := false
		handler := RequireAdmin(memberIdentity(), nil)(okHandler(&called))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodPost, "/api/admin/events", nil), "tok")
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, called)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		handler := RequireAdmin(adminIdentity(), nil)(okHandler(nil))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/events", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEdgeGate(t *testing.T) {
	g := gate.Gate{MockAuth: true}

	adminTok, err := token.Encode(domainauth.Claims{
		Subject: "mock_admin_1", Role: domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	memberTok, err := token.Encode(domainauth.Claims{
		Subject: "mock_user_1", Role: domainauth.RoleMember,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	t.Run("admin without token redirects to login with next", func(t *testing.T) {
		handler := EdgeGate(g, nil)(okHandler(nil))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/points", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login?next=%2Fadmin%2Fpoints", w.Header().Get("Location"))
	})

	t.Run("admin with member token redirects home", func(t *testing.T) {
		handler := EdgeGate(g, nil)(okHandler(nil))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), memberTok)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("admin with admin token continues", func(t *testing.T) {
		called := false
		handler := EdgeGate(g, nil)(okHandler(&called))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), adminTok)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})

	t.Run("login with token redirects home", func(t *testing.T) {
		handler := EdgeGate(g, nil)(okHandler(nil))

		w := httptest.NewRecorder()
		req := withSessionCookie(httptest.NewRequest(http.MethodGet, "/login", nil), memberTok)
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})

	t.Run("ungated paths bypass evaluation", func(t *testing.T) {
		called := false
		handler := EdgeGate(g, nil)(okHandler(&called))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/evt_001", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, called)
	})
}

func TestLoginRateLimiter(t *testing.T) {
	limiter := NewLoginRateLimiter(10, 2)
	handler := limiter.Middleware()(okHandler(nil))

	newReq := func(addr string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		r.RemoteAddr = addr
		return r
	}

	// Burst of 2 passes, third is throttled.
	for range 2 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newReq("10.0.0.1:1234"))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newReq("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// A different address has its own budget.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, newReq("10.0.0.2:1234"))
	assert.Equal(t, http.StatusOK, w.Code)
}
