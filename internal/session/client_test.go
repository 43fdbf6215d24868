package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchIdentity_Authenticated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		cookie, err := r.Cookie(SessionCookieName)
		require.NoError(t, err)
		assert.Equal(t, "tok123", cookie.Value)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"me":{"sub":"mock_user_1","name":"Dummy Member","role":"MEMBER"}}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, TokenSource: func() string { return "tok123" }}
	claims, err := client.FetchIdentity(context.Background())
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "mock_user_1", claims.Subject)
}

func TestClient_FetchIdentity_NullMeansLoggedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"me":null}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	claims, err := client.FetchIdentity(context.Background())
	require.NoError(t, err)
	assert.Nil(t, claims)
}

func TestClient_FetchIdentity_ServerErrorIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	_, err := client.FetchIdentity(context.Background())
	require.Error(t, err)
}

func TestClient_Login_ExtractsCookieToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: SessionCookieName, Value: "issued-token"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"me":{"sub":"mock_admin_1","name":"Dummy Admin","email":"admin@sva-utdallas.org","role":"ADMIN"},"redirectTo":"/admin"}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	result, err := client.Login(context.Background(), "admin@sva-utdallas.org", "Admin123!")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", result.Token)
	assert.Equal(t, "Dummy Admin", result.Name)
	assert.True(t, result.Role.IsAdmin())
	assert.Equal(t, "/admin", result.RedirectTo)
}

func TestClient_Login_RejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	_, err := client.Login(context.Background(), "admin@sva-utdallas.org", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestClient_Login_MissingCookieIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"me":null}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL}
	_, err := client.Login(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
}

func TestClient_Logout(t *testing.T) {
	var sawToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/logout", r.URL.Path)
		if c, err := r.Cookie(SessionCookieName); err == nil {
			sawToken = c.Value
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL, TokenSource: func() string { return "tok123" }}
	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, "tok123", sawToken)
}
