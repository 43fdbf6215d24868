package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/domain/model"
	"github.com/sva-utd/portal-api/internal/observability/metrics"
	"github.com/sva-utd/portal-api/internal/ports"
	"github.com/sva-utd/portal-api/internal/service"
	"github.com/sva-utd/portal-api/internal/session"
)

// AuthAPI is the slice of the auth service the HTTP handlers use.
type AuthAPI interface {
	Login(ctx context.Context, creds ports.Credentials) (ports.LoginResult, error)
	Identity(ctx context.Context, tok string) (*domainauth.Claims, error)
	Logout(ctx context.Context, tok string) error
}

// SignupAPI registers new members.
type SignupAPI interface {
	Signup(ctx context.Context, in service.SignupInput) (model.User, error)
}

// AuthHandlers provides HTTP handlers for the session lifecycle.
type AuthHandlers struct {
	Svc          AuthAPI
	Members      SignupAPI
	CookieDomain string
	Metrics      *metrics.Collector
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles credential exchange.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), ports.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, ports.ErrInvalidCredentials) {
			h.Metrics.RecordLogin(metrics.LoginRejected)
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     err,
			})
			return
		}
		h.Metrics.RecordLogin(metrics.LoginError)
		h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login failed"),
		})
		return
	}

	h.Metrics.RecordLogin(metrics.LoginSuccess)
	h.setSessionCookie(w, r, result.Token, result.CookieTTL)

	// The client lands wherever the gate sent it from, but only if that
	// target is a same-origin path.
	redirectTo := SafeRedirectPath(r.URL.Query().Get("next"))
	WriteJSON(w, http.StatusOK, map[string]any{"me": result.Claims, "redirectTo": redirectTo})
}

// Logout revokes the session server-side and clears the cookie.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if tok, ok := sessionToken(r); ok {
		if err := h.Svc.Logout(r.Context(), tok); err != nil {
			h.logger().WarnContext(r.Context(), "logout revocation failed", "error", err)
		}
	}
	h.clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the current identity, or null when there is no usable
// session. A cookie that is present but unusable (malformed, expired,
// revoked) gets cleared so the client stops resending it.
// GET /api/auth/me.
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	tok, ok := sessionToken(r)
	if !ok {
		h.Metrics.RecordIdentityCheck(metrics.IdentityAnonymous)
		WriteJSON(w, http.StatusOK, map[string]any{"me": nil})
		return
	}

	claims, err := h.Svc.Identity(r.Context(), tok)
	if err != nil {
		h.Metrics.RecordIdentityCheck(metrics.IdentityError)
		h.logger().ErrorContext(r.Context(), "identity check failed", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "identity_unavailable",
			Err:     errors.New("identity check failed"),
		})
		return
	}
	if claims == nil {
		h.Metrics.RecordIdentityCheck(metrics.IdentityAnonymous)
		h.clearSessionCookie(w, r)
		WriteJSON(w, http.StatusOK, map[string]any{"me": nil})
		return
	}

	h.Metrics.RecordIdentityCheck(metrics.IdentityAuthenticated)
	WriteJSON(w, http.StatusOK, map[string]any{"me": claims})
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new member account.
// POST /api/auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Members.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "email_taken", Err: err})
		case isValidationError(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_signup", Err: err})
		default:
			h.logger().ErrorContext(r.Context(), "signup failed", "error", err)
			WriteError(w, ErrorParams{
				Code:    http.StatusInternalServerError,
				ErrCode: "signup_failed",
				Err:     errors.New("signup failed"),
			})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// setSessionCookie writes the session token cookie with the issued TTL.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, tok string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.SessionCookieName,
		Value:    tok,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

// clearSessionCookie expires the session cookie immediately, mirroring
// the attributes used when setting it so browsers actually drop it.
func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}
