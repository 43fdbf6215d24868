package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sva-utd/portal-api/internal/domain/auth"
	"github.com/sva-utd/portal-api/internal/gate"
	"github.com/sva-utd/portal-api/internal/observability/metrics"
	"github.com/sva-utd/portal-api/internal/session"
)

// IdentityService resolves a session token to claims. Nil claims with a
// nil error means no usable session.
type IdentityService interface {
	Identity(ctx context.Context, tok string) (*auth.Claims, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// EdgeGate returns the navigation middleware. Every page request passes
// through the gate exactly once; redirect outcomes short-circuit with a
// 302 and Continue falls through to the page handler. Paths outside the
// gate's matcher skip evaluation entirely.
func EdgeGate(g gate.Gate, rec *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !gate.Matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			tok, hasToken := sessionToken(r)
			decision := g.Evaluate(r.URL.Path, tok, hasToken)
			rec.RecordGateDecision(decision.Class.String(), decision.Outcome.String())

			switch decision.Outcome {
			case gate.RedirectToLogin, gate.RedirectHome:
				http.Redirect(w, r, decision.Location, http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAuth returns a middleware that requires an authenticated session
// on API routes. It returns a 401 JSON response when there is none.
func RequireAuth(svc IdentityService, rec *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromRequest(r, svc, rec)
			if claims == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetClaimsInContext(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that requires an ADMIN session on API
// routes: 401 without a session, 403 with a non-admin one.
func RequireAdmin(svc IdentityService, rec *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromRequest(r, svc, rec)
			if claims == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			if !claims.Role.IsAdmin() {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetClaimsInContext(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionToken reads the raw session cookie. The second return is false
// when the cookie is absent entirely.
func sessionToken(r *http.Request) (string, bool) {
	c, err := r.Cookie(session.SessionCookieName)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// claimsFromRequest resolves the session cookie to claims, failing closed:
// transport errors count as no session for authorization purposes.
func claimsFromRequest(r *http.Request, svc IdentityService, rec *metrics.Collector) *auth.Claims {
	tok, ok := sessionToken(r)
	if !ok {
		rec.RecordIdentityCheck(metrics.IdentityAnonymous)
		return nil
	}

	claims, err := svc.Identity(r.Context(), tok)
	if err != nil {
		rec.RecordIdentityCheck(metrics.IdentityError)
		return nil
	}
	if claims == nil {
		rec.RecordIdentityCheck(metrics.IdentityAnonymous)
		return nil
	}
	rec.RecordIdentityCheck(metrics.IdentityAuthenticated)
	return claims
}

// ipLimiter pairs a limiter with its last-seen time so idle entries can
// be dropped.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles login attempts per client IP.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	limit    rate.Limit
	burst    int
}

// NewLoginRateLimiter creates a limiter allowing perMinute attempts per IP
// with the given burst.
func NewLoginRateLimiter(perMinute, burst int) *LoginRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginRateLimiter{
		limiters: make(map[string]*ipLimiter),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

// Middleware rejects over-limit requests with 429 before they reach the
// login handler.
func (rl *LoginRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				WriteError(w, ErrorParams{
					Code:    http.StatusTooManyRequests,
					ErrCode: "rate_limit_exceeded",
					Err:     errors.New("too many login attempts"),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

const limiterIdleTTL = 10 * time.Minute

func (rl *LoginRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst), lastSeen: now}
		rl.limiters[ip] = entry
		// Opportunistic sweep keeps the map bounded without a goroutine.
		for addr, e := range rl.limiters {
			if now.Sub(e.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, addr)
			}
		}
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}
