package httpx

import (
	"io/fs"
	"log/slog"
	"net/http"

	portal "github.com/sva-utd/portal-api"
	"github.com/sva-utd/portal-api/internal/gate"
	"github.com/sva-utd/portal-api/internal/observability/metrics"
	"github.com/sva-utd/portal-api/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth    *service.AuthService
	Members *service.MemberService
	Events  *service.EventService

	Gate         gate.Gate
	LoginLimiter *LoginRateLimiter

	// Metrics is the collector handlers record into; MetricsHandler, when
	// set, is mounted at /metrics.
	Metrics        *metrics.Collector
	MetricsHandler http.Handler

	CookieDomain string
	IsDev        bool
	Logger       *slog.Logger
}

// NewRouter creates and configures the portal's HTTP router. API routes
// carry their own auth middleware; navigation routes go through the edge
// gate before reaching the page shell.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Svc:          services.Auth,
		Members:      services.Members,
		CookieDomain: services.CookieDomain,
		Metrics:      services.Metrics,
		Logger:       services.Logger,
	}
	eventHandlers := &EventHandlers{Svc: services.Events}
	memberHandlers := &MemberHandlers{Svc: services.Members}

	registerAuthRoutes(mux, authHandlers, services.LoginLimiter)
	registerEventRoutes(mux, eventHandlers, services)
	registerMemberRoutes(mux, memberHandlers, services)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if services.MetricsHandler != nil {
		mux.Handle("GET /metrics", services.MetricsHandler)
	}

	mux.Handle("GET /static/", staticAssets(services.IsDev))

	// Everything else is a navigation request answered by the app shell.
	mux.Handle("GET /", http.HandlerFunc(servePageShell))

	return EdgeGate(services.Gate, services.Metrics)(mux)
}

// staticAssets serves /static/* files. Dev mode reads from disk so asset
// edits show up without a rebuild; production serves the embedded bundle.
func staticAssets(isDev bool) http.Handler {
	if isDev {
		h := http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static")))
		return noStoreStatic(h)
	}
	sub, err := fs.Sub(portal.StaticFS, "frontend/static")
	if err != nil {
		// Embed path mismatch; disk is better than serving nothing.
		h := http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static")))
		return noStoreStatic(h)
	}
	return cachedStatic(http.StripPrefix("/static/", http.FileServer(http.FS(sub))))
}

func cachedStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

func noStoreStatic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, limiter *LoginRateLimiter) {
	login := http.Handler(http.HandlerFunc(h.Login))
	signup := http.Handler(http.HandlerFunc(h.Signup))
	if limiter != nil {
		login = limiter.Middleware()(login)
		signup = limiter.Middleware()(signup)
	}

	mux.Handle("POST /api/auth/login", login)
	mux.Handle("POST /api/auth/signup", signup)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/auth/me", h.Me)
}

func registerEventRoutes(mux *http.ServeMux, h *EventHandlers, services RouterServices) {
	authOnly := RequireAuth(services.Auth, services.Metrics)
	adminOnly := RequireAdmin(services.Auth, services.Metrics)

	mux.HandleFunc("GET /api/events", h.List)
	mux.HandleFunc("GET /api/events/{id}", h.Get)

	mux.Handle("POST /api/events/{id}/register", authOnly(http.HandlerFunc(h.Register)))
	mux.Handle("DELETE /api/events/{id}/register", authOnly(http.HandlerFunc(h.CancelRegistration)))

	mux.Handle("POST /api/admin/events", adminOnly(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/admin/events/{id}", adminOnly(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/admin/events/{id}", adminOnly(http.HandlerFunc(h.Delete)))
}

func registerMemberRoutes(mux *http.ServeMux, h *MemberHandlers, services RouterServices) {
	authOnly := RequireAuth(services.Auth, services.Metrics)
	adminOnly := RequireAdmin(services.Auth, services.Metrics)

	mux.Handle("GET /api/members", authOnly(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/members/{id}", authOnly(http.HandlerFunc(h.Get)))
	mux.Handle("GET /api/profile", authOnly(http.HandlerFunc(h.Profile)))

	mux.Handle("POST /api/admin/members/{id}/points", adminOnly(http.HandlerFunc(h.Adjust)))
}
