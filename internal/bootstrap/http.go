package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sva-utd/portal-api/config"
	"github.com/sva-utd/portal-api/internal/gate"
	httpx "github.com/sva-utd/portal-api/internal/http"
	"github.com/sva-utd/portal-api/internal/observability/metrics"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	registry := metrics.NewRegistry()
	collector := metrics.NewCollector(registry)

	services := httpx.RouterServices{
		Auth:    cfg.Services.Auth,
		Members: cfg.Services.Members,
		Events:  cfg.Services.Events,

		Gate:         gate.Gate{MockAuth: appCfg.Auth.Mode == config.AuthModeMock},
		LoginLimiter: httpx.NewLoginRateLimiter(appCfg.HTTP.LoginRatePerMinute, appCfg.HTTP.LoginBurst),

		Metrics:        collector,
		MetricsHandler: metrics.Handler(registry),

		CookieDomain: appCfg.HTTP.CookieDomain,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	}

	handler := httpx.NewRouter(services)
	handler = httpx.Logging(logger)(handler)
	handler = httpx.Recover(logger)(handler)

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on the Go default.
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}

	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if logger != nil {
		logger.Info("HTTP server stopped")
	}
	return nil
}
