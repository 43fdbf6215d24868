package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://portal.example.org").
	// Used by the admin CLI default and for generating absolute URLs.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// LoginRatePerMinute caps login attempts per client address.
	LoginRatePerMinute int `env:"HTTP_LOGIN_RATE_PER_MINUTE" envDefault:"10"`

	// LoginBurst is the burst size for the login rate limiter.
	LoginBurst int `env:"HTTP_LOGIN_BURST" envDefault:"5"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.LoginRatePerMinute < 1 {
		h.LoginRatePerMinute = 1
	}
	if h.LoginBurst < 1 {
		h.LoginBurst = 1
	}
}
