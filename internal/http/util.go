package httpx

import (
	"net/http"
	"strings"
)

// SafeRedirectPath validates a post-login redirect target. Only same-origin
// relative paths survive: the candidate must start with exactly one "/",
// must not start with "//" (protocol-relative), and must not contain "://"
// anywhere. Anything else collapses to "/".
func SafeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	if !strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	if strings.Contains(candidate, "://") {
		return "/"
	}
	return candidate
}

// validationErrorPatterns classifies service errors as 400s. Kept at
// package scope to avoid per-call allocations in isValidationError.
var validationErrorPatterns = []string{
	"is required and cannot be empty",
	"must be a valid",
	"must be at least",
	"must be one of:",
	"must be non-negative",
	"must be non-zero",
}

// isValidationError checks for common validation error patterns to decide 400 vs 5xx.
func isValidationError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range validationErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// isSecureRequest reports whether the request arrived over TLS, either
// directly or via a terminating proxy that set X-Forwarded-Proto.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// clientIP extracts the caller's address for rate limiting. The first
// X-Forwarded-For hop wins when a proxy is in front; otherwise the
// host half of RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.IndexByte(fwd, ','); idx >= 0 {
			fwd = fwd[:idx]
		}
		return strings.TrimSpace(fwd)
	}
	host := r.RemoteAddr
	if idx := strings.LastIndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	return host
}
