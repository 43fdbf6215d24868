package gate

// Package gate decides, before any page content is produced, whether a
// navigation request may continue or must be redirected. It is pure:
// a path and the session cookie value go in, exactly one decision comes
// out. It never mutates cookies and never performs I/O.

import (
	"net/url"
	"strings"

	"github.com/sva-utd/portal-api/internal/token"
)

// RouteClass is the classification of a request path. Derived per request,
// never stored.
type RouteClass int

const (
	// RoutePublic is anything not matching the classes below; always
	// passed through.
	RoutePublic RouteClass = iota
	// RouteStaticOrAPI covers asset paths, the API prefix, and the
	// favicon; never evaluated for auth.
	RouteStaticOrAPI
	// RouteEvents is the public events browsing subtree; passed through
	// regardless of auth.
	RouteEvents
	// RouteAuthEntry is the exact login/signup pages; authenticated
	// visitors are redirected away.
	RouteAuthEntry
	// RouteAdmin is the admin subtree; requires a session and, in
	// mock-auth mode, an ADMIN role claim.
	RouteAdmin
	// RouteAuthOnly is the profile/members subtree; requires any session,
	// role-agnostic.
	RouteAuthOnly
)

// String returns the class name for logs and metrics labels.
func (c RouteClass) String() string {
	switch c {
	case RouteStaticOrAPI:
		return "static_or_api"
	case RouteEvents:
		return "events"
	case RouteAuthEntry:
		return "auth_entry"
	case RouteAdmin:
		return "admin"
	case RouteAuthOnly:
		return "auth_only"
	default:
		return "public"
	}
}

// Outcome is the gate's verdict for a request.
type Outcome int

const (
	// Continue renders the requested route.
	Continue Outcome = iota
	// RedirectToLogin sends the visitor to the login page, preserving the
	// originally requested path in the "next" query parameter.
	RedirectToLogin
	// RedirectHome sends the visitor to "/", dropping any "next" value.
	RedirectHome
)

// String returns the outcome name for logs and metrics labels.
func (o Outcome) String() string {
	switch o {
	case RedirectToLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "continue"
	}
}

// Decision is the gate's full answer: the outcome plus, for redirects, the
// target location.
type Decision struct {
	Outcome  Outcome
	Location string // empty for Continue
	Class    RouteClass
}

const (
	loginPath  = "/login"
	signupPath = "/signup"
	homePath   = "/"
)

// Classify maps a request path to its route class. First match wins, in the
// same order Evaluate checks them.
func Classify(path string) RouteClass {
	switch {
	case strings.HasPrefix(path, "/static/"),
		strings.HasPrefix(path, "/assets/"),
		strings.HasPrefix(path, "/api/"),
		path == "/favicon.ico":
		return RouteStaticOrAPI
	case underSubtree(path, "/events"):
		return RouteEvents
	case path == loginPath || path == signupPath:
		return RouteAuthEntry
	case underSubtree(path, "/admin"):
		return RouteAdmin
	case underSubtree(path, "/profile"), underSubtree(path, "/members"):
		return RouteAuthOnly
	default:
		return RoutePublic
	}
}

func underSubtree(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}

// Gate evaluates navigation requests against the session cookie.
//
// In mock-auth mode the admin check decodes the (unverified) token and
// requires an ADMIN role claim. The check is deliberately expiry-blind:
// the identity endpoint is the authority on expiry and rejects expired
// sessions on the first data read, so the gate stays advisory. In backend
// mode no role check happens at the edge at all; cookie presence is
// sufficient and authorization is deferred to the backend. Both are
// documented trust boundaries, not gaps.
type Gate struct {
	// MockAuth enables the decoded-role admin check.
	MockAuth bool
}

// Evaluate classifies the path and produces exactly one decision.
// tok is the raw session cookie value; hasToken is false when the cookie
// is absent entirely.
func (g Gate) Evaluate(path, tok string, hasToken bool) Decision {
	class := Classify(path)

	switch class {
	case RouteStaticOrAPI, RouteEvents, RoutePublic:
		return Decision{Outcome: Continue, Class: class}

	case RouteAuthEntry:
		// A logged-in visitor has no business on the login/signup form.
		if hasToken {
			return Decision{Outcome: RedirectHome, Location: homePath, Class: class}
		}
		return Decision{Outcome: Continue, Class: class}
	}

	// Admin or auth-only from here on.
	if !hasToken {
		return Decision{
			Outcome:  RedirectToLogin,
			Location: loginPath + "?next=" + url.QueryEscape(path),
			Class:    class,
		}
	}

	if class == RouteAdmin && g.MockAuth {
		// Malformed tokens fail closed, identically to a wrong role.
		claims, err := token.DecodeClaims(tok)
		if err != nil || !claims.Role.IsAdmin() {
			return Decision{Outcome: RedirectHome, Location: homePath, Class: class}
		}
	}

	return Decision{Outcome: Continue, Class: class}
}

// Matcher is the fixed allow-list of gated path roots. The routing layer
// skips gate invocation entirely for paths outside these subtrees, which
// is equivalent to classifying them PUBLIC without paying for the call.
var Matcher = []string{"/admin", "/profile", "/members", loginPath, signupPath}

// Matches reports whether the gate should run for the given path.
func Matches(path string) bool {
	for _, root := range Matcher {
		if underSubtree(path, root) {
			return true
		}
	}
	return false
}
