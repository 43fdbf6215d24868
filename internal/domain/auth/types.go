package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"time"
)

// Role represents an application's authorization role.
// Kept in string form for easy cookie/claim transport.
// Valid values are defined as constants below; unknown role strings are
// legal and are simply never admin.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// IsAdmin reports whether the role grants admin access.
// Unknown roles are treated as non-admin, never as an error.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Claims is the decoded payload of a session token describing the
// authenticated identity. Known fields are typed; anything else a future
// issuer adds survives in Extra so round-tripping a token is lossless.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      Role
	SubRole   string
	Status    string
	IssuedAt  int64 // seconds since epoch; zero when absent
	ExpiresAt int64 // seconds since epoch; zero when absent

	// Extra holds claims this service does not model.
	Extra map[string]any
}

// Expired reports whether the claims carry an expiry in the past.
// Claims without an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && c.ExpiresAt < now.Unix()
}

// known claim keys lifted into typed fields.
const (
	keySubject = "sub"
	keyName    = "name"
	keyEmail   = "email"
	keyRole    = "role"
	keySubRole = "subRole"
	keyStatus  = "status"
	keyIssued  = "iat"
	keyExpires = "exp"
)

// MarshalJSON flattens typed fields and Extra into a single claims object.
func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+8)
	for k, v := range c.Extra {
		m[k] = v
	}
	if c.Subject != "" {
		m[keySubject] = c.Subject
	}
	if c.Name != "" {
		m[keyName] = c.Name
	}
	if c.Email != "" {
		m[keyEmail] = c.Email
	}
	if c.Role != "" {
		m[keyRole] = string(c.Role)
	}
	if c.SubRole != "" {
		m[keySubRole] = c.SubRole
	}
	if c.Status != "" {
		m[keyStatus] = c.Status
	}
	if c.IssuedAt != 0 {
		m[keyIssued] = c.IssuedAt
	}
	if c.ExpiresAt != 0 {
		m[keyExpires] = c.ExpiresAt
	}
	return json.Marshal(m)
}

// UnmarshalJSON pulls the known keys into typed fields and keeps the rest
// in Extra. Non-string values in string-typed slots are ignored rather than
// failing the whole decode; timestamps accept any JSON number.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*c = Claims{}
	for k, v := range m {
		switch k {
		case keySubject:
			c.Subject = asString(v)
		case keyName:
			c.Name = asString(v)
		case keyEmail:
			c.Email = asString(v)
		case keyRole:
			c.Role = Role(asString(v))
		case keySubRole:
			c.SubRole = asString(v)
		case keyStatus:
			c.Status = asString(v)
		case keyIssued:
			c.IssuedAt = asUnix(v)
		case keyExpires:
			c.ExpiresAt = asUnix(v)
		default:
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[k] = v
		}
	}
	return nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asUnix(v any) int64 {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int64(f)
}
