package auth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleMember.IsAdmin())
	assert.False(t, Role("SUPERUSER").IsAdmin())
	assert.False(t, Role("admin").IsAdmin()) // case-sensitive
	assert.False(t, Role("").IsAdmin())
}

func TestClaimsExpired(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, Claims{ExpiresAt: now.Add(-time.Second).Unix()}.Expired(now))
	assert.False(t, Claims{ExpiresAt: now.Add(time.Hour).Unix()}.Expired(now))
	// No expiry means never expired.
	assert.False(t, Claims{}.Expired(now))
}

func TestClaimsJSONRoundTrip(t *testing.T) {
	in := Claims{
		Subject:   "mock_admin_1",
		Name:      "Dummy Admin",
		Email:     "admin@sva-utdallas.org",
		Role:      RoleAdmin,
		SubRole:   "PRESIDENT",
		Status:    "ACTIVE",
		IssuedAt:  1756600000,
		ExpiresAt: 1756603600,
		Extra:     map[string]any{"tenant": "utd"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Claims
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Subject, out.Subject)
	assert.Equal(t, in.Role, out.Role)
	assert.Equal(t, in.IssuedAt, out.IssuedAt)
	assert.Equal(t, in.ExpiresAt, out.ExpiresAt)
	assert.Equal(t, "utd", out.Extra["tenant"])
}

func TestClaimsUnmarshal_TolerantOfWrongTypes(t *testing.T) {
	var c Claims
	require.NoError(t, json.Unmarshal([]byte(`{"sub":12345,"exp":"soon","role":"MEMBER"}`), &c))

	// Wrong-typed known keys degrade to zero values instead of failing.
	assert.Empty(t, c.Subject)
	assert.Zero(t, c.ExpiresAt)
	assert.Equal(t, RoleMember, c.Role)
}

func TestClaimsMarshal_OmitsZeroFields(t *testing.T) {
	data, err := json.Marshal(Claims{Subject: "u1"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, map[string]any{"sub": "u1"}, m)
}
