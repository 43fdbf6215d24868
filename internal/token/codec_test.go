package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	claims := auth.Claims{
		Subject:   "mock_admin_1",
		Name:      "Dummy Admin",
		Email:     "admin@sva-utdallas.org",
		Role:      auth.RoleAdmin,
		SubRole:   "PRESIDENT",
		Status:    "ACTIVE",
		IssuedAt:  1756600000,
		ExpiresAt: 1756603600,
	}

	tok, err := Encode(claims)
	require.NoError(t, err)

	decoded, err := DecodeClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, decoded.Subject)
	assert.Equal(t, claims.Name, decoded.Name)
	assert.Equal(t, claims.Email, decoded.Email)
	assert.Equal(t, claims.Role, decoded.Role)
	assert.Equal(t, claims.SubRole, decoded.SubRole)
	assert.Equal(t, claims.IssuedAt, decoded.IssuedAt)
	assert.Equal(t, claims.ExpiresAt, decoded.ExpiresAt)
}

func TestDecodeClaims_TwoSegmentsSuffice(t *testing.T) {
	// No signature segment at all, as some upstream issuers emit.
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1","role":"MEMBER"}`))
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))

	claims, err := DecodeClaims(header + "." + payload)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, auth.RoleMember, claims.Role)
}

func TestDecodeClaims_URLSafeAlphabetAndPadding(t *testing.T) {
	// base64url of {"sub": "u0>", "role": "ADMIN"}: contains '-' in place
	// of '+' and needs two '=' of padding.
	const payload = "eyJzdWIiOiAidTA-IiwgInJvbGUiOiAiQURNSU4ifQ"
	require.NotEqual(t, 0, len(payload)%4)

	claims, err := DecodeClaims("h." + payload + ".sig")
	require.NoError(t, err)
	assert.Equal(t, "u0>", claims.Subject)
	assert.True(t, claims.Role.IsAdmin())
}

func TestDecodeClaims_Malformed(t *testing.T) {
	badJSON := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":`))

	tests := []struct {
		name string
		tok  string
	}{
		{name: "empty", tok: ""},
		{name: "one segment", tok: "justonesegment"},
		{name: "not base64", tok: "h.!!!not-base64!!!.sig"},
		{name: "truncated json", tok: "h." + badJSON + ".sig"},
		{name: "payload not an object", tok: "h." + base64.RawURLEncoding.EncodeToString([]byte(`"str"`)) + ".sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClaims(tt.tok)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeClaims_UnknownKeysLandInExtra(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(`{"sub":"u1","custom":"value","n":7}`))

	claims, err := DecodeClaims("h." + payload + ".sig")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "value", claims.Extra["custom"])
}
