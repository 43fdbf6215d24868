package token

// Package token reads and writes the portal's compact session tokens
// (header.claims.signature). Decoding is a claims-reader only: no
// signature verification happens here, so decoded claims prove nothing
// about provenance. That is acceptable exactly where the token already
// arrived over a trusted path (an HttpOnly cookie this service set) or in
// mock deployments, and nowhere else.

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sva-utd/portal-api/internal/domain/auth"
)

// ErrDecode is returned (wrapped) for any malformed token: too few
// segments, invalid base64, or invalid JSON. Callers must fail closed.
var ErrDecode = errors.New("token: decode failed")

// DecodeClaims extracts the claims object from the middle segment of a
// compact token. Any failure at any step yields an error, never a
// partial or default Claims value.
func DecodeClaims(tok string) (auth.Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return auth.Claims{}, fmt.Errorf("%w: want at least 2 segments, got %d", ErrDecode, len(parts))
	}

	raw, err := decodeSegment(parts[1])
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var claims auth.Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return auth.Claims{}, fmt.Errorf("%w: invalid claims JSON: %v", ErrDecode, err)
	}
	return claims, nil
}

// decodeSegment decodes one base64url token segment, tolerating missing
// padding: the URL-safe alphabet is translated to the standard one and
// '=' is appended until the length is a multiple of four.
func decodeSegment(seg string) ([]byte, error) {
	b64 := strings.ReplaceAll(seg, "-", "+")
	b64 = strings.ReplaceAll(b64, "_", "/")
	if rem := len(b64) % 4; rem != 0 {
		b64 += strings.Repeat("=", 4-rem)
	}
	return base64.StdEncoding.DecodeString(b64)
}

// Encode builds an unsigned compact token carrying the given claims.
// The header is a fixed {"alg":"none","typ":"JWT"} and the signature
// segment is a placeholder; only mock-auth deployments issue these.
func Encode(claims auth.Claims) (string, error) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	body, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("token: marshal claims: %w", err)
	}
	payload := base64.RawURLEncoding.EncodeToString(body)

	return header + "." + payload + ".dev", nil
}
