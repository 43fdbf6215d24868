package redis

// Package redis provides Redis-based adapters for the portal.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked session tokens until their natural expiry, so a
// token copied out of a cookie before logout cannot be replayed. Keys are
// token digests; raw tokens are never stored.
type Denylist struct {
	client redis.UniversalClient
	prefix string
}

// NewDenylist creates a Redis-backed token denylist.
func NewDenylist(client redis.UniversalClient) *Denylist {
	return &Denylist{
		client: client,
		prefix: "revoked:",
	}
}

// NewDenylistWithPrefix creates a denylist with a custom key prefix.
func NewDenylistWithPrefix(client redis.UniversalClient, prefix string) *Denylist {
	return &Denylist{
		client: client,
		prefix: prefix,
	}
}

// Revoke marks the token revoked for ttl. Tokens already past their expiry
// need no entry.
func (d *Denylist) Revoke(ctx context.Context, tok string, ttl time.Duration) error {
	if tok == "" {
		return errors.New("token cannot be empty")
	}
	if ttl <= 0 {
		// Already expired; nothing to deny.
		return nil
	}
	return d.client.Set(ctx, d.key(tok), "1", ttl).Err()
}

// IsRevoked reports whether the token has been revoked.
func (d *Denylist) IsRevoked(ctx context.Context, tok string) (bool, error) {
	if tok == "" {
		return false, nil
	}
	_, err := d.client.Get(ctx, d.key(tok)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}

func (d *Denylist) key(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return d.prefix + hex.EncodeToString(sum[:])
}
