package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sva-utd/portal-api/config"
	redisadapter "github.com/sva-utd/portal-api/internal/adapters/redis"
	"github.com/sva-utd/portal-api/internal/ports"
)

const redisPingTimeout = 5 * time.Second

// BuildDenylist wraps the Redis client in the token denylist port.
// A nil client yields a nil port, which disables revocation.
//
//nolint:ireturn // the nil-port contract needs the interface type.
func BuildDenylist(client redis.UniversalClient) ports.TokenDenylist {
	if client == nil {
		return nil
	}
	return redisadapter.NewDenylist(client)
}

// ConnectRedis connects the token denylist's Redis backend. Returns
// (nil, nil) when Redis is not configured; revocation is then disabled.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (redis.UniversalClient, error) {
	if !cfg.Enabled() {
		logger.InfoContext(ctx, "redis not configured; token revocation disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.InfoContext(ctx, "redis connected", "addr", cfg.Addr)
	return client, nil
}
