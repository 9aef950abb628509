package ratelimit

import (
	"time"

	"github.com/gatherup-events/gatherup/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// NewRedisClient connects to redis when configured; a blank address yields
// a nil client and rate limiting is disabled.
func NewRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
}

func NewPinAttemptLimiter(client *redis.Client) *AttemptLimiter {
	return NewAttemptLimiter(client, 10, 10*time.Minute)
}

var Module = fx.Module("rate.limit",
	fx.Provide(NewRedisClient),
	fx.Provide(NewPinAttemptLimiter),
)
