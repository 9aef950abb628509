package ratelimit

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const attemptScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`

// AttemptLimiter counts attempts per key in a fixed window, for brute-force
// protection on PIN verification. A nil limiter allows everything.
type AttemptLimiter struct {
	client *redis.Client
	script *redis.Script
	max    int64
	window time.Duration
}

func NewAttemptLimiter(client *redis.Client, max int64, window time.Duration) *AttemptLimiter {
	if client == nil {
		return nil
	}
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &AttemptLimiter{
		client: client,
		script: redis.NewScript(attemptScript),
		max:    max,
		window: window,
	}
}

// Allow records one attempt and reports whether the caller is still under
// the window's budget. Redis being unreachable fails open: PIN checks are
// themselves authenticated by knowledge of the PIN.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l == nil || l.client == nil {
		return true, nil
	}
	if key == "" {
		return false, errors.New("attempt limiter key is empty")
	}

	count, err := l.script.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return true, err
	}
	return count <= l.max, nil
}
