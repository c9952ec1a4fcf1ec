package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginLimit  = 10
	defaultLoginWindow = time.Minute
	loginKeyPrefix     = "login:attempts:"
)

// LoginLimiter counts login attempts per key in fixed windows.
// Key format: login:attempts:<key>:<window start unix>
type LoginLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewLoginLimiter allows limit attempts per window; non-positive values
// fall back to 10 attempts per minute.
func NewLoginLimiter(client redis.Cmdable, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLoginLimit
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow records one attempt for key and reports whether it is within the limit.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("login limiter: %w", err)
	}
	return incr.Val() <= l.limit, nil
}

// Ping reports whether Redis is reachable.
func (l *LoginLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *LoginLimiter) key(key string) string {
	start := l.now().Truncate(l.window).Unix()
	return fmt.Sprintf("%s%s:%d", loginKeyPrefix, key, start)
}
