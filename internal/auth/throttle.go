package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle caps credential-verification attempts per identifier within
// a fixed window, backed by Redis so the limit holds across replicas.
type LoginThrottle struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginThrottle constructs a throttle. A nil client disables throttling.
func NewLoginThrottle(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{client: client, limit: limit, window: window, logger: logger}
}

// Allow reports whether another attempt for the key is permitted. The
// throttle degrades open: if Redis is unreachable, login still works.
func (t *LoginThrottle) Allow(ctx context.Context, key string) bool {
	if t == nil || t.client == nil || t.limit <= 0 {
		return true
	}

	redisKey := fmt.Sprintf("login-attempts:%s", key)
	count, err := t.client.Incr(ctx, redisKey).Result()
	if err != nil {
		t.logger.Warn("login throttle unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := t.client.Expire(ctx, redisKey, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
	return count <= int64(t.limit)
}

// Reset clears the attempt counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, key string) {
	if t == nil || t.client == nil {
		return
	}
	if err := t.client.Del(ctx, fmt.Sprintf("login-attempts:%s", key)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
