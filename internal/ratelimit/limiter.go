package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SubmissionLimiter throttles repeated denuncia submissions per account using
// a keyed TTL entry in Redis. It replaces the unbounded in-process
// last-submission map the service historically carried.
type SubmissionLimiter struct {
	client *redis.Client
	window time.Duration
	logger *zap.Logger
}

// NewSubmissionLimiter builds a limiter. A nil client disables throttling.
func NewSubmissionLimiter(client *redis.Client, window time.Duration, logger *zap.Logger) *SubmissionLimiter {
	return &SubmissionLimiter{client: client, window: window, logger: logger}
}

// Allow reports whether the account may submit now. The first caller within
// the window claims the key; later callers are throttled until it expires.
// Redis being unreachable fails open: availability over throttling.
func (l *SubmissionLimiter) Allow(ctx context.Context, accountID string) bool {
	if l == nil || l.client == nil || l.window <= 0 {
		return true
	}
	key := "denuncia:submit:" + accountID
	ok, err := l.client.SetNX(ctx, key, time.Now().Unix(), l.window).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	return ok
}
