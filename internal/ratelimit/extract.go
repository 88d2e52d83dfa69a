package ratelimit

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ExtractLimiter throttles extraction requests per user. A nil limiter
// (rate limiting disabled) allows everything.
type ExtractLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
	log    *zap.Logger
}

func NewExtractLimiter(cfg config.Config, log *zap.Logger) *ExtractLimiter {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimit.RedisAddr,
		Password: cfg.RateLimit.RedisPassword,
		DB:       cfg.RateLimit.RedisDB,
	})
	return &ExtractLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.RateLimit.ExtractRate,
		burst:  cfg.RateLimit.ExtractBurst,
		log:    log.Named("ratelimit.extract"),
	}
}

// Allow reports whether the user may run another extraction right now.
// Redis errors fail open so billing-side quota remains the backstop.
func (l *ExtractLimiter) Allow(ctx context.Context, userID snowflake.ID) bool {
	if l == nil {
		return true
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf("extract:user:%s", userID), l.rate, l.burst)
	if err != nil {
		l.log.Warn("rate limit check failed", zap.Error(err))
		return true
	}
	return res.Allowed
}
