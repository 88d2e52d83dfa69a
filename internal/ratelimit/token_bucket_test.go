package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/daymark/daymark/internal/config"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTokenBucketBurstAndRefill(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bucket := NewTokenBucket(client)
	ctx := context.Background()

	// rate 1/s, burst 3: three immediate requests pass, the fourth is
	// rejected.
	for i := 0; i < 3; i++ {
		res, err := bucket.Allow(ctx, "k", 1, 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i)
	}
	res, err := bucket.Allow(ctx, "k", 1, 3)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// After the refill interval a token is available again.
	mr.FastForward(2 * time.Second)
	res, err = bucket.Allow(ctx, "k", 1, 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestTokenBucketValidation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bucket := NewTokenBucket(client)
	ctx := context.Background()

	_, err := bucket.Allow(ctx, "", 1, 3)
	assert.Error(t, err)
	_, err = bucket.Allow(ctx, "k", 0, 3)
	assert.Error(t, err)
	_, err = bucket.Allow(ctx, "k", 1, 0)
	assert.Error(t, err)
}

func TestExtractLimiterDisabled(t *testing.T) {
	limiter := NewExtractLimiter(config.Config{}, zaptest.NewLogger(t))
	require.Nil(t, limiter)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	// A nil limiter admits everything.
	assert.True(t, limiter.Allow(context.Background(), node.Generate()))
}

func TestExtractLimiterThrottlesPerUser(t *testing.T) {
	mr := miniredis.RunT(t)
	limiter := NewExtractLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:      true,
			RedisAddr:    mr.Addr(),
			ExtractRate:  1,
			ExtractBurst: 2,
		},
	}, zaptest.NewLogger(t))
	require.NotNil(t, limiter)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	alice := node.Generate()
	bob := node.Generate()
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, alice))
	assert.True(t, limiter.Allow(ctx, alice))
	assert.False(t, limiter.Allow(ctx, alice))

	// Buckets are per user.
	assert.True(t, limiter.Allow(ctx, bob))
}
