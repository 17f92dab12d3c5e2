package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	client.FlushDB(ctx)

	t.Cleanup(func() {
		client.FlushDB(ctx)
		client.Close()
	})

	return client
}

func testActions() map[string]ActionConfig {
	return map[string]ActionConfig{
		ActionLogin: {MaxAttempts: 3, Window: time.Minute},
	}
}

func TestRedisRateLimiter_CheckAndRecord(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed, "attempt %d should be allowed", i+1)
		assert.Equal(t, int64(i+1), result.Attempts)
	}

	result, err := limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.1")
	require.NoError(t, err)
	assert.False(t, result.Allowed, "4th attempt should be denied")
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, int64(0), result.Remaining)
}

func TestRedisRateLimiter_IdentifiersAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.1")
	}

	result, err := limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.2")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRedisRateLimiter_UnknownActionAllowed(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())

	result, err := limiter.CheckAndRecord(context.Background(), "no-such-action", "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRedisRateLimiter_Reset(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.1")
	}

	require.NoError(t, limiter.Reset(ctx, ActionLogin, "198.51.100.1"))

	result, err := limiter.CheckAndRecord(ctx, ActionLogin, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, int64(1), result.Attempts)
}

func TestRedisRateLimiter_IsAllowedDoesNotRecord(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		allowed, err := limiter.IsAllowed(ctx, ActionLogin, "198.51.100.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	t.Cleanup(func() { client.Close() })

	limiter := NewRedisRateLimiter(client, testActions(), logger.NewLogger())

	result, err := limiter.CheckAndRecord(context.Background(), ActionLogin, "198.51.100.1")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestBuildActions_Overrides(t *testing.T) {
	actions := BuildActions(map[string]config.RateLimitOverride{
		ActionLogin:      {MaxAttempts: 10, WindowSeconds: 60},
		"ignored-zeroes": {MaxAttempts: 0, WindowSeconds: 0},
	})

	assert.Equal(t, 10, actions[ActionLogin].MaxAttempts)
	assert.Equal(t, time.Minute, actions[ActionLogin].Window)

	// Untouched actions keep their defaults.
	assert.Equal(t, 3, actions[ActionRegister].MaxAttempts)
	_, exists := actions["ignored-zeroes"]
	assert.False(t, exists)
}

func TestHashIdentifier(t *testing.T) {
	a := HashIdentifier("198.51.100.1")
	b := HashIdentifier("198.51.100.2")

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashIdentifier("198.51.100.1"))
	assert.NotContains(t, a, "198.51.100.1")
}
