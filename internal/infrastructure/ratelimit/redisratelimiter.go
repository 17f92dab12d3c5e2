package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eridehero/eridehero/internal/shared/logger"
)

// RedisRateLimiter counts attempts in fixed windows using atomic INCR
// with a TTL set on the first increment. The counter key embeds a SHA-256
// hash of the identifier so raw IPs are never stored and key length stays
// bounded.
//
// Failure semantics: when Redis is unreachable the limiter fails open.
// The request is allowed and the failure logged at warn; failing closed
// here would let a cache outage lock every user out of login.
type RedisRateLimiter struct {
	client  *redis.Client
	actions map[string]ActionConfig
	logger  logger.Interface
}

func NewRedisRateLimiter(client *redis.Client, actions map[string]ActionConfig, log logger.Interface) *RedisRateLimiter {
	if actions == nil {
		actions = defaultActions()
	}
	return &RedisRateLimiter{
		client:  client,
		actions: actions,
		logger:  log,
	}
}

func (l *RedisRateLimiter) IsAllowed(ctx context.Context, action, identifier string) (bool, error) {
	cfg, ok := l.actions[action]
	if !ok {
		return true, nil
	}

	count, err := l.client.Get(ctx, l.key(action, identifier)).Int64()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		// Fail open; see type doc.
		l.logger.Warnw("rate limit read failed, allowing request", "action", action, "error", err)
		return true, nil
	}

	return count < int64(cfg.MaxAttempts), nil
}

func (l *RedisRateLimiter) RecordAttempt(ctx context.Context, action, identifier string) (int64, error) {
	cfg, ok := l.actions[action]
	if !ok {
		return 0, fmt.Errorf("unknown rate limit action: %s", action)
	}
	return l.increment(ctx, action, identifier, cfg.Window)
}

func (l *RedisRateLimiter) CheckAndRecord(ctx context.Context, action, identifier string) (*Result, error) {
	cfg, ok := l.actions[action]
	if !ok {
		return &Result{Allowed: true}, nil
	}

	count, err := l.increment(ctx, action, identifier, cfg.Window)
	if err != nil {
		// Fail open; see type doc.
		l.logger.Warnw("rate limit increment failed, allowing request", "action", action, "error", err)
		return &Result{Allowed: true}, nil
	}

	result := &Result{
		Attempts:  count,
		Remaining: int64(cfg.MaxAttempts) - count,
	}
	if result.Remaining < 0 {
		result.Remaining = 0
	}

	if count > int64(cfg.MaxAttempts) {
		result.Allowed = false
		result.Message = RetryAfterMessage(cfg.Window)
		return result, nil
	}

	result.Allowed = true
	return result, nil
}

func (l *RedisRateLimiter) Reset(ctx context.Context, action, identifier string) error {
	if err := l.client.Del(ctx, l.key(action, identifier)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit counter: %w", err)
	}
	return nil
}

// increment atomically bumps the counter, starting the window on the
// first attempt after expiry.
func (l *RedisRateLimiter) increment(ctx context.Context, action, identifier string, window time.Duration) (int64, error) {
	key := l.key(action, identifier)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			l.logger.Warnw("failed to set rate limit TTL", "action", action, "error", err)
		}
	}

	return count, nil
}

func (l *RedisRateLimiter) key(action, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", action, HashIdentifier(identifier))
}

// HashIdentifier hashes a raw identifier (typically a client IP) before
// it is used as a storage key.
func HashIdentifier(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])[:32]
}
