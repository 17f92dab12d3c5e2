package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eridehero/eridehero/internal/shared/biztime"
)

const stateTokenBytes = 32

// ErrStateNotFound is returned when a state token is missing, expired, or
// already consumed.
var ErrStateNotFound = errors.New("state not found or expired")

// StateInfo is the server-side record behind an OAuth state token.
type StateInfo struct {
	Provider    string    `json:"provider"`
	RedirectURL string    `json:"redirect_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// Age returns how long ago the state was issued.
func (s *StateInfo) Age() time.Duration {
	return biztime.NowUTC().Sub(s.CreatedAt)
}

// RedisStateStore maps high-entropy state tokens to OAuth flow context.
// Tokens are single-use: consumption is an atomic GETDEL, so concurrent
// redemption attempts cannot both succeed.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore creates a state store. The recommended TTL is 10
// minutes; callback verification additionally enforces a hard age limit.
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Issue generates a fresh random state token and stores its record.
func (s *RedisStateStore) Issue(ctx context.Context, provider, redirectURL string) (string, error) {
	buf := make([]byte, stateTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	state := hex.EncodeToString(buf)

	info := StateInfo{
		Provider:    provider,
		RedirectURL: redirectURL,
		CreatedAt:   biztime.NowUTC(),
	}

	data, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.buildKey(state), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store state in redis: %w", err)
	}

	return state, nil
}

// Consume verifies the token exists and retrieves its record, deleting it
// in the same operation (GETDEL) to guarantee single use.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	data, err := s.client.GetDel(ctx, s.buildKey(state)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}

	return &info, nil
}

// Clear removes a state token without reading it, used on error paths.
func (s *RedisStateStore) Clear(ctx context.Context, state string) error {
	if state == "" {
		return nil
	}
	return s.client.Del(ctx, s.buildKey(state)).Err()
}

func (s *RedisStateStore) buildKey(state string) string {
	return s.prefix + state
}
