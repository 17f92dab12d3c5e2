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

// ErrPendingProfileNotFound is returned when a pending-profile token is
// missing, expired, or already consumed.
var ErrPendingProfileNotFound = errors.New("pending profile not found or expired")

// PendingProfile holds an OAuth profile from a provider that exposes no
// email (Reddit), parked until the user supplies one.
type PendingProfile struct {
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	DisplayName    string    `json:"display_name"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
}

// RedisPendingProfileStore parks email-less OAuth profiles under fresh
// single-use tokens with a short TTL.
type RedisPendingProfileStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisPendingProfileStore(client *redis.Client, prefix string, ttl time.Duration) *RedisPendingProfileStore {
	return &RedisPendingProfileStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Stash stores the profile under a fresh random token and returns it.
func (s *RedisPendingProfileStore) Stash(ctx context.Context, profile PendingProfile) (string, error) {
	buf := make([]byte, stateTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate pending profile token: %w", err)
	}
	token := hex.EncodeToString(buf)

	profile.CreatedAt = biztime.NowUTC()

	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pending profile: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+token, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store pending profile in redis: %w", err)
	}

	return token, nil
}

// Consume retrieves and deletes the profile atomically (GETDEL), so the
// token is single-use.
func (s *RedisPendingProfileStore) Consume(ctx context.Context, token string) (*PendingProfile, error) {
	if token == "" {
		return nil, ErrPendingProfileNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrPendingProfileNotFound
		}
		return nil, fmt.Errorf("failed to retrieve pending profile from redis: %w", err)
	}

	var profile PendingProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending profile: %w", err)
	}

	return &profile, nil
}
