// Package ratelimit provides a sliding-window attempt counter keyed by
// (action, identifier), backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/shared/config"
)

// Rate-limited action names. Each has a statically configured
// attempts/window pair, overridable via tracker.rate_limits config.
const (
	ActionLogin              = "login"
	ActionRegister           = "register"
	ActionPasswordReset      = "password_reset"
	ActionOAuthInitiate      = "oauth_initiate"
	ActionTrackerCreate      = "tracker_create"
	ActionTrackerUpdate      = "tracker_update"
	ActionTrackerUnsubscribe = "tracker_unsubscribe"
)

// ActionConfig is the attempts/window pair for one action.
type ActionConfig struct {
	MaxAttempts int
	Window      time.Duration
}

func defaultActions() map[string]ActionConfig {
	return map[string]ActionConfig{
		ActionLogin:              {MaxAttempts: 5, Window: 15 * time.Minute},
		ActionRegister:           {MaxAttempts: 3, Window: time.Hour},
		ActionPasswordReset:      {MaxAttempts: 3, Window: time.Hour},
		ActionOAuthInitiate:      {MaxAttempts: 10, Window: 15 * time.Minute},
		ActionTrackerCreate:      {MaxAttempts: 10, Window: time.Hour},
		ActionTrackerUpdate:      {MaxAttempts: 20, Window: time.Hour},
		ActionTrackerUnsubscribe: {MaxAttempts: 20, Window: time.Hour},
	}
}

// BuildActions merges config overrides onto the built-in action table.
func BuildActions(overrides map[string]config.RateLimitOverride) map[string]ActionConfig {
	actions := defaultActions()
	for name, o := range overrides {
		if o.MaxAttempts <= 0 || o.WindowSeconds <= 0 {
			continue
		}
		actions[name] = ActionConfig{
			MaxAttempts: o.MaxAttempts,
			Window:      time.Duration(o.WindowSeconds) * time.Second,
		}
	}
	return actions
}

// Result reports the outcome of an atomic check-and-record call.
type Result struct {
	Allowed   bool
	Attempts  int64
	Remaining int64
	// Message is a human-readable explanation with a retry-after
	// estimate, populated when the limit is exceeded.
	Message string
}

// RateLimiter is the attempt-counter contract. CheckAndRecord is the
// operation every call site should use: it increments and checks in one
// atomic step, so two concurrent requests cannot both observe a
// pre-increment count below the limit.
type RateLimiter interface {
	// IsAllowed reports whether another attempt would be allowed without
	// recording one.
	IsAllowed(ctx context.Context, action, identifier string) (bool, error)

	// RecordAttempt increments the counter and returns the new count.
	RecordAttempt(ctx context.Context, action, identifier string) (int64, error)

	// CheckAndRecord atomically increments the counter and evaluates it
	// against the action's limit.
	CheckAndRecord(ctx context.Context, action, identifier string) (*Result, error)

	// Reset clears the counter, forgiving prior attempts (used after a
	// successful login).
	Reset(ctx context.Context, action, identifier string) error
}

// RetryAfterMessage renders a human-readable retry estimate.
func RetryAfterMessage(window time.Duration) string {
	switch {
	case window >= time.Hour:
		hours := int(window.Round(time.Hour).Hours())
		if hours <= 1 {
			return "Too many attempts. Please try again in about an hour."
		}
		return fmt.Sprintf("Too many attempts. Please try again in about %d hours.", hours)
	case window >= time.Minute:
		return fmt.Sprintf("Too many attempts. Please try again in %d minutes.", int(window.Minutes()))
	default:
		return "Too many attempts. Please try again shortly."
	}
}
