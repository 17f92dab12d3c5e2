package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/shared/biztime"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// cadence maps a roundup frequency to the minimum gap between sends.
func cadence(f user.RoundupFrequency) time.Duration {
	switch f {
	case user.FrequencyBiWeekly:
		return 14 * 24 * time.Hour
	case user.FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

var productTypeLabels = map[user.ProductType]string{
	user.ProductEScooter:   "Electric Scooters",
	user.ProductEBike:      "Electric Bikes",
	user.ProductESkate:     "Electric Skateboards",
	user.ProductEUC:        "Electric Unicycles",
	user.ProductHoverboard: "Hoverboards",
}

// RoundupJob sends the periodic sales roundup to opted-in subscribers whose
// cadence has elapsed.
type RoundupJob struct {
	userRepo user.Repository
	email    email.Service
	baseURL  string
	logger   logger.Interface
}

func NewRoundupJob(userRepo user.Repository, emailService email.Service, baseURL string, logger logger.Interface) *RoundupJob {
	return &RoundupJob{
		userRepo: userRepo,
		email:    emailService,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Execute runs one roundup pass and returns the number of emails sent.
func (j *RoundupJob) Execute(ctx context.Context) (int, error) {
	subscribers, err := j.userRepo.ListRoundupSubscribers(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to list roundup subscribers: %w", err)
	}

	now := biztime.NowUTC()
	sent := 0
	for _, subscriber := range subscribers {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		prefs, err := j.userRepo.GetPreferences(ctx, subscriber.ID)
		if err != nil {
			j.logger.Warnw("failed to load preferences for roundup", "user_id", subscriber.ID, "error", err)
			continue
		}
		if !prefs.SalesRoundup {
			continue
		}
		if subscriber.LastNotifiedAt != nil && now.Sub(*subscriber.LastNotifiedAt) < cadence(prefs.RoundupFrequency) {
			continue
		}

		body := j.buildBody(subscriber.DisplayName, prefs.RoundupTypes)
		if err := j.email.SendRoundupEmail(subscriber.Email, body); err != nil {
			j.logger.Warnw("failed to send roundup", "user_id", subscriber.ID, "error", err)
			continue
		}

		stamp := now
		subscriber.LastNotifiedAt = &stamp
		if err := j.userRepo.Update(ctx, subscriber); err != nil {
			j.logger.Warnw("failed to stamp last notification", "user_id", subscriber.ID, "error", err)
		}
		sent++
	}

	return sent, nil
}

func (j *RoundupJob) buildBody(displayName string, types []user.ProductType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Hi %s, here are this period's best e-mobility deals\n\n", displayName)
	for _, t := range types {
		label, ok := productTypeLabels[t]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- [%s](%s/deals/%s)\n", label, j.baseURL, string(t))
	}
	b.WriteString("\nYou can change your roundup settings any time in your account preferences.\n")
	return b.String()
}
