// Package notification holds the outbound email jobs run by the worker:
// the tracker price-alert sweep and the sales roundup.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/catalog"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/infrastructure/token"
	"github.com/eridehero/eridehero/internal/shared/biztime"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// realertSuppression is how long after any notification a user hears
// nothing more from us, so a price hovering around the threshold cannot
// fire an email every sweep.
const realertSuppression = 24 * time.Hour

// PriceAlertJob sweeps every tracker, refreshes its price, and emails
// watchers whose condition is met.
type PriceAlertJob struct {
	trackerRepo tracker.Repository
	userRepo    user.Repository
	pricing     pricing.Fetcher
	catalog     catalog.Store
	email       email.Service
	signer      *token.UnsubscribeSigner
	baseURL     string
	logger      logger.Interface
}

func NewPriceAlertJob(
	trackerRepo tracker.Repository,
	userRepo user.Repository,
	priceFetcher pricing.Fetcher,
	catalogStore catalog.Store,
	emailService email.Service,
	signer *token.UnsubscribeSigner,
	baseURL string,
	logger logger.Interface,
) *PriceAlertJob {
	return &PriceAlertJob{
		trackerRepo: trackerRepo,
		userRepo:    userRepo,
		pricing:     priceFetcher,
		catalog:     catalogStore,
		email:       emailService,
		signer:      signer,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// Execute processes one sweep and returns the number of alerts sent.
func (j *PriceAlertJob) Execute(ctx context.Context) (int, error) {
	trackers, err := j.trackerRepo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list trackers: %w", err)
	}

	alerted := 0
	for _, t := range trackers {
		if ctx.Err() != nil {
			return alerted, ctx.Err()
		}

		sent, err := j.process(ctx, t)
		if err != nil {
			j.logger.Warnw("tracker sweep entry failed", "tracker_id", t.ID, "error", err)
			continue
		}
		if sent {
			alerted++
		}
	}

	return alerted, nil
}

func (j *PriceAlertJob) process(ctx context.Context, t *tracker.PriceTracker) (bool, error) {
	price, err := j.pricing.BestPrice(ctx, t.ProductID, t.Geo, t.Currency)
	if err != nil {
		return false, fmt.Errorf("price lookup: %w", err)
	}
	if price == nil {
		price, err = j.pricing.BestPrice(ctx, t.ProductID, t.Geo, "")
		if err != nil {
			return false, fmt.Errorf("fallback price lookup: %w", err)
		}
	}
	if price == nil || price.Price <= 0 {
		return false, nil
	}

	t.RecordPrice(price.Price)
	if err := j.trackerRepo.Update(ctx, t); err != nil {
		return false, fmt.Errorf("record price: %w", err)
	}

	if !t.TargetMet(price.Price) || !price.InStock {
		return false, nil
	}

	watcher, err := j.userRepo.GetByID(ctx, t.UserID)
	if err != nil {
		return false, fmt.Errorf("load watcher: %w", err)
	}
	if watcher == nil {
		return false, nil
	}
	if watcher.LastNotifiedAt != nil && biztime.NowUTC().Sub(*watcher.LastNotifiedAt) < realertSuppression {
		return false, nil
	}

	prefs, err := j.userRepo.GetPreferences(ctx, watcher.ID)
	if err != nil {
		return false, fmt.Errorf("load preferences: %w", err)
	}
	if !prefs.TrackerEmails {
		return false, nil
	}

	productName := fmt.Sprintf("product #%d", t.ProductID)
	productURL := j.baseURL
	if product, err := j.catalog.GetProduct(ctx, t.ProductID); err == nil && product != nil {
		productName = product.Name
		productURL = product.URL
	}

	unsubscribeURL := j.signer.BuildURL(j.baseURL, t.ID, t.UserID, t.ProductID)
	if err := j.email.SendPriceAlertEmail(watcher.Email, productName, productURL, price.Price, string(t.Currency), unsubscribeURL); err != nil {
		return false, fmt.Errorf("send alert: %w", err)
	}

	now := biztime.NowUTC()
	watcher.LastNotifiedAt = &now
	if err := j.userRepo.Update(ctx, watcher); err != nil {
		j.logger.Warnw("failed to stamp last notification", "user_id", watcher.ID, "error", err)
	}

	j.logger.Infow("price alert sent", "tracker_id", t.ID, "user_id", watcher.ID, "price", price.Price)
	return true, nil
}
