package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type CreateTrackerCommand struct {
	UserID    uint
	ProductID uint
	Type      string
	Value     float64
	Geo       string
	Currency  string
}

type CreateTrackerResult struct {
	Tracker *tracker.PriceTracker
	// Updated is true when an existing watch for the pair was
	// reconfigured instead of a new row created.
	Updated bool
}

// CreateTrackerUseCase creates or reconfigures a price watch. At most one
// watch exists per (user, product); a second create replaces its condition
// and re-baselines the start price at the current live price.
type CreateTrackerUseCase struct {
	trackerRepo tracker.Repository
	pricing     pricing.Fetcher
	logger      logger.Interface
}

func NewCreateTrackerUseCase(
	trackerRepo tracker.Repository,
	priceFetcher pricing.Fetcher,
	logger logger.Interface,
) *CreateTrackerUseCase {
	return &CreateTrackerUseCase{
		trackerRepo: trackerRepo,
		pricing:     priceFetcher,
		logger:      logger,
	}
}

func (uc *CreateTrackerUseCase) Execute(ctx context.Context, cmd CreateTrackerCommand) (*CreateTrackerResult, error) {
	trackerType := tracker.TrackerType(cmd.Type)
	geo := tracker.Geo(cmd.Geo)
	currency := tracker.Currency(cmd.Currency)

	if !trackerType.Valid() {
		return nil, errors.NewValidationError("Tracker type must be target_price or price_drop.")
	}
	if !geo.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("Unsupported region: %s", cmd.Geo))
	}
	if !currency.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("Unsupported currency: %s", cmd.Currency))
	}
	if cmd.Value <= 0 {
		return nil, errors.NewValidationError("Value must be greater than zero.")
	}

	livePrice, err := uc.lookupLivePrice(ctx, cmd.ProductID, geo, currency)
	if err != nil {
		return nil, err
	}
	if cmd.Value >= livePrice {
		return nil, errors.NewValidationError(fmt.Sprintf("Value must be below the current price of %.2f.", livePrice))
	}

	existing, err := uc.trackerRepo.GetByUserAndProduct(ctx, cmd.UserID, cmd.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker: %w", err)
	}

	if existing != nil {
		existing.Geo = geo
		existing.Currency = currency
		existing.StartPrice = livePrice
		existing.RecordPrice(livePrice)
		applyCondition(existing, trackerType, cmd.Value)

		if err := uc.trackerRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return &CreateTrackerResult{Tracker: existing, Updated: true}, nil
	}

	newTracker, err := tracker.NewPriceTracker(cmd.UserID, cmd.ProductID, geo, currency, livePrice)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	applyCondition(newTracker, trackerType, cmd.Value)

	if err := uc.trackerRepo.Create(ctx, newTracker); err != nil {
		return nil, err
	}

	return &CreateTrackerResult{Tracker: newTracker}, nil
}

// lookupLivePrice fetches the live price in the requested currency, falling
// back to a geo-only lookup when no currency-specific offer exists.
func (uc *CreateTrackerUseCase) lookupLivePrice(ctx context.Context, productID uint, geo tracker.Geo, currency tracker.Currency) (float64, error) {
	price, err := uc.pricing.BestPrice(ctx, productID, geo, currency)
	if err != nil {
		uc.logger.Errorw("price lookup failed", "product_id", productID, "geo", geo, "error", err)
		return 0, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
	}
	if price == nil {
		price, err = uc.pricing.BestPrice(ctx, productID, geo, "")
		if err != nil {
			uc.logger.Errorw("fallback price lookup failed", "product_id", productID, "geo", geo, "error", err)
			return 0, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
		}
	}
	if price == nil || price.Price <= 0 {
		return 0, errors.NewNotFoundError("No price data is available for this product in your region.")
	}

	return price.Price, nil
}

func applyCondition(t *tracker.PriceTracker, trackerType tracker.TrackerType, value float64) {
	if trackerType == tracker.TypePriceDrop {
		t.SetPriceDrop(value)
		return
	}
	t.SetTargetPrice(value)
}
