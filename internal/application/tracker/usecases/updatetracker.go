package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type UpdateTrackerCommand struct {
	UserID    uint
	TrackerID uint
	Type      string
	Value     float64
}

// UpdateTrackerUseCase changes the alert condition on an existing watch.
// The start-price baseline is preserved; only the condition moves.
type UpdateTrackerUseCase struct {
	trackerRepo tracker.Repository
	pricing     pricing.Fetcher
	logger      logger.Interface
}

func NewUpdateTrackerUseCase(
	trackerRepo tracker.Repository,
	priceFetcher pricing.Fetcher,
	logger logger.Interface,
) *UpdateTrackerUseCase {
	return &UpdateTrackerUseCase{
		trackerRepo: trackerRepo,
		pricing:     priceFetcher,
		logger:      logger,
	}
}

func (uc *UpdateTrackerUseCase) Execute(ctx context.Context, cmd UpdateTrackerCommand) (*tracker.PriceTracker, error) {
	trackerType := tracker.TrackerType(cmd.Type)
	if !trackerType.Valid() {
		return nil, errors.NewValidationError("Tracker type must be target_price or price_drop.")
	}
	if cmd.Value <= 0 {
		return nil, errors.NewValidationError("Value must be greater than zero.")
	}

	existing, err := uc.trackerRepo.GetByID(ctx, cmd.TrackerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil || existing.UserID != cmd.UserID {
		return nil, errors.NewNotFoundError("Tracker not found.")
	}

	price, err := uc.pricing.BestPrice(ctx, existing.ProductID, existing.Geo, existing.Currency)
	if err != nil {
		uc.logger.Errorw("price lookup failed", "product_id", existing.ProductID, "error", err)
		return nil, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
	}
	if price == nil {
		price, err = uc.pricing.BestPrice(ctx, existing.ProductID, existing.Geo, "")
		if err != nil {
			return nil, errors.NewUpstreamError("Price data is unavailable right now. Please try again.")
		}
	}
	if price == nil || price.Price <= 0 {
		return nil, errors.NewNotFoundError("No price data is available for this product in your region.")
	}
	if cmd.Value >= price.Price {
		return nil, errors.NewValidationError(fmt.Sprintf("Value must be below the current price of %.2f.", price.Price))
	}
	existing.RecordPrice(price.Price)

	applyCondition(existing, trackerType, cmd.Value)

	if err := uc.trackerRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}
