package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/catalog"
	"github.com/eridehero/eridehero/internal/infrastructure/pricing"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// ListTrackersUseCase returns a user's watches enriched with live product
// and price data.
type ListTrackersUseCase struct {
	trackerRepo tracker.Repository
	enricher    *enricher
}

func NewListTrackersUseCase(
	trackerRepo tracker.Repository,
	catalogStore catalog.Store,
	priceFetcher pricing.Fetcher,
	logger logger.Interface,
) *ListTrackersUseCase {
	return &ListTrackersUseCase{
		trackerRepo: trackerRepo,
		enricher:    newEnricher(catalogStore, priceFetcher, logger),
	}
}

func (uc *ListTrackersUseCase) Execute(ctx context.Context, userID uint) ([]*EnrichedTracker, error) {
	trackers, err := uc.trackerRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackers: %w", err)
	}

	return uc.enricher.enrichAll(ctx, trackers)
}

// GetTrackerUseCase returns the user's watch for one product, enriched.
type GetTrackerUseCase struct {
	trackerRepo tracker.Repository
	enricher    *enricher
}

func NewGetTrackerUseCase(
	trackerRepo tracker.Repository,
	catalogStore catalog.Store,
	priceFetcher pricing.Fetcher,
	logger logger.Interface,
) *GetTrackerUseCase {
	return &GetTrackerUseCase{
		trackerRepo: trackerRepo,
		enricher:    newEnricher(catalogStore, priceFetcher, logger),
	}
}

func (uc *GetTrackerUseCase) Execute(ctx context.Context, userID, productID uint) (*EnrichedTracker, error) {
	existing, err := uc.trackerRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("Tracker not found.")
	}

	return uc.enricher.enrichOne(ctx, existing), nil
}

// ExecuteByID looks a watch up by its own ID, scoped to the owner.
func (uc *GetTrackerUseCase) ExecuteByID(ctx context.Context, userID, trackerID uint) (*EnrichedTracker, error) {
	existing, err := uc.trackerRepo.GetByID(ctx, trackerID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil || existing.UserID != userID {
		return nil, errors.NewNotFoundError("Tracker not found.")
	}

	return uc.enricher.enrichOne(ctx, existing), nil
}
