package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// DeleteTrackerUseCase removes a watch, addressed either by tracker ID or
// by product ID. Both paths are owner-scoped and 404 when nothing matches.
type DeleteTrackerUseCase struct {
	trackerRepo tracker.Repository
	logger      logger.Interface
}

func NewDeleteTrackerUseCase(trackerRepo tracker.Repository, logger logger.Interface) *DeleteTrackerUseCase {
	return &DeleteTrackerUseCase{
		trackerRepo: trackerRepo,
		logger:      logger,
	}
}

func (uc *DeleteTrackerUseCase) ByTrackerID(ctx context.Context, userID, trackerID uint) error {
	existing, err := uc.trackerRepo.GetByID(ctx, trackerID)
	if err != nil {
		return fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil || existing.UserID != userID {
		return errors.NewNotFoundError("Tracker not found.")
	}

	return uc.trackerRepo.Delete(ctx, trackerID)
}

func (uc *DeleteTrackerUseCase) ByProductID(ctx context.Context, userID, productID uint) error {
	existing, err := uc.trackerRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil {
		return errors.NewNotFoundError("Tracker not found.")
	}

	return uc.trackerRepo.DeleteByUserAndProduct(ctx, userID, productID)
}
