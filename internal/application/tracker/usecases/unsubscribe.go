package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/token"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type UnsubscribeCommand struct {
	TrackerID uint
	UserID    uint
	ProductID uint
	Token     string
}

// UnsubscribeUseCase handles one-click unsubscribe links from alert emails.
// No session is required; the HMAC token is the authorization. Redemption
// is idempotent: a link whose tracker is already gone still succeeds.
type UnsubscribeUseCase struct {
	trackerRepo tracker.Repository
	signer      *token.UnsubscribeSigner
	logger      logger.Interface
}

func NewUnsubscribeUseCase(
	trackerRepo tracker.Repository,
	signer *token.UnsubscribeSigner,
	logger logger.Interface,
) *UnsubscribeUseCase {
	return &UnsubscribeUseCase{
		trackerRepo: trackerRepo,
		signer:      signer,
		logger:      logger,
	}
}

func (uc *UnsubscribeUseCase) Execute(ctx context.Context, cmd UnsubscribeCommand) error {
	if !uc.signer.Verify(cmd.Token, cmd.TrackerID, cmd.UserID, cmd.ProductID) {
		return errors.NewUnauthorizedError("This unsubscribe link is invalid.")
	}

	existing, err := uc.trackerRepo.GetByID(ctx, cmd.TrackerID)
	if err != nil {
		return fmt.Errorf("failed to look up tracker: %w", err)
	}
	if existing == nil {
		// Already unsubscribed; clicking the link twice is fine.
		return nil
	}
	if existing.UserID != cmd.UserID || existing.ProductID != cmd.ProductID {
		return errors.NewUnauthorizedError("This unsubscribe link is invalid.")
	}

	if err := uc.trackerRepo.Delete(ctx, cmd.TrackerID); err != nil {
		return err
	}

	uc.logger.Infow("tracker unsubscribed via email link", "tracker_id", cmd.TrackerID, "user_id", cmd.UserID)
	return nil
}
