package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type UnlinkProviderCommand struct {
	UserID   uint
	Provider string
}

// UnlinkProviderUseCase removes a provider link, refusing when doing so
// would leave the account with no way to sign in.
type UnlinkProviderUseCase struct {
	userRepo   user.Repository
	socialRepo user.SocialLinkRepository
	logger     logger.Interface
}

func NewUnlinkProviderUseCase(
	userRepo user.Repository,
	socialRepo user.SocialLinkRepository,
	logger logger.Interface,
) *UnlinkProviderUseCase {
	return &UnlinkProviderUseCase{
		userRepo:   userRepo,
		socialRepo: socialRepo,
		logger:     logger,
	}
}

func (uc *UnlinkProviderUseCase) Execute(ctx context.Context, cmd UnlinkProviderCommand) error {
	if !user.ValidProvider(cmd.Provider) {
		return errors.NewValidationError(fmt.Sprintf("Unknown sign-in provider: %s", cmd.Provider))
	}

	link, err := uc.socialRepo.GetByUserAndProvider(ctx, cmd.UserID, cmd.Provider)
	if err != nil {
		return fmt.Errorf("failed to look up social link: %w", err)
	}
	if link == nil {
		return errors.NewNotFoundError(fmt.Sprintf("No %s account is linked.", cmd.Provider))
	}

	owner, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if owner == nil {
		return errors.NewNotFoundError("Account not found.")
	}

	if !owner.HasPassword() {
		linkCount, err := uc.socialRepo.CountByUser(ctx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to count social links: %w", err)
		}
		if linkCount <= 1 {
			return errors.NewConflictError("You cannot unlink your only sign-in method. Set a password first.")
		}
	}

	if err := uc.socialRepo.Delete(ctx, cmd.UserID, cmd.Provider); err != nil {
		uc.logger.Errorw("failed to unlink provider", "user_id", cmd.UserID, "provider", cmd.Provider, "error", err)
		return fmt.Errorf("failed to unlink provider: %w", err)
	}

	uc.logger.Infow("provider unlinked", "user_id", cmd.UserID, "provider", cmd.Provider)
	return nil
}
