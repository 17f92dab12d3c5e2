package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type GetPreferencesUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewGetPreferencesUseCase(userRepo user.Repository, logger logger.Interface) *GetPreferencesUseCase {
	return &GetPreferencesUseCase{userRepo: userRepo, logger: logger}
}

func (uc *GetPreferencesUseCase) Execute(ctx context.Context, userID uint) (*user.Preferences, error) {
	prefs, err := uc.userRepo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

type UpdatePreferencesUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewUpdatePreferencesUseCase(userRepo user.Repository, logger logger.Interface) *UpdatePreferencesUseCase {
	return &UpdatePreferencesUseCase{userRepo: userRepo, logger: logger}
}

// Execute applies a batch preference write; only provided fields change.
func (uc *UpdatePreferencesUseCase) Execute(ctx context.Context, userID uint, update user.PreferencesUpdate) (*user.Preferences, error) {
	prefs, err := uc.userRepo.UpdatePreferences(ctx, userID, update)
	if err != nil {
		if stderrors.Is(err, user.ErrInvalidFrequency) {
			return nil, errors.NewValidationError("Roundup frequency must be weekly, bi-weekly or monthly.")
		}
		if stderrors.Is(err, user.ErrInvalidProductType) {
			return nil, errors.NewValidationError("Unknown product type in roundup selection.")
		}
		uc.logger.Errorw("failed to update preferences", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return prefs, nil
}
