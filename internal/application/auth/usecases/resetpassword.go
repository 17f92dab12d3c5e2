package usecases

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

const invalidResetKeyMessage = "This password reset link is invalid or has expired."

type ResetPasswordCommand struct {
	Login       string
	Key         string
	NewPassword string
	IPAddress   string
	UserAgent   string
}

type ResetPasswordResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type ResetPasswordUseCase struct {
	userRepo       user.Repository
	hasher         PasswordHasher
	authHelper     *helpers.AuthHelper
	passwordConfig config.PasswordConfig
	tokenConfig    config.TokenConfig
	logger         logger.Interface
}

func NewResetPasswordUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	authHelper *helpers.AuthHelper,
	passwordConfig config.PasswordConfig,
	tokenConfig config.TokenConfig,
	logger logger.Interface,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		userRepo:       userRepo,
		hasher:         hasher,
		authHelper:     authHelper,
		passwordConfig: passwordConfig,
		tokenConfig:    tokenConfig,
		logger:         logger,
	}
}

// Execute redeems a reset key and signs the user in. Keys are single-use:
// the stored hash is cleared whether or not the new password sticks
// downstream.
func (uc *ResetPasswordUseCase) Execute(ctx context.Context, cmd ResetPasswordCommand) (*ResetPasswordResult, error) {
	minLen := uc.passwordConfig.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(cmd.NewPassword) < minLen {
		return nil, errors.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", minLen))
	}

	existingUser, err := uc.userRepo.GetByLogin(ctx, cmd.Login)
	if err != nil {
		uc.logger.Errorw("failed to look up user for password reset", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existingUser == nil || existingUser.ResetKeyHash == nil {
		return nil, errors.NewUnauthorizedError(invalidResetKeyMessage)
	}

	lifetime := time.Duration(uc.tokenConfig.ResetExpiresMinutes) * time.Minute
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	if existingUser.ResetKeyExpired(lifetime) {
		return nil, errors.NewUnauthorizedError(invalidResetKeyMessage)
	}

	keyHash := HashResetKey(cmd.Key)
	if subtle.ConstantTimeCompare([]byte(keyHash), []byte(*existingUser.ResetKeyHash)) != 1 {
		return nil, errors.NewUnauthorizedError(invalidResetKeyMessage)
	}

	hash, err := uc.hasher.Hash(cmd.NewPassword)
	if err != nil {
		uc.logger.Errorw("failed to hash new password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	existingUser.SetPasswordHash(hash)
	existingUser.ClearResetKey()

	if err := uc.userRepo.Update(ctx, existingUser); err != nil {
		uc.logger.Errorw("failed to save new password", "user_id", existingUser.ID, "error", err)
		return nil, fmt.Errorf("failed to save new password: %w", err)
	}

	device := helpers.ParseDevice(cmd.UserAgent, cmd.IPAddress)
	sessionWithTokens, err := uc.authHelper.EstablishSession(ctx, existingUser, device, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("password reset completed", "user_id", existingUser.ID)

	return &ResetPasswordResult{
		User:         existingUser,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
