package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/ratelimit"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// ErrInvalidCredentials is the only failure detail a caller ever sees,
// whether the account is missing, has no password, or the password is wrong.
const invalidCredentialsMessage = "Invalid username or password."

type LoginCommand struct {
	LoginOrEmail string
	Password     string
	Remember     bool
	IPAddress    string
	UserAgent    string
}

type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type LoginUseCase struct {
	userRepo   user.Repository
	hasher     PasswordHasher
	authHelper *helpers.AuthHelper
	limiter    ratelimit.RateLimiter
	logger     logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	authHelper *helpers.AuthHelper,
	limiter ratelimit.RateLimiter,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo:   userRepo,
		hasher:     hasher,
		authHelper: authHelper,
		limiter:    limiter,
		logger:     logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	existingUser, err := uc.userRepo.GetByLoginOrEmail(ctx, cmd.LoginOrEmail)
	if err != nil {
		uc.logger.Errorw("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if existingUser == nil || !existingUser.HasPassword() {
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	if err := uc.hasher.Verify(cmd.Password, *existingUser.PasswordHash); err != nil {
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	device := helpers.ParseDevice(cmd.UserAgent, cmd.IPAddress)
	sessionWithTokens, err := uc.authHelper.EstablishSession(ctx, existingUser, device, cmd.Remember)
	if err != nil {
		return nil, err
	}

	// Successful login forgives prior failed attempts from this address.
	if err := uc.limiter.Reset(ctx, ratelimit.ActionLogin, cmd.IPAddress); err != nil {
		uc.logger.Warnw("failed to reset login rate limit", "error", err)
	}

	uc.logger.Infow("user logged in", "user_id", existingUser.ID, "session_id", sessionWithTokens.Session.ID)

	return &LoginResult{
		User:         existingUser,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
