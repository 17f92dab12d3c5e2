package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	authusecases "github.com/eridehero/eridehero/internal/application/auth/usecases"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type CompleteProfileCommand struct {
	PendingToken string
	Email        string
	IPAddress    string
	UserAgent    string
}

type CompleteProfileResult struct {
	Outcome      string
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// CompleteProfileUseCase finishes a social sign-in that was parked because
// the provider exposed no email.
type CompleteProfileUseCase struct {
	pendingStore   *cache.RedisPendingProfileStore
	emailValidator authusecases.EmailValidator
	resolver       *AccountResolver
	authHelper     *helpers.AuthHelper
	logger         logger.Interface
}

func NewCompleteProfileUseCase(
	pendingStore *cache.RedisPendingProfileStore,
	emailValidator authusecases.EmailValidator,
	resolver *AccountResolver,
	authHelper *helpers.AuthHelper,
	logger logger.Interface,
) *CompleteProfileUseCase {
	return &CompleteProfileUseCase{
		pendingStore:   pendingStore,
		emailValidator: emailValidator,
		resolver:       resolver,
		authHelper:     authHelper,
		logger:         logger,
	}
}

func (uc *CompleteProfileUseCase) Execute(ctx context.Context, cmd CompleteProfileCommand) (*CompleteProfileResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if err := uc.emailValidator.Validate(ctx, email); err != nil {
		return nil, errors.NewValidationError("Please enter a valid email address.")
	}

	pending, err := uc.pendingStore.Consume(ctx, cmd.PendingToken)
	if err != nil {
		if stderrors.Is(err, cache.ErrPendingProfileNotFound) {
			return nil, errors.NewUnauthorizedError("Sign-in session is invalid or has expired. Please start over.")
		}
		uc.logger.Errorw("failed to consume pending profile", "error", err)
		return nil, fmt.Errorf("failed to consume pending profile: %w", err)
	}

	resolvedUser, outcome, err := uc.resolver.resolve(ctx, profileData{
		Provider:       pending.Provider,
		ProviderUserID: pending.ProviderUserID,
		Email:          email,
		DisplayName:    pending.DisplayName,
		Username:       pending.Username,
	}, cmd.IPAddress)
	if err != nil {
		return nil, err
	}

	device := helpers.ParseDevice(cmd.UserAgent, cmd.IPAddress)
	sessionWithTokens, err := uc.authHelper.EstablishSession(ctx, resolvedUser, device, true)
	if err != nil {
		return nil, err
	}

	return &CompleteProfileResult{
		Outcome:      outcome,
		User:         resolvedUser,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
