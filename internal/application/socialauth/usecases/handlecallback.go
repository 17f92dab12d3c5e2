package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// maxStateAge is a hard ceiling on state lifetime, enforced on top of the
// store TTL so a misconfigured TTL can never widen the replay window.
const maxStateAge = 600 * time.Second

const invalidStateMessage = "Sign-in session is invalid or has expired. Please try again."

type HandleCallbackCommand struct {
	Provider  string
	Code      string
	State     string
	IPAddress string
	UserAgent string
}

type HandleCallbackResult struct {
	Outcome      string
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	// PendingToken is set only for the email_required outcome.
	PendingToken string
	RedirectURL  string
}

type HandleCallbackUseCase struct {
	registry     *oauth.Registry
	stateStore   *cache.RedisStateStore
	pendingStore *cache.RedisPendingProfileStore
	socialRepo   user.SocialLinkRepository
	userRepo     user.Repository
	resolver     *AccountResolver
	authHelper   *helpers.AuthHelper
	logger       logger.Interface
}

func NewHandleCallbackUseCase(
	registry *oauth.Registry,
	stateStore *cache.RedisStateStore,
	pendingStore *cache.RedisPendingProfileStore,
	socialRepo user.SocialLinkRepository,
	userRepo user.Repository,
	resolver *AccountResolver,
	authHelper *helpers.AuthHelper,
	logger logger.Interface,
) *HandleCallbackUseCase {
	return &HandleCallbackUseCase{
		registry:     registry,
		stateStore:   stateStore,
		pendingStore: pendingStore,
		socialRepo:   socialRepo,
		userRepo:     userRepo,
		resolver:     resolver,
		authHelper:   authHelper,
		logger:       logger,
	}
}

// AbandonState discards a state token when the provider flow dies before
// verification, so an aborted callback cannot be replayed later.
func (uc *HandleCallbackUseCase) AbandonState(ctx context.Context, state string) {
	if state == "" {
		return
	}
	if err := uc.stateStore.Clear(ctx, state); err != nil {
		uc.logger.Warnw("failed to clear oauth state", "error", err)
	}
}

// Execute verifies the callback, fetches the provider profile, and resolves
// it to an account in precedence order: already-linked identity, email
// match, email-required parking, new account.
func (uc *HandleCallbackUseCase) Execute(ctx context.Context, cmd HandleCallbackCommand) (*HandleCallbackResult, error) {
	provider := uc.registry.Get(cmd.Provider)
	if provider == nil {
		return nil, errors.NewValidationError(fmt.Sprintf("Unknown sign-in provider: %s", cmd.Provider))
	}

	stateInfo, err := uc.stateStore.Consume(ctx, cmd.State)
	if err != nil {
		if stderrors.Is(err, cache.ErrStateNotFound) {
			return nil, errors.NewUnauthorizedError(invalidStateMessage)
		}
		uc.logger.Errorw("failed to consume oauth state", "provider", cmd.Provider, "error", err)
		return nil, fmt.Errorf("failed to consume state: %w", err)
	}
	if stateInfo.Provider != cmd.Provider {
		uc.logger.Warnw("oauth state provider mismatch", "expected", stateInfo.Provider, "got", cmd.Provider)
		return nil, errors.NewUnauthorizedError(invalidStateMessage)
	}
	if stateInfo.Age() > maxStateAge {
		return nil, errors.NewUnauthorizedError(invalidStateMessage)
	}

	token, err := provider.ExchangeCode(ctx, cmd.Code)
	if err != nil {
		uc.logger.Errorw("code exchange failed", "provider", cmd.Provider, "error", err)
		return nil, errors.NewUpstreamError("Sign-in provider is unavailable. Please try again.")
	}

	profile, err := provider.FetchProfile(ctx, token.AccessToken)
	if err != nil {
		uc.logger.Errorw("profile fetch failed", "provider", cmd.Provider, "error", err)
		return nil, errors.NewUpstreamError("Sign-in provider is unavailable. Please try again.")
	}

	result, err := uc.resolveProfile(ctx, cmd, profile)
	if err != nil {
		return nil, err
	}
	result.RedirectURL = stateInfo.RedirectURL

	if result.User != nil {
		device := helpers.ParseDevice(cmd.UserAgent, cmd.IPAddress)
		sessionWithTokens, err := uc.authHelper.EstablishSession(ctx, result.User, device, true)
		if err != nil {
			return nil, err
		}
		result.AccessToken = sessionWithTokens.AccessToken
		result.RefreshToken = sessionWithTokens.RefreshToken
		result.ExpiresIn = sessionWithTokens.ExpiresIn
	}

	return result, nil
}

func (uc *HandleCallbackUseCase) resolveProfile(ctx context.Context, cmd HandleCallbackCommand, profile *oauth.Profile) (*HandleCallbackResult, error) {
	// 1. Identity already linked: plain sign-in.
	existingLink, err := uc.socialRepo.GetByProviderID(ctx, cmd.Provider, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up social link: %w", err)
	}
	if existingLink != nil {
		linkedUser, err := uc.userRepo.GetByID(ctx, existingLink.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load linked user: %w", err)
		}
		if linkedUser == nil {
			uc.logger.Errorw("social link points at missing user", "link_id", existingLink.ID, "user_id", existingLink.UserID)
			return nil, errors.NewInternalError("Sign-in failed. Please try again.")
		}

		existingLink.RecordLogin()
		if err := uc.socialRepo.Update(ctx, existingLink); err != nil {
			uc.logger.Warnw("failed to record social login", "link_id", existingLink.ID, "error", err)
		}

		return &HandleCallbackResult{Outcome: OutcomeExisting, User: linkedUser}, nil
	}

	// 2. No email from the provider: park the profile and ask for one.
	if profile.Email == "" {
		pendingToken, err := uc.pendingStore.Stash(ctx, cache.PendingProfile{
			Provider:       cmd.Provider,
			ProviderUserID: profile.ID,
			DisplayName:    profile.Name,
			Username:       profile.Username,
		})
		if err != nil {
			uc.logger.Errorw("failed to stash pending profile", "provider", cmd.Provider, "error", err)
			return nil, fmt.Errorf("failed to stash pending profile: %w", err)
		}
		return &HandleCallbackResult{Outcome: OutcomeEmailRequired, PendingToken: pendingToken}, nil
	}

	// 3+4. Email match auto-link, or a brand new account.
	resolvedUser, outcome, err := uc.resolver.resolve(ctx, profileData{
		Provider:       cmd.Provider,
		ProviderUserID: profile.ID,
		Email:          profile.Email,
		DisplayName:    profile.Name,
		Username:       profile.Username,
	}, cmd.IPAddress)
	if err != nil {
		return nil, err
	}

	return &HandleCallbackResult{Outcome: outcome, User: resolvedUser}, nil
}
