package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/infrastructure/cache"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
	"github.com/eridehero/eridehero/internal/shared/utils"
)

type InitiateOAuthCommand struct {
	Provider    string
	RedirectURL string
}

type InitiateOAuthResult struct {
	AuthorizationURL string
}

type InitiateOAuthUseCase struct {
	registry   *oauth.Registry
	stateStore *cache.RedisStateStore
	logger     logger.Interface
}

func NewInitiateOAuthUseCase(
	registry *oauth.Registry,
	stateStore *cache.RedisStateStore,
	logger logger.Interface,
) *InitiateOAuthUseCase {
	return &InitiateOAuthUseCase{
		registry:   registry,
		stateStore: stateStore,
		logger:     logger,
	}
}

// Execute issues a single-use CSRF state and returns the provider consent URL.
func (uc *InitiateOAuthUseCase) Execute(ctx context.Context, cmd InitiateOAuthCommand) (*InitiateOAuthResult, error) {
	provider := uc.registry.Get(cmd.Provider)
	if provider == nil {
		return nil, errors.NewValidationError(fmt.Sprintf("Unknown sign-in provider: %s", cmd.Provider))
	}
	if !provider.Configured() {
		return nil, errors.NewNotConfiguredError(fmt.Sprintf("Sign-in with %s is not available.", cmd.Provider))
	}

	// Only local paths survive into the state record; anything pointing
	// off-site would become an open redirect on the callback.
	redirectURL := utils.SafeRedirectPath(cmd.RedirectURL)

	state, err := uc.stateStore.Issue(ctx, cmd.Provider, redirectURL)
	if err != nil {
		uc.logger.Errorw("failed to issue oauth state", "provider", cmd.Provider, "error", err)
		return nil, fmt.Errorf("failed to issue state: %w", err)
	}

	return &InitiateOAuthResult{
		AuthorizationURL: provider.AuthorizationURL(state),
	}, nil
}
