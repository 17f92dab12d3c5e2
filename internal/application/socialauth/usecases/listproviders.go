package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/oauth"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// ProviderStatus describes one provider as seen by a signed-in user.
type ProviderStatus struct {
	Name        string     `json:"name"`
	Linked      bool       `json:"linked"`
	LinkedEmail string     `json:"linked_email,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

type ListProvidersUseCase struct {
	registry   *oauth.Registry
	socialRepo user.SocialLinkRepository
	logger     logger.Interface
}

func NewListProvidersUseCase(
	registry *oauth.Registry,
	socialRepo user.SocialLinkRepository,
	logger logger.Interface,
) *ListProvidersUseCase {
	return &ListProvidersUseCase{
		registry:   registry,
		socialRepo: socialRepo,
		logger:     logger,
	}
}

// Execute lists configured providers. With a signed-in user (userID > 0)
// each entry carries its link state.
func (uc *ListProvidersUseCase) Execute(ctx context.Context, userID uint) ([]ProviderStatus, error) {
	names := uc.registry.ConfiguredNames()
	statuses := make([]ProviderStatus, 0, len(names))

	linked := map[string]*user.SocialLink{}
	if userID > 0 {
		links, err := uc.socialRepo.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to list social links: %w", err)
		}
		for _, l := range links {
			linked[l.Provider] = l
		}
	}

	for _, name := range names {
		status := ProviderStatus{Name: name}
		if l, ok := linked[name]; ok {
			status.Linked = true
			status.LinkedEmail = l.ProviderEmail
			status.LastLoginAt = l.LastLoginAt
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
