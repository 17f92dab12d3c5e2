package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/eridehero/eridehero/internal/application/auth/usecases"
	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// Outcomes surfaced to the client after a social sign-in resolves.
const (
	OutcomeExisting      = "existing"
	OutcomeLinked        = "linked"
	OutcomeNew           = "new"
	OutcomeEmailRequired = "email_required"
)

// profileData is the provider-agnostic identity the resolver works from.
// Email is guaranteed non-empty by the time it reaches the resolver.
type profileData struct {
	Provider       string
	ProviderUserID string
	Email          string
	DisplayName    string
	Username       string
}

// AccountResolver implements the shared tail of the social sign-in flow:
// match an existing account by email and link it, or mint a new account.
type AccountResolver struct {
	userRepo   user.Repository
	socialRepo user.SocialLinkRepository
	hasher     usecases.PasswordHasher
	usernames  *UsernameDeriver
	dispatcher events.Dispatcher
	logger     logger.Interface
}

func NewAccountResolver(
	userRepo user.Repository,
	socialRepo user.SocialLinkRepository,
	hasher usecases.PasswordHasher,
	usernames *UsernameDeriver,
	dispatcher events.Dispatcher,
	logger logger.Interface,
) *AccountResolver {
	return &AccountResolver{
		userRepo:   userRepo,
		socialRepo: socialRepo,
		hasher:     hasher,
		usernames:  usernames,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (r *AccountResolver) resolve(ctx context.Context, p profileData, registrationIP string) (*user.User, string, error) {
	matched, err := r.userRepo.GetByEmail(ctx, p.Email)
	if err != nil {
		r.logger.Errorw("failed to match account by email", "provider", p.Provider, "error", err)
		return nil, "", fmt.Errorf("failed to match account: %w", err)
	}

	if matched != nil {
		if err := r.link(ctx, matched.ID, p); err != nil {
			return nil, "", err
		}
		r.logger.Infow("social identity auto-linked by email", "user_id", matched.ID, "provider", p.Provider)
		return matched, OutcomeLinked, nil
	}

	created, err := r.createAccount(ctx, p, registrationIP)
	if err != nil {
		return nil, "", err
	}
	return created, OutcomeNew, nil
}

func (r *AccountResolver) link(ctx context.Context, userID uint, p profileData) error {
	socialLink, err := user.NewSocialLink(userID, p.Provider, p.ProviderUserID, p.Email)
	if err != nil {
		return fmt.Errorf("failed to build social link: %w", err)
	}
	if err := r.socialRepo.Create(ctx, socialLink); err != nil {
		return err
	}
	return nil
}

func (r *AccountResolver) createAccount(ctx context.Context, p profileData, registrationIP string) (*user.User, error) {
	login, err := r.usernames.Derive(ctx, p.Username, p.DisplayName, p.Email)
	if err != nil {
		return nil, err
	}

	displayName := p.DisplayName
	if displayName == "" {
		displayName = login
	}

	newUser, err := user.NewUser(login, p.Email, displayName)
	if err != nil {
		return nil, fmt.Errorf("failed to build user: %w", err)
	}

	// Social accounts get an unguessable local password so the record is
	// never passwordless in the credential path.
	randomPassword, err := generateRandomPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := r.hasher.Hash(randomPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	newUser.SetPasswordHash(hash)
	newUser.RegistrationIP = registrationIP

	if err := r.userRepo.Create(ctx, newUser); err != nil {
		r.logger.Errorw("failed to create user from social profile", "provider", p.Provider, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := r.link(ctx, newUser.ID, p); err != nil {
		return nil, err
	}

	if err := r.dispatcher.Publish(events.NewUserRegistered(newUser.ID, newUser.Login, newUser.Email, newUser.DisplayName, p.Provider)); err != nil {
		r.logger.Warnw("failed to publish user registered event", "user_id", newUser.ID, "error", err)
	}

	r.logger.Infow("account created from social profile", "user_id", newUser.ID, "provider", p.Provider)
	return newUser, nil
}

func generateRandomPassword() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
