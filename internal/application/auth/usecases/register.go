package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/eridehero/eridehero/internal/application/auth/helpers"
	"github.com/eridehero/eridehero/internal/domain/shared/events"
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/config"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)

type RegisterCommand struct {
	Login    string
	Email    string
	Password string
	// Website is a honeypot field hidden from real users. Any value means
	// a bot filled the form.
	Website   string
	IPAddress string
	UserAgent string
}

type RegisterResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

type RegisterUseCase struct {
	userRepo       user.Repository
	hasher         PasswordHasher
	emailValidator EmailValidator
	authHelper     *helpers.AuthHelper
	dispatcher     events.Dispatcher
	passwordConfig config.PasswordConfig
	logger         logger.Interface
}

func NewRegisterUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	emailValidator EmailValidator,
	authHelper *helpers.AuthHelper,
	dispatcher events.Dispatcher,
	passwordConfig config.PasswordConfig,
	logger logger.Interface,
) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:       userRepo,
		hasher:         hasher,
		emailValidator: emailValidator,
		authHelper:     authHelper,
		dispatcher:     dispatcher,
		passwordConfig: passwordConfig,
		logger:         logger,
	}
}

// Execute registers a local account and logs it in immediately.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*RegisterResult, error) {
	// Bots that fill the hidden field get the same generic failure a
	// validation error would produce, with no hint which check tripped.
	if cmd.Website != "" {
		uc.logger.Warnw("honeypot field filled on registration", "ip", cmd.IPAddress)
		return nil, errors.NewBadRequestError("Registration failed. Please try again.")
	}

	login := strings.TrimSpace(cmd.Login)
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	if !loginPattern.MatchString(login) {
		return nil, errors.NewValidationError("Username must be 3-50 characters of letters, numbers and underscores.")
	}

	minLen := uc.passwordConfig.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(cmd.Password) < minLen {
		return nil, errors.NewValidationError(fmt.Sprintf("Password must be at least %d characters.", minLen))
	}

	if err := uc.emailValidator.Validate(ctx, email); err != nil {
		return nil, errors.NewValidationError("Please enter a valid email address.")
	}

	if taken, err := uc.userRepo.ExistsByLogin(ctx, login); err != nil {
		uc.logger.Errorw("failed to check login uniqueness", "error", err)
		return nil, fmt.Errorf("failed to check login: %w", err)
	} else if taken {
		return nil, errors.NewConflictError("That username is already taken.")
	}

	if taken, err := uc.userRepo.ExistsByEmail(ctx, email); err != nil {
		uc.logger.Errorw("failed to check email uniqueness", "error", err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, errors.NewConflictError("An account with that email already exists.")
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := user.NewUser(login, email, login)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	newUser.SetPasswordHash(hash)
	newUser.RegistrationIP = cmd.IPAddress

	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		uc.logger.Errorw("failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := uc.dispatcher.Publish(events.NewUserRegistered(newUser.ID, newUser.Login, newUser.Email, newUser.DisplayName, "local")); err != nil {
		uc.logger.Warnw("failed to publish user registered event", "user_id", newUser.ID, "error", err)
	}

	device := helpers.ParseDevice(cmd.UserAgent, cmd.IPAddress)
	sessionWithTokens, err := uc.authHelper.EstablishSession(ctx, newUser, device, false)
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("user registered", "user_id", newUser.ID, "login", newUser.Login)

	return &RegisterResult{
		User:         newUser,
		AccessToken:  sessionWithTokens.AccessToken,
		RefreshToken: sessionWithTokens.RefreshToken,
		ExpiresIn:    sessionWithTokens.ExpiresIn,
	}, nil
}
