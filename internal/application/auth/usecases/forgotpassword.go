package usecases

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/email"
	"github.com/eridehero/eridehero/internal/shared/errors"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// ForgotPasswordMessage is returned verbatim whether or not the account
// exists, so the endpoint cannot be used to probe for registered emails.
const ForgotPasswordMessage = "If an account exists for that address, a password reset email is on its way."

type ForgotPasswordCommand struct {
	LoginOrEmail string
}

type ForgotPasswordUseCase struct {
	userRepo user.Repository
	email    email.Service
	logger   logger.Interface
}

func NewForgotPasswordUseCase(
	userRepo user.Repository,
	emailService email.Service,
	logger logger.Interface,
) *ForgotPasswordUseCase {
	return &ForgotPasswordUseCase{
		userRepo: userRepo,
		email:    emailService,
		logger:   logger,
	}
}

// Execute issues a single-use reset key and emails it. Only the raw key
// leaves the process; the store keeps its SHA-256 hash.
func (uc *ForgotPasswordUseCase) Execute(ctx context.Context, cmd ForgotPasswordCommand) error {
	existingUser, err := uc.userRepo.GetByLoginOrEmail(ctx, cmd.LoginOrEmail)
	if err != nil {
		uc.logger.Errorw("failed to look up user for password reset", "error", err)
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if existingUser == nil {
		// Indistinguishable from the success path.
		return nil
	}

	rawKey, keyHash, err := generateResetKey()
	if err != nil {
		uc.logger.Errorw("failed to generate reset key", "error", err)
		return fmt.Errorf("failed to generate reset key: %w", err)
	}

	existingUser.IssueResetKey(keyHash)
	if err := uc.userRepo.Update(ctx, existingUser); err != nil {
		uc.logger.Errorw("failed to store reset key", "user_id", existingUser.ID, "error", err)
		return fmt.Errorf("failed to store reset key: %w", err)
	}

	if err := uc.email.SendPasswordResetEmail(existingUser.Email, existingUser.Login, rawKey); err != nil {
		uc.logger.Errorw("failed to send reset email", "user_id", existingUser.ID, "error", err)
		return errors.NewInternalError("Failed to send the reset email. Please try again later.")
	}

	uc.logger.Infow("password reset email sent", "user_id", existingUser.ID)
	return nil
}

func generateResetKey() (raw, hash string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(raw))
	return raw, hex.EncodeToString(sum[:]), nil
}

// HashResetKey exposes the at-rest hashing for the redemption path.
func HashResetKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
