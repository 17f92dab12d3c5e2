package usecases

import (
	"context"
	"fmt"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

type LogoutUseCase struct {
	sessionRepo user.SessionRepository
	logger      logger.Interface
}

func NewLogoutUseCase(sessionRepo user.SessionRepository, logger logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Execute drops the session. A missing session is not an error; logout is
// idempotent.
func (uc *LogoutUseCase) Execute(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := uc.sessionRepo.Delete(ctx, sessionID); err != nil {
		uc.logger.Errorw("failed to delete session", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
