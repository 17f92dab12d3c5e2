package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/mappers"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
	"github.com/eridehero/eridehero/internal/shared/biztime"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// SessionRepository implements the session repository backed by GORM.
type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
	logger logger.Interface
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB, logger logger.Interface) user.SessionRepository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
		logger: logger,
	}
}

func (r *SessionRepository) Create(ctx context.Context, session *user.Session) error {
	model := r.mapper.ToModel(session)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create session", "user_id", session.UserID, "error", err)
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*user.Session, error) {
	var model models.SessionModel

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get session", "error", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SessionModel{}).Error; err != nil {
		r.logger.Errorw("failed to delete session", "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions past their expiry and reports how many
// were dropped.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", biztime.NowUTC()).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete expired sessions", "error", result.Error)
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}

	return result.RowsAffected, nil
}
