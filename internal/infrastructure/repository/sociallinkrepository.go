package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/mappers"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// SocialLinkRepository implements the social link repository backed by GORM.
type SocialLinkRepository struct {
	db     *gorm.DB
	mapper mappers.SocialLinkMapper
	logger logger.Interface
}

// NewSocialLinkRepository creates a new social link repository
func NewSocialLinkRepository(db *gorm.DB, logger logger.Interface) user.SocialLinkRepository {
	return &SocialLinkRepository{
		db:     db,
		mapper: mappers.NewSocialLinkMapper(),
		logger: logger,
	}
}

// Create writes a new link. The provider identity pair is checked first so
// callers get a typed error rather than a driver duplicate-key error.
func (r *SocialLinkRepository) Create(ctx context.Context, link *user.SocialLink) error {
	existing, err := r.GetByProviderID(ctx, link.Provider, link.ProviderUserID)
	if err != nil {
		return err
	}
	if existing != nil {
		return user.ErrProviderLinked
	}

	model := r.mapper.ToModel(link)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create social link", "provider", link.Provider, "error", err)
		return fmt.Errorf("failed to create social link: %w", err)
	}

	link.ID = model.ID
	r.logger.Infow("social link created", "user_id", link.UserID, "provider", link.Provider)
	return nil
}

func (r *SocialLinkRepository) GetByProviderID(ctx context.Context, provider, providerUserID string) (*user.SocialLink, error) {
	var model models.SocialLinkModel

	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_user_id = ?", provider, providerUserID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get social link by provider identity", "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to get social link: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *SocialLinkRepository) GetByUserAndProvider(ctx context.Context, userID uint, provider string) (*user.SocialLink, error) {
	var model models.SocialLinkModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get social link", "user_id", userID, "provider", provider, "error", err)
		return nil, fmt.Errorf("failed to get social link: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *SocialLinkRepository) ListByUser(ctx context.Context, userID uint) ([]*user.SocialLink, error) {
	var linkModels []*models.SocialLinkModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&linkModels).Error; err != nil {
		r.logger.Errorw("failed to list social links", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}

	return r.mapper.ToEntities(linkModels), nil
}

func (r *SocialLinkRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SocialLinkModel{}).
		Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count social links: %w", err)
	}
	return count, nil
}

func (r *SocialLinkRepository) Update(ctx context.Context, link *user.SocialLink) error {
	model := r.mapper.ToModel(link)

	result := r.db.WithContext(ctx).Model(&models.SocialLinkModel{}).
		Where("id = ?", model.ID).
		Select("provider_email", "last_login_at", "login_count", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update social link", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update social link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("social link not found: %d", model.ID)
	}

	return nil
}

func (r *SocialLinkRepository) Delete(ctx context.Context, userID uint, provider string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		Delete(&models.SocialLinkModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete social link", "user_id", userID, "provider", provider, "error", result.Error)
		return fmt.Errorf("failed to delete social link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("social link not found for user %d provider %s", userID, provider)
	}

	r.logger.Infow("social link deleted", "user_id", userID, "provider", provider)
	return nil
}
