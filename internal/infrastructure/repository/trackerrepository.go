package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/mappers"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// TrackerRepository implements the price tracker repository backed by GORM.
type TrackerRepository struct {
	db     *gorm.DB
	mapper mappers.TrackerMapper
	logger logger.Interface
}

// NewTrackerRepository creates a new tracker repository
func NewTrackerRepository(db *gorm.DB, logger logger.Interface) tracker.Repository {
	return &TrackerRepository{
		db:     db,
		mapper: mappers.NewTrackerMapper(),
		logger: logger,
	}
}

func (r *TrackerRepository) Create(ctx context.Context, trackerEntity *tracker.PriceTracker) error {
	model := r.mapper.ToModel(trackerEntity)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create tracker", "user_id", trackerEntity.UserID, "product_id", trackerEntity.ProductID, "error", err)
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	trackerEntity.ID = model.ID
	trackerEntity.SID = model.SID

	r.logger.Infow("tracker created", "id", model.ID, "user_id", model.UserID, "product_id", model.ProductID)
	return nil
}

func (r *TrackerRepository) GetByID(ctx context.Context, id uint) (*tracker.PriceTracker, error) {
	var model models.TrackerModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get tracker", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *TrackerRepository) GetByUserAndProduct(ctx context.Context, userID, productID uint) (*tracker.PriceTracker, error) {
	var model models.TrackerModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get tracker by user and product", "user_id", userID, "product_id", productID, "error", err)
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

func (r *TrackerRepository) ListByUser(ctx context.Context, userID uint) ([]*tracker.PriceTracker, error) {
	var trackerModels []*models.TrackerModel

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&trackerModels).Error; err != nil {
		r.logger.Errorw("failed to list trackers", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list trackers: %w", err)
	}

	return r.mapper.ToEntities(trackerModels), nil
}

// ListAll returns every tracker in the store. Used by the price-alert job.
func (r *TrackerRepository) ListAll(ctx context.Context) ([]*tracker.PriceTracker, error) {
	var trackerModels []*models.TrackerModel

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&trackerModels).Error; err != nil {
		r.logger.Errorw("failed to list all trackers", "error", err)
		return nil, fmt.Errorf("failed to list trackers: %w", err)
	}

	return r.mapper.ToEntities(trackerModels), nil
}

func (r *TrackerRepository) Update(ctx context.Context, trackerEntity *tracker.PriceTracker) error {
	model := r.mapper.ToModel(trackerEntity)

	result := r.db.WithContext(ctx).Model(&models.TrackerModel{}).
		Where("id = ?", model.ID).
		Select("geo", "currency", "start_price", "current_price", "target_price", "price_drop", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update tracker", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update tracker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tracker not found: %d", model.ID)
	}

	return nil
}

func (r *TrackerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TrackerModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete tracker", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete tracker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tracker not found: %d", id)
	}

	r.logger.Infow("tracker deleted", "id", id)
	return nil
}

func (r *TrackerRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.TrackerModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete tracker by user and product", "user_id", userID, "product_id", productID, "error", result.Error)
		return fmt.Errorf("failed to delete tracker: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tracker not found for user %d product %d", userID, productID)
	}

	r.logger.Infow("tracker deleted", "user_id", userID, "product_id", productID)
	return nil
}
