package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/mappers"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
	"github.com/eridehero/eridehero/internal/shared/logger"
)

// UserRepository implements the user repository interface backed by GORM.
type UserRepository struct {
	db          *gorm.DB
	mapper      mappers.UserMapper
	prefsMapper mappers.PreferencesMapper
	logger      logger.Interface
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:          db,
		mapper:      mappers.NewUserMapper(),
		prefsMapper: mappers.NewPreferencesMapper(),
		logger:      logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user in database", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	userEntity.ID = model.ID
	userEntity.SID = model.SID

	r.logger.Infow("user created", "id", model.ID, "login", model.Login)
	return nil
}

// GetByID retrieves a user by internal ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByEmail retrieves a user by email; nil when no match
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel

	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by email", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByLogin retrieves a user by login name; nil when no match
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*user.User, error) {
	var model models.UserModel

	if err := r.db.WithContext(ctx).Where("login = ?", strings.TrimSpace(login)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user by login", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return r.mapper.ToEntity(&model), nil
}

// GetByLoginOrEmail tries login first, then email; nil when no match
func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*user.User, error) {
	found, err := r.GetByLogin(ctx, loginOrEmail)
	if err != nil || found != nil {
		return found, err
	}
	return r.GetByEmail(ctx, loginOrEmail)
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)

	result := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Select("login", "email", "display_name", "password_hash", "role",
			"reset_key_hash", "reset_key_issued_at", "last_notified_at", "updated_at").
		Updates(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %d", model.ID)
	}

	return nil
}

// Delete soft deletes a user by internal ID
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete user", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found: %d", id)
	}

	r.logger.Infow("user deleted", "id", id)
	return nil
}

// ExistsByLogin checks login uniqueness
func (r *UserRepository) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("login = ?", strings.TrimSpace(login)).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check login existence: %w", err)
	}
	return count > 0, nil
}

// ExistsByEmail checks email uniqueness
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetPreferences returns the user's preferences. A user with no stored row
// gets the defaults without one being written.
func (r *UserRepository) GetPreferences(ctx context.Context, userID uint) (*user.Preferences, error) {
	var model models.PreferencesModel

	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.DefaultPreferences(userID), nil
		}
		r.logger.Errorw("failed to get preferences", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	return r.prefsMapper.ToEntity(&model), nil
}

// UpdatePreferences applies a batch preference write on top of the current
// (or default) values and persists the merged row.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID uint, update user.PreferencesUpdate) (*user.Preferences, error) {
	prefs, err := r.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := prefs.Apply(update); err != nil {
		return nil, err
	}

	model := r.prefsMapper.ToModel(prefs)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		r.logger.Errorw("failed to update preferences", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	return prefs, nil
}

// ListRoundupSubscribers returns users opted into the sales roundup,
// optionally filtered by frequency
func (r *UserRepository) ListRoundupSubscribers(ctx context.Context, frequency *user.RoundupFrequency) ([]*user.User, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Joins("JOIN user_preferences ON user_preferences.user_id = users.id").
		Where("user_preferences.sales_roundup = ?", true)
	if frequency != nil {
		query = query.Where("user_preferences.roundup_frequency = ?", string(*frequency))
	}

	var userModels []*models.UserModel
	if err := query.Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list roundup subscribers", "error", err)
		return nil, fmt.Errorf("failed to list roundup subscribers: %w", err)
	}

	return r.mapper.ToEntities(userModels), nil
}

// ListNewsletterSubscribers returns users opted into the newsletter
func (r *UserRepository) ListNewsletterSubscribers(ctx context.Context) ([]*user.User, error) {
	var userModels []*models.UserModel
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Joins("JOIN user_preferences ON user_preferences.user_id = users.id").
		Where("user_preferences.newsletter = ?", true).
		Find(&userModels).Error; err != nil {
		r.logger.Errorw("failed to list newsletter subscribers", "error", err)
		return nil, fmt.Errorf("failed to list newsletter subscribers: %w", err)
	}

	return r.mapper.ToEntities(userModels), nil
}
