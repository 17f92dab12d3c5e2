package mappers

import (
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) *user.User
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) []*user.User
}

// UserMapperImpl is the concrete implementation of UserMapper
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel) *user.User {
	if model == nil {
		return nil
	}

	return &user.User{
		ID:               model.ID,
		SID:              model.SID,
		Login:            model.Login,
		Email:            model.Email,
		DisplayName:      model.DisplayName,
		PasswordHash:     model.PasswordHash,
		Role:             model.Role,
		RegistrationIP:   model.RegistrationIP,
		ResetKeyHash:     model.ResetKeyHash,
		ResetKeyIssuedAt: model.ResetKeyIssuedAt,
		LastNotifiedAt:   model.LastNotifiedAt,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	if entity == nil {
		return nil
	}

	return &models.UserModel{
		ID:               entity.ID,
		SID:              entity.SID,
		Login:            entity.Login,
		Email:            entity.Email,
		DisplayName:      entity.DisplayName,
		PasswordHash:     entity.PasswordHash,
		Role:             entity.Role,
		RegistrationIP:   entity.RegistrationIP,
		ResetKeyHash:     entity.ResetKeyHash,
		ResetKeyIssuedAt: entity.ResetKeyIssuedAt,
		LastNotifiedAt:   entity.LastNotifiedAt,
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
	}
}

func (m *UserMapperImpl) ToEntities(modelList []*models.UserModel) []*user.User {
	entities := make([]*user.User, 0, len(modelList))
	for _, model := range modelList {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
