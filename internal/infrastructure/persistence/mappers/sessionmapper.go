package mappers

import (
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between session entities and
// persistence models
type SessionMapper interface {
	ToEntity(model *models.SessionModel) *user.Session
	ToModel(entity *user.Session) *models.SessionModel
}

type SessionMapperImpl struct{}

// NewSessionMapper creates a new session mapper
func NewSessionMapper() SessionMapper {
	return &SessionMapperImpl{}
}

func (m *SessionMapperImpl) ToEntity(model *models.SessionModel) *user.Session {
	if model == nil {
		return nil
	}

	return &user.Session{
		ID:             model.ID,
		UserID:         model.UserID,
		DeviceName:     model.DeviceName,
		DeviceType:     model.DeviceType,
		IPAddress:      model.IPAddress,
		UserAgent:      model.UserAgent,
		ExpiresAt:      model.ExpiresAt,
		LastActivityAt: model.LastActivityAt,
		CreatedAt:      model.CreatedAt,
	}
}

func (m *SessionMapperImpl) ToModel(entity *user.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}

	return &models.SessionModel{
		ID:             entity.ID,
		UserID:         entity.UserID,
		DeviceName:     entity.DeviceName,
		DeviceType:     entity.DeviceType,
		IPAddress:      entity.IPAddress,
		UserAgent:      entity.UserAgent,
		ExpiresAt:      entity.ExpiresAt,
		LastActivityAt: entity.LastActivityAt,
		CreatedAt:      entity.CreatedAt,
	}
}
