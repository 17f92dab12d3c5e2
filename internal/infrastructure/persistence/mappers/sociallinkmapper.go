package mappers

import (
	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
)

// SocialLinkMapper handles the conversion between social link entities and
// persistence models
type SocialLinkMapper interface {
	ToEntity(model *models.SocialLinkModel) *user.SocialLink
	ToModel(entity *user.SocialLink) *models.SocialLinkModel
	ToEntities(models []*models.SocialLinkModel) []*user.SocialLink
}

type SocialLinkMapperImpl struct{}

// NewSocialLinkMapper creates a new social link mapper
func NewSocialLinkMapper() SocialLinkMapper {
	return &SocialLinkMapperImpl{}
}

func (m *SocialLinkMapperImpl) ToEntity(model *models.SocialLinkModel) *user.SocialLink {
	if model == nil {
		return nil
	}

	return &user.SocialLink{
		ID:             model.ID,
		UserID:         model.UserID,
		Provider:       model.Provider,
		ProviderUserID: model.ProviderUserID,
		ProviderEmail:  model.ProviderEmail,
		LastLoginAt:    model.LastLoginAt,
		LoginCount:     model.LoginCount,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func (m *SocialLinkMapperImpl) ToModel(entity *user.SocialLink) *models.SocialLinkModel {
	if entity == nil {
		return nil
	}

	return &models.SocialLinkModel{
		ID:             entity.ID,
		UserID:         entity.UserID,
		Provider:       entity.Provider,
		ProviderUserID: entity.ProviderUserID,
		ProviderEmail:  entity.ProviderEmail,
		LastLoginAt:    entity.LastLoginAt,
		LoginCount:     entity.LoginCount,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func (m *SocialLinkMapperImpl) ToEntities(modelList []*models.SocialLinkModel) []*user.SocialLink {
	entities := make([]*user.SocialLink, 0, len(modelList))
	for _, model := range modelList {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
