package mappers

import (
	"strings"

	"github.com/eridehero/eridehero/internal/domain/user"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
)

// PreferencesMapper handles the conversion between preferences entities
// and persistence models. Product types round-trip through a
// comma-separated column.
type PreferencesMapper interface {
	ToEntity(model *models.PreferencesModel) *user.Preferences
	ToModel(entity *user.Preferences) *models.PreferencesModel
}

type PreferencesMapperImpl struct{}

// NewPreferencesMapper creates a new preferences mapper
func NewPreferencesMapper() PreferencesMapper {
	return &PreferencesMapperImpl{}
}

func (m *PreferencesMapperImpl) ToEntity(model *models.PreferencesModel) *user.Preferences {
	if model == nil {
		return nil
	}

	var types []user.ProductType
	if model.RoundupTypes != "" {
		for _, raw := range strings.Split(model.RoundupTypes, ",") {
			types = append(types, user.ProductType(raw))
		}
	}

	return &user.Preferences{
		UserID:           model.UserID,
		TrackerEmails:    model.TrackerEmails,
		SalesRoundup:     model.SalesRoundup,
		RoundupFrequency: user.RoundupFrequency(model.RoundupFrequency),
		RoundupTypes:     types,
		Newsletter:       model.Newsletter,
		PreferencesSet:   model.PreferencesSet,
	}
}

func (m *PreferencesMapperImpl) ToModel(entity *user.Preferences) *models.PreferencesModel {
	if entity == nil {
		return nil
	}

	parts := make([]string, 0, len(entity.RoundupTypes))
	for _, t := range entity.RoundupTypes {
		parts = append(parts, string(t))
	}

	return &models.PreferencesModel{
		UserID:           entity.UserID,
		TrackerEmails:    entity.TrackerEmails,
		SalesRoundup:     entity.SalesRoundup,
		RoundupFrequency: string(entity.RoundupFrequency),
		RoundupTypes:     strings.Join(parts, ","),
		Newsletter:       entity.Newsletter,
		PreferencesSet:   entity.PreferencesSet,
	}
}
