package mappers

import (
	"github.com/eridehero/eridehero/internal/domain/tracker"
	"github.com/eridehero/eridehero/internal/infrastructure/persistence/models"
)

// TrackerMapper handles the conversion between price tracker entities and
// persistence models
type TrackerMapper interface {
	ToEntity(model *models.TrackerModel) *tracker.PriceTracker
	ToModel(entity *tracker.PriceTracker) *models.TrackerModel
	ToEntities(models []*models.TrackerModel) []*tracker.PriceTracker
}

type TrackerMapperImpl struct{}

// NewTrackerMapper creates a new tracker mapper
func NewTrackerMapper() TrackerMapper {
	return &TrackerMapperImpl{}
}

func (m *TrackerMapperImpl) ToEntity(model *models.TrackerModel) *tracker.PriceTracker {
	if model == nil {
		return nil
	}

	return &tracker.PriceTracker{
		ID:           model.ID,
		SID:          model.SID,
		UserID:       model.UserID,
		ProductID:    model.ProductID,
		Geo:          tracker.Geo(model.Geo),
		Currency:     tracker.Currency(model.Currency),
		StartPrice:   model.StartPrice,
		CurrentPrice: model.CurrentPrice,
		TargetPrice:  model.TargetPrice,
		PriceDrop:    model.PriceDrop,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func (m *TrackerMapperImpl) ToModel(entity *tracker.PriceTracker) *models.TrackerModel {
	if entity == nil {
		return nil
	}

	return &models.TrackerModel{
		ID:           entity.ID,
		SID:          entity.SID,
		UserID:       entity.UserID,
		ProductID:    entity.ProductID,
		Geo:          string(entity.Geo),
		Currency:     string(entity.Currency),
		StartPrice:   entity.StartPrice,
		CurrentPrice: entity.CurrentPrice,
		TargetPrice:  entity.TargetPrice,
		PriceDrop:    entity.PriceDrop,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (m *TrackerMapperImpl) ToEntities(modelList []*models.TrackerModel) []*tracker.PriceTracker {
	entities := make([]*tracker.PriceTracker, 0, len(modelList))
	for _, model := range modelList {
		entities = append(entities, m.ToEntity(model))
	}
	return entities
}
