package mappers

import (
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type WarningMapper interface {
	ToEntity(model *models.WarningModel) (*moderation.Warning, error)
	ToModel(entity *moderation.Warning) (*models.WarningModel, error)
	ToEntities(models []*models.WarningModel) ([]*moderation.Warning, error)
}

type WarningMapperImpl struct{}

func NewWarningMapper() WarningMapper {
	return &WarningMapperImpl{}
}

func (m *WarningMapperImpl) ToEntity(model *models.WarningModel) (*moderation.Warning, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := moderation.ReconstructWarning(
		model.ID,
		model.TenantID,
		model.UserID,
		model.Active,
		model.Reason,
		model.ActorID,
		model.CreatedAt,
		model.ClearedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct warning entity: %w", err)
	}

	return entity, nil
}

func (m *WarningMapperImpl) ToModel(entity *moderation.Warning) (*models.WarningModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.WarningModel{
		ID:        entity.ID(),
		TenantID:  entity.TenantID(),
		UserID:    entity.UserID(),
		Active:    entity.Active(),
		Reason:    entity.Reason(),
		ActorID:   entity.ActorID(),
		ClearedAt: entity.ClearedAt(),
		CreatedAt: entity.CreatedAt(),
	}, nil
}

func (m *WarningMapperImpl) ToEntities(rows []*models.WarningModel) ([]*moderation.Warning, error) {
	entities := make([]*moderation.Warning, 0, len(rows))
	for _, row := range rows {
		entity, err := m.ToEntity(row)
		if err != nil {
			return nil, err
		}
		if entity != nil {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}
