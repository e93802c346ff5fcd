package mappers

import (
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type UsageLogMapper interface {
	ToEntity(model *models.UsageLogModel) (*usage.LogEntry, error)
	ToModel(entity *usage.LogEntry) (*models.UsageLogModel, error)
	ToEntities(models []*models.UsageLogModel) ([]*usage.LogEntry, error)
}

type UsageLogMapperImpl struct{}

func NewUsageLogMapper() UsageLogMapper {
	return &UsageLogMapperImpl{}
}

func (m *UsageLogMapperImpl) ToEntity(model *models.UsageLogModel) (*usage.LogEntry, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := usage.ReconstructLogEntry(
		model.ID,
		model.TenantID,
		model.UserID,
		model.SourceLanguage,
		model.TargetLanguages,
		model.CharacterCost,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct usage log entity: %w", err)
	}

	return entity, nil
}

func (m *UsageLogMapperImpl) ToModel(entity *usage.LogEntry) (*models.UsageLogModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UsageLogModel{
		ID:              entity.ID(),
		TenantID:        entity.TenantID(),
		UserID:          entity.UserID(),
		SourceLanguage:  entity.SourceLanguage(),
		TargetLanguages: entity.TargetLanguages(),
		CharacterCost:   entity.CharacterCost(),
		CreatedAt:       entity.CreatedAt(),
	}, nil
}

func (m *UsageLogMapperImpl) ToEntities(rows []*models.UsageLogModel) ([]*usage.LogEntry, error) {
	entities := make([]*usage.LogEntry, 0, len(rows))
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
