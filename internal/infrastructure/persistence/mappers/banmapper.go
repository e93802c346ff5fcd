package mappers

import (
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type BanMapper interface {
	ToEntity(model *models.BanModel) (*moderation.Ban, error)
	ToModel(entity *moderation.Ban) (*models.BanModel, error)
	ToEntities(models []*models.BanModel) ([]*moderation.Ban, error)
}

type BanMapperImpl struct{}

func NewBanMapper() BanMapper {
	return &BanMapperImpl{}
}

func (m *BanMapperImpl) ToEntity(model *models.BanModel) (*moderation.Ban, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := moderation.ReconstructBan(
		model.ID,
		model.TenantID,
		model.UserID,
		model.Active,
		model.Reason,
		model.ActorID,
		model.ExpiresAt,
		model.BannedAt,
		model.LiftedAt,
		model.LiftedBy,
		model.LiftReason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct ban entity: %w", err)
	}

	return entity, nil
}

func (m *BanMapperImpl) ToModel(entity *moderation.Ban) (*models.BanModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.BanModel{
		ID:         entity.ID(),
		TenantID:   entity.TenantID(),
		UserID:     entity.UserID(),
		Active:     entity.Active(),
		Reason:     entity.Reason(),
		ActorID:    entity.ActorID(),
		ExpiresAt:  entity.ExpiresAt(),
		BannedAt:   entity.BannedAt(),
		LiftedAt:   entity.LiftedAt(),
		LiftedBy:   entity.LiftedBy(),
		LiftReason: entity.LiftReason(),
	}, nil
}

func (m *BanMapperImpl) ToEntities(rows []*models.BanModel) ([]*moderation.Ban, error) {
	entities := make([]*moderation.Ban, 0, len(rows))
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
