package mappers

import (
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type GlobalUserMapper interface {
	ToEntity(model *models.GlobalUserModel) (*member.GlobalUser, error)
	ToModel(entity *member.GlobalUser) (*models.GlobalUserModel, error)
}

type GlobalUserMapperImpl struct{}

func NewGlobalUserMapper() GlobalUserMapper {
	return &GlobalUserMapperImpl{}
}

func (m *GlobalUserMapperImpl) ToEntity(model *models.GlobalUserModel) (*member.GlobalUser, error) {
	if model == nil {
		return nil, nil
	}

	tier, err := plan.ParseTier(model.Tier)
	if err != nil {
		return nil, fmt.Errorf("invalid user tier: %w", err)
	}

	entity, err := member.ReconstructGlobalUser(
		model.ID,
		model.UserID,
		tier,
		model.LifetimeRelays,
		model.LifetimeCharacters,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct global user entity: %w", err)
	}

	return entity, nil
}

func (m *GlobalUserMapperImpl) ToModel(entity *member.GlobalUser) (*models.GlobalUserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.GlobalUserModel{
		ID:                 entity.ID(),
		UserID:             entity.UserID(),
		Tier:               entity.Tier().String(),
		LifetimeRelays:     entity.LifetimeRelays(),
		LifetimeCharacters: entity.LifetimeCharacters(),
		CreatedAt:          entity.CreatedAt(),
		UpdatedAt:          entity.UpdatedAt(),
	}, nil
}
