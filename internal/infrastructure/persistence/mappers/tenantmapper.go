package mappers

import (
	"fmt"

	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type TenantMapper interface {
	ToEntity(model *models.TenantModel, channels []*models.TenantChannelModel) (*tenant.Tenant, error)
	ToModel(entity *tenant.Tenant) (*models.TenantModel, error)
	ToChannelModels(entity *tenant.Tenant) []*models.TenantChannelModel
}

type TenantMapperImpl struct{}

func NewTenantMapper() TenantMapper {
	return &TenantMapperImpl{}
}

func (m *TenantMapperImpl) ToEntity(model *models.TenantModel, channels []*models.TenantChannelModel) (*tenant.Tenant, error) {
	if model == nil {
		return nil, nil
	}

	tier, err := plan.ParseTier(model.Tier)
	if err != nil {
		return nil, fmt.Errorf("invalid tenant tier: %w", err)
	}

	mappings := make([]tenant.ChannelMapping, 0, len(channels))
	for _, ch := range channels {
		if ch == nil {
			continue
		}
		mappings = append(mappings, tenant.ChannelMapping{
			Language:     tenant.Language(ch.Language),
			ChannelID:    ch.ChannelID,
			WebhookID:    ch.WebhookID,
			WebhookToken: ch.WebhookToken,
			Enabled:      ch.Enabled,
		})
	}

	entity, err := tenant.ReconstructTenant(
		model.ID,
		model.SpaceID,
		model.Name,
		tier,
		model.LogChannelID,
		model.MonthlyUsage,
		model.UsageResetDate,
		mappings,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct tenant entity: %w", err)
	}

	return entity, nil
}

func (m *TenantMapperImpl) ToModel(entity *tenant.Tenant) (*models.TenantModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.TenantModel{
		ID:             entity.ID(),
		SpaceID:        entity.SpaceID(),
		Name:           entity.Name(),
		Tier:           entity.Tier().String(),
		LogChannelID:   entity.LogChannelID(),
		MonthlyUsage:   entity.MonthlyUsage(),
		UsageResetDate: entity.UsageResetDate(),
		CreatedAt:      entity.CreatedAt(),
		UpdatedAt:      entity.UpdatedAt(),
	}, nil
}

// ToChannelModels flattens the tenant's channel table into rows. IDs are left
// zero; the repository reconciles rows by the (tenant, language) unique key.
func (m *TenantMapperImpl) ToChannelModels(entity *tenant.Tenant) []*models.TenantChannelModel {
	if entity == nil {
		return nil
	}

	channels := entity.Channels()
	rows := make([]*models.TenantChannelModel, 0, len(channels))
	for _, ch := range channels {
		rows = append(rows, &models.TenantChannelModel{
			TenantID:     entity.ID(),
			Language:     ch.Language.String(),
			ChannelID:    ch.ChannelID,
			WebhookID:    ch.WebhookID,
			WebhookToken: ch.WebhookToken,
			Enabled:      ch.Enabled,
		})
	}
	return rows
}
