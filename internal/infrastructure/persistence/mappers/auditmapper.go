package mappers

import (
	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type AuditMapper interface {
	ToEntity(model *models.ModerationAuditModel) *moderation.AuditEntry
	ToModel(entity *moderation.AuditEntry) *models.ModerationAuditModel
	ToEntities(models []*models.ModerationAuditModel) []*moderation.AuditEntry
}

type AuditMapperImpl struct{}

func NewAuditMapper() AuditMapper {
	return &AuditMapperImpl{}
}

func (m *AuditMapperImpl) ToEntity(model *models.ModerationAuditModel) *moderation.AuditEntry {
	if model == nil {
		return nil
	}

	return &moderation.AuditEntry{
		ID:        model.ID,
		TenantID:  model.TenantID,
		UserID:    model.UserID,
		Action:    moderation.AuditAction(model.Action),
		Reason:    model.Reason,
		ActorID:   model.ActorID,
		CreatedAt: model.CreatedAt,
	}
}

func (m *AuditMapperImpl) ToModel(entity *moderation.AuditEntry) *models.ModerationAuditModel {
	if entity == nil {
		return nil
	}

	return &models.ModerationAuditModel{
		ID:        entity.ID,
		TenantID:  entity.TenantID,
		UserID:    entity.UserID,
		Action:    string(entity.Action),
		Reason:    entity.Reason,
		ActorID:   entity.ActorID,
		CreatedAt: entity.CreatedAt,
	}
}

func (m *AuditMapperImpl) ToEntities(rows []*models.ModerationAuditModel) []*moderation.AuditEntry {
	entities := make([]*moderation.AuditEntry, 0, len(rows))
	for _, row := range rows {
		if e := m.ToEntity(row); e != nil {
			entities = append(entities, e)
		}
	}
	return entities
}
