package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

type MembershipMapper interface {
	ToEntity(model *models.MembershipModel) (*member.Membership, error)
	ToModel(entity *member.Membership) (*models.MembershipModel, error)
	ToEntities(models []*models.MembershipModel) ([]*member.Membership, error)
}

type MembershipMapperImpl struct{}

func NewMembershipMapper() MembershipMapper {
	return &MembershipMapperImpl{}
}

func (m *MembershipMapperImpl) ToEntity(model *models.MembershipModel) (*member.Membership, error) {
	if model == nil {
		return nil, nil
	}

	var achievements []string
	if len(model.UnlockedAchievements) > 0 {
		if err := json.Unmarshal(model.UnlockedAchievements, &achievements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal achievements: %w", err)
		}
	}

	entity, err := member.ReconstructMembership(
		model.ID,
		model.TenantID,
		model.UserID,
		model.GlobalUserID,
		model.Verified,
		model.ImmersionEnabled,
		model.MonthlyUsage,
		model.UsageResetDate,
		model.CurrentStreak,
		model.LongestStreak,
		model.LastActiveDate,
		model.TotalTranslations,
		achievements,
		model.DisplayName,
		model.HideStats,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct membership entity: %w", err)
	}

	return entity, nil
}

func (m *MembershipMapperImpl) ToModel(entity *member.Membership) (*models.MembershipModel, error) {
	if entity == nil {
		return nil, nil
	}

	var achievementsJSON datatypes.JSON
	if ids := entity.UnlockedAchievements(); len(ids) > 0 {
		data, err := json.Marshal(ids)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal achievements: %w", err)
		}
		achievementsJSON = data
	}

	return &models.MembershipModel{
		ID:                   entity.ID(),
		TenantID:             entity.TenantID(),
		UserID:               entity.UserID(),
		GlobalUserID:         entity.GlobalUserID(),
		Verified:             entity.Verified(),
		ImmersionEnabled:     entity.ImmersionEnabled(),
		MonthlyUsage:         entity.MonthlyUsage(),
		UsageResetDate:       entity.UsageResetDate(),
		CurrentStreak:        entity.CurrentStreak(),
		LongestStreak:        entity.LongestStreak(),
		LastActiveDate:       entity.LastActiveDate(),
		TotalTranslations:    entity.TotalTranslations(),
		UnlockedAchievements: achievementsJSON,
		DisplayName:          entity.DisplayName(),
		HideStats:            entity.HideStats(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *MembershipMapperImpl) ToEntities(rows []*models.MembershipModel) ([]*member.Membership, error) {
	entities := make([]*member.Membership, 0, len(rows))
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
