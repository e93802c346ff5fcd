package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/mappers"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
)

type MembershipRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MembershipMapper
}

func NewMembershipRepository(database *gorm.DB) member.Repository {
	return &MembershipRepositoryImpl{
		db:     database,
		mapper: mappers.NewMembershipMapper(),
	}
}

func (r *MembershipRepositoryImpl) Create(ctx context.Context, m *member.Membership) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map membership entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("membership already exists")
		}
		return fmt.Errorf("failed to create membership: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set membership ID: %w", err)
	}

	return nil
}

func (r *MembershipRepositoryImpl) Update(ctx context.Context, m *member.Membership) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map membership entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("membership not found")
	}

	return nil
}

func (r *MembershipRepositoryImpl) Find(ctx context.Context, tenantID uint, userID string) (*member.Membership, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.MembershipModel
	err := tx.Where("tenant_id = ? AND user_id = ?", tenantID, userID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find membership: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map membership model to entity: %w", err)
	}

	return entity, nil
}

func (r *MembershipRepositoryImpl) TopByMonthlyUsage(ctx context.Context, tenantID uint, limit int) ([]*member.Membership, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.MembershipModel
	query := tx.Where("tenant_id = ?", tenantID).Order("monthly_usage DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list memberships by usage: %w", err)
	}

	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to map membership models to entities: %w", err)
	}

	return entities, nil
}
