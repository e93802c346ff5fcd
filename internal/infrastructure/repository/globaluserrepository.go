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

type GlobalUserRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.GlobalUserMapper
}

func NewGlobalUserRepository(database *gorm.DB) member.GlobalUserRepository {
	return &GlobalUserRepositoryImpl{
		db:     database,
		mapper: mappers.NewGlobalUserMapper(),
	}
}

func (r *GlobalUserRepositoryImpl) Create(ctx context.Context, g *member.GlobalUser) error {
	model, err := r.mapper.ToModel(g)
	if err != nil {
		return fmt.Errorf("failed to map global user entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("global user already exists")
		}
		return fmt.Errorf("failed to create global user: %w", err)
	}

	if err := g.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set global user ID: %w", err)
	}

	return nil
}

func (r *GlobalUserRepositoryImpl) Update(ctx context.Context, g *member.GlobalUser) error {
	model, err := r.mapper.ToModel(g)
	if err != nil {
		return fmt.Errorf("failed to map global user entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update global user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("global user not found")
	}

	return nil
}

func (r *GlobalUserRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*member.GlobalUser, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.GlobalUserModel
	if err := tx.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find global user: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map global user model to entity: %w", err)
	}

	return entity, nil
}
