package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/mappers"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
)

type TenantRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.TenantMapper
}

func NewTenantRepository(database *gorm.DB) tenant.Repository {
	return &TenantRepositoryImpl{
		db:     database,
		mapper: mappers.NewTenantMapper(),
	}
}

func (r *TenantRepositoryImpl) Create(ctx context.Context, t *tenant.Tenant) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map tenant entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("tenant already exists for space")
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if err := t.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set tenant ID: %w", err)
	}

	return r.saveChannels(tx, t)
}

func (r *TenantRepositoryImpl) Update(ctx context.Context, t *tenant.Tenant) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map tenant entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update tenant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("tenant not found")
	}

	return r.saveChannels(tx, t)
}

// saveChannels upserts the tenant's channel table by the (tenant, language)
// unique key and drops rows for languages no longer mapped.
func (r *TenantRepositoryImpl) saveChannels(tx *gorm.DB, t *tenant.Tenant) error {
	rows := r.mapper.ToChannelModels(t)

	languages := make([]string, 0, len(rows))
	for _, row := range rows {
		languages = append(languages, row.Language)
	}

	query := tx.Where("tenant_id = ?", t.ID())
	if len(languages) > 0 {
		query = query.Where("language NOT IN ?", languages)
	}
	if err := query.Delete(&models.TenantChannelModel{}).Error; err != nil {
		return fmt.Errorf("failed to prune tenant channels: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "language"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"channel_id", "webhook_id", "webhook_token", "enabled", "updated_at",
		}),
	}).Create(rows).Error
	if err != nil {
		return fmt.Errorf("failed to save tenant channels: %w", err)
	}

	return nil
}

func (r *TenantRepositoryImpl) FindByID(ctx context.Context, id uint) (*tenant.Tenant, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.TenantModel
	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tenant by ID: %w", err)
	}

	return r.loadWithChannels(tx, &model)
}

func (r *TenantRepositoryImpl) FindBySpaceID(ctx context.Context, spaceID string) (*tenant.Tenant, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.TenantModel
	if err := tx.Where("space_id = ?", spaceID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find tenant by space ID: %w", err)
	}

	return r.loadWithChannels(tx, &model)
}

func (r *TenantRepositoryImpl) loadWithChannels(tx *gorm.DB, model *models.TenantModel) (*tenant.Tenant, error) {
	var channels []*models.TenantChannelModel
	if err := tx.Where("tenant_id = ?", model.ID).Order("language ASC").Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("failed to load tenant channels: %w", err)
	}

	entity, err := r.mapper.ToEntity(model, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to map tenant model to entity: %w", err)
	}

	return entity, nil
}
