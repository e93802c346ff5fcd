package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/mappers"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/shared/db"
)

type UsageLogRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.UsageLogMapper
}

func NewUsageLogRepository(database *gorm.DB) usage.Repository {
	return &UsageLogRepositoryImpl{
		db:     database,
		mapper: mappers.NewUsageLogMapper(),
	}
}

func (r *UsageLogRepositoryImpl) Create(ctx context.Context, e *usage.LogEntry) error {
	model, err := r.mapper.ToModel(e)
	if err != nil {
		return fmt.Errorf("failed to map usage log entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create usage log entry: %w", err)
	}

	if err := e.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set usage log ID: %w", err)
	}

	return nil
}

func (r *UsageLogRepositoryImpl) ListRecentByTenant(ctx context.Context, tenantID uint, limit, offset int) ([]*usage.LogEntry, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.UsageLogModel
	query := tx.Where("tenant_id = ?", tenantID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list usage log entries: %w", err)
	}

	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to map usage log models to entities: %w", err)
	}

	return entities, nil
}

func (r *UsageLogRepositoryImpl) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Where("created_at < ?", before).Delete(&models.UsageLogModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune usage log entries: %w", result.Error)
	}

	return result.RowsAffected, nil
}
