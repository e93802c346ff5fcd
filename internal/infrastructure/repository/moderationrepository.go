package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/mappers"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/shared/db"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
)

type ModerationRepositoryImpl struct {
	db            *gorm.DB
	banMapper     mappers.BanMapper
	warningMapper mappers.WarningMapper
	auditMapper   mappers.AuditMapper
}

func NewModerationRepository(database *gorm.DB) moderation.Repository {
	return &ModerationRepositoryImpl{
		db:            database,
		banMapper:     mappers.NewBanMapper(),
		warningMapper: mappers.NewWarningMapper(),
		auditMapper:   mappers.NewAuditMapper(),
	}
}

func (r *ModerationRepositoryImpl) CreateBan(ctx context.Context, b *moderation.Ban) error {
	model, err := r.banMapper.ToModel(b)
	if err != nil {
		return fmt.Errorf("failed to map ban entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ban: %w", err)
	}

	if err := b.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set ban ID: %w", err)
	}

	return nil
}

func (r *ModerationRepositoryImpl) UpdateBan(ctx context.Context, b *moderation.Ban) error {
	model, err := r.banMapper.ToModel(b)
	if err != nil {
		return fmt.Errorf("failed to map ban entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ban: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("ban not found")
	}

	return nil
}

func (r *ModerationRepositoryImpl) FindActiveBan(ctx context.Context, tenantID uint, userID string) (*moderation.Ban, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.BanModel
	err := tx.Where("tenant_id = ? AND user_id = ? AND active = ?", tenantID, userID, true).
		Order("banned_at DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active ban: %w", err)
	}

	entity, err := r.banMapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map ban model to entity: %w", err)
	}

	return entity, nil
}

func (r *ModerationRepositoryImpl) DeactivateExpired(ctx context.Context, tenantID uint, userID string, now time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.BanModel{}).
		Where("tenant_id = ? AND user_id = ? AND active = ? AND expires_at IS NOT NULL AND expires_at <= ?",
			tenantID, userID, true, now).
		Updates(map[string]any{
			"active":      false,
			"lifted_at":   now,
			"lift_reason": "expired",
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired bans: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *ModerationRepositoryImpl) DeactivateAllExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.BanModel{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Updates(map[string]any{
			"active":      false,
			"lifted_at":   now,
			"lift_reason": "expired",
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate expired bans: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *ModerationRepositoryImpl) CreateWarning(ctx context.Context, w *moderation.Warning) error {
	model, err := r.warningMapper.ToModel(w)
	if err != nil {
		return fmt.Errorf("failed to map warning entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create warning: %w", err)
	}

	if err := w.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set warning ID: %w", err)
	}

	return nil
}

func (r *ModerationRepositoryImpl) UpdateWarning(ctx context.Context, w *moderation.Warning) error {
	model, err := r.warningMapper.ToModel(w)
	if err != nil {
		return fmt.Errorf("failed to map warning entity to model: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update warning: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("warning not found")
	}

	return nil
}

func (r *ModerationRepositoryImpl) FindWarning(ctx context.Context, id uint) (*moderation.Warning, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.WarningModel
	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find warning: %w", err)
	}

	entity, err := r.warningMapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map warning model to entity: %w", err)
	}

	return entity, nil
}

func (r *ModerationRepositoryImpl) ListActiveWarnings(ctx context.Context, tenantID uint, userID string) ([]*moderation.Warning, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var rows []*models.WarningModel
	err := tx.Where("tenant_id = ? AND user_id = ? AND active = ?", tenantID, userID, true).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active warnings: %w", err)
	}

	entities, err := r.warningMapper.ToEntities(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to map warning models to entities: %w", err)
	}

	return entities, nil
}

func (r *ModerationRepositoryImpl) CountActiveWarnings(ctx context.Context, tenantID uint, userID string) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var count int64
	err := tx.Model(&models.WarningModel{}).
		Where("tenant_id = ? AND user_id = ? AND active = ?", tenantID, userID, true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active warnings: %w", err)
	}

	return count, nil
}

func (r *ModerationRepositoryImpl) ClearWarnings(ctx context.Context, tenantID uint, userID string, now time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.WarningModel{}).
		Where("tenant_id = ? AND user_id = ? AND active = ?", tenantID, userID, true).
		Updates(map[string]any{
			"active":     false,
			"cleared_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear warnings: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *ModerationRepositoryImpl) CreateAudit(ctx context.Context, e *moderation.AuditEntry) error {
	model := r.auditMapper.ToModel(e)

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}

	return nil
}
