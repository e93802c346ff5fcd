package migration

import (
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.TenantModel{},
		&models.TenantChannelModel{},
		&models.MembershipModel{},
		&models.GlobalUserModel{},
		&models.BanModel{},
		&models.WarningModel{},
		&models.ModerationAuditModel{},
		&models.UsageLogModel{},
	}
}
