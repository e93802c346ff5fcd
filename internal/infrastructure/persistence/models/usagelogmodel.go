package models

import (
	"time"
)

// UsageLogModel is one row of the append-only relay ledger.
type UsageLogModel struct {
	ID              uint   `gorm:"primarykey"`
	TenantID        uint   `gorm:"not null;index:idx_usage_tenant_created"`
	UserID          string `gorm:"size:64;not null;index"`
	SourceLanguage  string `gorm:"size:16;not null"`
	TargetLanguages string `gorm:"size:512;not null"`
	CharacterCost   int64  `gorm:"not null"`
	CreatedAt       time.Time `gorm:"index:idx_usage_tenant_created"`
}

func (UsageLogModel) TableName() string {
	return "usage_logs"
}
