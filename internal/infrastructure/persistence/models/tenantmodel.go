package models

import (
	"time"

	"gorm.io/gorm"
)

// TenantModel represents the database persistence model for tenants.
// This is the anti-corruption layer between domain and database.
type TenantModel struct {
	ID             uint   `gorm:"primarykey"`
	SpaceID        string `gorm:"size:64;not null;uniqueIndex"`
	Name           string `gorm:"size:255"`
	Tier           string `gorm:"size:32;not null;default:'free'"`
	LogChannelID   string `gorm:"size:64"`
	MonthlyUsage   int64  `gorm:"not null;default:0"`
	UsageResetDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// TenantChannelModel is one row of a tenant's language-channel table.
type TenantChannelModel struct {
	ID           uint   `gorm:"primarykey"`
	TenantID     uint   `gorm:"not null;uniqueIndex:idx_tenant_language"`
	Language     string `gorm:"size:16;not null;uniqueIndex:idx_tenant_language"`
	ChannelID    string `gorm:"size:64;not null;index"`
	WebhookID    string `gorm:"size:64"`
	WebhookToken string `gorm:"size:128"`
	Enabled      bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (TenantChannelModel) TableName() string {
	return "tenant_channels"
}
