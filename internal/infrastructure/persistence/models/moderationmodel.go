package models

import (
	"time"
)

// BanModel represents one moderation ban row. Rows are soft state: expiry
// and lifting flip Active, nothing is deleted.
type BanModel struct {
	ID         uint   `gorm:"primarykey"`
	TenantID   uint   `gorm:"not null;index:idx_ban_tenant_user"`
	UserID     string `gorm:"size:64;not null;index:idx_ban_tenant_user"`
	Active     bool   `gorm:"not null;default:true;index"`
	Reason     string `gorm:"size:1024"`
	ActorID    string `gorm:"size:64"`
	ExpiresAt  *time.Time `gorm:"index"`
	BannedAt   time.Time
	LiftedAt   *time.Time
	LiftedBy   string `gorm:"size:64"`
	LiftReason string `gorm:"size:1024"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (BanModel) TableName() string {
	return "moderation_bans"
}

// WarningModel represents one moderation warning row.
type WarningModel struct {
	ID        uint   `gorm:"primarykey"`
	TenantID  uint   `gorm:"not null;index:idx_warning_tenant_user"`
	UserID    string `gorm:"size:64;not null;index:idx_warning_tenant_user"`
	Active    bool   `gorm:"not null;default:true;index"`
	Reason    string `gorm:"size:1024"`
	ActorID   string `gorm:"size:64"`
	ClearedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WarningModel) TableName() string {
	return "moderation_warnings"
}

// ModerationAuditModel is one immutable audit record of a moderation action.
type ModerationAuditModel struct {
	ID        string `gorm:"size:36;primarykey"`
	TenantID  uint   `gorm:"not null;index"`
	UserID    string `gorm:"size:64;not null"`
	Action    string `gorm:"size:32;not null"`
	Reason    string `gorm:"size:1024"`
	ActorID   string `gorm:"size:64"`
	CreatedAt time.Time
}

func (ModerationAuditModel) TableName() string {
	return "moderation_audits"
}
