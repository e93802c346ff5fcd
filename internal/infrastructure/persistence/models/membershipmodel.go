package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MembershipModel represents the database persistence model for the
// user-tenant link, including usage counters and streak state.
type MembershipModel struct {
	ID               uint   `gorm:"primarykey"`
	TenantID         uint   `gorm:"not null;uniqueIndex:idx_tenant_user"`
	UserID           string `gorm:"size:64;not null;uniqueIndex:idx_tenant_user"`
	GlobalUserID     *uint  `gorm:"index"`
	Verified         bool   `gorm:"not null;default:false"`
	ImmersionEnabled bool   `gorm:"not null;default:true"`
	MonthlyUsage     int64  `gorm:"not null;default:0"`
	UsageResetDate   time.Time
	CurrentStreak    int `gorm:"not null;default:0"`
	LongestStreak    int `gorm:"not null;default:0"`
	LastActiveDate   *time.Time
	TotalTranslations    int64          `gorm:"not null;default:0"`
	UnlockedAchievements datatypes.JSON `gorm:"type:json"`
	DisplayName          string         `gorm:"size:128"`
	HideStats            bool           `gorm:"not null;default:false"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// GlobalUserModel represents the cross-tenant user profile.
type GlobalUserModel struct {
	ID                 uint   `gorm:"primarykey"`
	UserID             string `gorm:"size:64;not null;uniqueIndex"`
	Tier               string `gorm:"size:32;not null;default:'free'"`
	LifetimeRelays     int64  `gorm:"not null;default:0"`
	LifetimeCharacters int64  `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (GlobalUserModel) TableName() string {
	return "global_users"
}
