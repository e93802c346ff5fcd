package moderation

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction enumerates the state-changing moderation operations.
type AuditAction string

const (
	AuditActionBan           AuditAction = "ban"
	AuditActionTimeout       AuditAction = "timeout"
	AuditActionUnban         AuditAction = "unban"
	AuditActionBanExpired    AuditAction = "ban_expired"
	AuditActionWarn          AuditAction = "warn"
	AuditActionRemoveWarning AuditAction = "remove_warning"
	AuditActionClearWarnings AuditAction = "clear_warnings"
)

// AuditEntry is one immutable record of a moderation state change.
type AuditEntry struct {
	ID        string
	TenantID  uint
	UserID    string
	Action    AuditAction
	Reason    string
	ActorID   string
	CreatedAt time.Time
}

// NewAuditEntry creates an audit record with a fresh UUID.
func NewAuditEntry(tenantID uint, userID string, action AuditAction, reason, actorID string, now time.Time) *AuditEntry {
	return &AuditEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		UserID:    userID,
		Action:    action,
		Reason:    reason,
		ActorID:   actorID,
		CreatedAt: now,
	}
}
