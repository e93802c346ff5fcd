package moderation

import (
	"context"
	"time"
)

// Repository defines persistence operations for bans, warnings and audit
// records.
//
// Ban expiry is lazy: callers reading ban status first invoke
// DeactivateExpired for the pair, then FindActiveBan. The batch variant
// exists for the background sweep and is never required for correctness.
type Repository interface {
	CreateBan(ctx context.Context, b *Ban) error
	UpdateBan(ctx context.Context, b *Ban) error
	// FindActiveBan returns (nil, nil) when no active ban exists.
	FindActiveBan(ctx context.Context, tenantID uint, userID string) (*Ban, error)
	// DeactivateExpired flips active bans of the pair whose expiry has
	// passed. Returns the number of rows flipped.
	DeactivateExpired(ctx context.Context, tenantID uint, userID string, now time.Time) (int64, error)
	// DeactivateAllExpired flips every expired active ban across tenants.
	DeactivateAllExpired(ctx context.Context, now time.Time) (int64, error)

	CreateWarning(ctx context.Context, w *Warning) error
	UpdateWarning(ctx context.Context, w *Warning) error
	FindWarning(ctx context.Context, id uint) (*Warning, error)
	ListActiveWarnings(ctx context.Context, tenantID uint, userID string) ([]*Warning, error)
	CountActiveWarnings(ctx context.Context, tenantID uint, userID string) (int64, error)
	// ClearWarnings flips all active warnings of the pair, returning the count.
	ClearWarnings(ctx context.Context, tenantID uint, userID string, now time.Time) (int64, error)

	CreateAudit(ctx context.Context, e *AuditEntry) error
}
