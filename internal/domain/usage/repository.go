package usage

import (
	"context"
	"time"
)

// Repository defines persistence operations for the relay ledger.
type Repository interface {
	Create(ctx context.Context, e *LogEntry) error
	// ListRecentByTenant pages the tenant's ledger newest-first.
	ListRecentByTenant(ctx context.Context, tenantID uint, limit, offset int) ([]*LogEntry, error)
	// DeleteOlderThan prunes entries past the retention window. Returns the
	// number of rows removed. Retention pruning is administrative; the relay
	// pipeline itself never deletes.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
