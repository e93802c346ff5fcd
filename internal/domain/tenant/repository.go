package tenant

import "context"

// Repository defines persistence operations for tenants and their channel tables.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	Update(ctx context.Context, t *Tenant) error
	FindByID(ctx context.Context, id uint) (*Tenant, error)
	// FindBySpaceID resolves a platform space to its tenant.
	// Returns (nil, nil) when the space has no tenant configured.
	FindBySpaceID(ctx context.Context, spaceID string) (*Tenant, error)
}
