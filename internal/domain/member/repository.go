package member

import "context"

// Repository defines persistence operations for memberships.
type Repository interface {
	Create(ctx context.Context, m *Membership) error
	Update(ctx context.Context, m *Membership) error
	// Find resolves the membership of a user inside a tenant.
	// Returns (nil, nil) when the user has never verified there.
	Find(ctx context.Context, tenantID uint, userID string) (*Membership, error)
	// TopByMonthlyUsage lists the tenant's memberships ordered by current
	// month usage, for the stats surface.
	TopByMonthlyUsage(ctx context.Context, tenantID uint, limit int) ([]*Membership, error)
}

// GlobalUserRepository defines persistence operations for cross-tenant profiles.
type GlobalUserRepository interface {
	Create(ctx context.Context, g *GlobalUser) error
	Update(ctx context.Context, g *GlobalUser) error
	// FindByUserID returns (nil, nil) when no profile exists yet.
	FindByUserID(ctx context.Context, userID string) (*GlobalUser, error)
}
