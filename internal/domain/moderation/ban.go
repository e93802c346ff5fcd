// Package moderation holds the ban and warning lifecycle for a tenant's
// members. Bans are soft records: expiry and lifting flip the active flag,
// rows are never physically deleted.
package moderation

import (
	"errors"
	"time"
)

var (
	ErrZeroTenantID   = errors.New("tenant ID cannot be zero")
	ErrEmptyUserID    = errors.New("user ID cannot be empty")
	ErrBanNotActive   = errors.New("ban is not active")
	ErrAlreadyBanned  = errors.New("user already has an active ban")
	ErrNoActiveBan    = errors.New("user has no active ban")
	ErrDurationNeeded = errors.New("timeout requires a duration")
)

// Ban is one ban of a user inside a tenant. A nil expiresAt means permanent.
type Ban struct {
	id         uint
	tenantID   uint
	userID     string
	active     bool
	reason     string
	actorID    string
	expiresAt  *time.Time
	bannedAt   time.Time
	liftedAt   *time.Time
	liftedBy   string
	liftReason string
}

// NewBan creates an active ban. expiresAt nil means permanent.
func NewBan(tenantID uint, userID, reason, actorID string, expiresAt *time.Time, now time.Time) (*Ban, error) {
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &Ban{
		tenantID:  tenantID,
		userID:    userID,
		active:    true,
		reason:    reason,
		actorID:   actorID,
		expiresAt: expiresAt,
		bannedAt:  now,
	}, nil
}

// ReconstructBan rebuilds a ban from persisted state.
func ReconstructBan(
	id uint,
	tenantID uint,
	userID string,
	active bool,
	reason string,
	actorID string,
	expiresAt *time.Time,
	bannedAt time.Time,
	liftedAt *time.Time,
	liftedBy string,
	liftReason string,
) (*Ban, error) {
	if id == 0 {
		return nil, errors.New("ban ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &Ban{
		id:         id,
		tenantID:   tenantID,
		userID:     userID,
		active:     active,
		reason:     reason,
		actorID:    actorID,
		expiresAt:  expiresAt,
		bannedAt:   bannedAt,
		liftedAt:   liftedAt,
		liftedBy:   liftedBy,
		liftReason: liftReason,
	}, nil
}

// IsExpired reports whether the ban's expiry has passed at the given instant.
// Permanent bans never expire.
func (b *Ban) IsExpired(now time.Time) bool {
	return b.expiresAt != nil && !now.Before(*b.expiresAt)
}

// Lift deactivates the ban by moderator action, recording who and why.
func (b *Ban) Lift(actorID, reason string, now time.Time) error {
	if !b.active {
		return ErrBanNotActive
	}
	b.active = false
	b.liftedAt = &now
	b.liftedBy = actorID
	b.liftReason = reason
	return nil
}

// Expire deactivates the ban because its expiry passed. Unlike Lift it
// records no acting moderator.
func (b *Ban) Expire(now time.Time) error {
	if !b.active {
		return ErrBanNotActive
	}
	b.active = false
	b.liftedAt = &now
	b.liftReason = "expired"
	return nil
}

func (b *Ban) ID() uint         { return b.id }
func (b *Ban) TenantID() uint   { return b.tenantID }
func (b *Ban) UserID() string   { return b.userID }
func (b *Ban) Active() bool     { return b.active }
func (b *Ban) Reason() string   { return b.reason }
func (b *Ban) ActorID() string  { return b.actorID }
func (b *Ban) ExpiresAt() *time.Time {
	if b.expiresAt == nil {
		return nil
	}
	t := *b.expiresAt
	return &t
}
func (b *Ban) BannedAt() time.Time { return b.bannedAt }
func (b *Ban) LiftedAt() *time.Time {
	if b.liftedAt == nil {
		return nil
	}
	t := *b.liftedAt
	return &t
}
func (b *Ban) LiftedBy() string   { return b.liftedBy }
func (b *Ban) LiftReason() string { return b.liftReason }

func (b *Ban) SetID(id uint) error {
	if id == 0 {
		return errors.New("ban ID cannot be zero")
	}
	b.id = id
	return nil
}
