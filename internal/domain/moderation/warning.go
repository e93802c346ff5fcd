package moderation

import (
	"errors"
	"time"
)

// Warning is one moderation warning issued to a user inside a tenant.
// Many active warnings may coexist; the warning count is the number of
// active rows.
type Warning struct {
	id        uint
	tenantID  uint
	userID    string
	active    bool
	reason    string
	actorID   string
	createdAt time.Time
	clearedAt *time.Time
}

// NewWarning creates an active warning.
func NewWarning(tenantID uint, userID, reason, actorID string, now time.Time) (*Warning, error) {
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &Warning{
		tenantID:  tenantID,
		userID:    userID,
		active:    true,
		reason:    reason,
		actorID:   actorID,
		createdAt: now,
	}, nil
}

// ReconstructWarning rebuilds a warning from persisted state.
func ReconstructWarning(
	id uint,
	tenantID uint,
	userID string,
	active bool,
	reason string,
	actorID string,
	createdAt time.Time,
	clearedAt *time.Time,
) (*Warning, error) {
	if id == 0 {
		return nil, errors.New("warning ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &Warning{
		id:        id,
		tenantID:  tenantID,
		userID:    userID,
		active:    active,
		reason:    reason,
		actorID:   actorID,
		createdAt: createdAt,
		clearedAt: clearedAt,
	}, nil
}

// Clear flips the warning inactive.
func (w *Warning) Clear(now time.Time) error {
	if !w.active {
		return errors.New("warning is not active")
	}
	w.active = false
	w.clearedAt = &now
	return nil
}

func (w *Warning) ID() uint             { return w.id }
func (w *Warning) TenantID() uint       { return w.tenantID }
func (w *Warning) UserID() string       { return w.userID }
func (w *Warning) Active() bool         { return w.active }
func (w *Warning) Reason() string       { return w.reason }
func (w *Warning) ActorID() string      { return w.actorID }
func (w *Warning) CreatedAt() time.Time { return w.createdAt }
func (w *Warning) ClearedAt() *time.Time {
	if w.clearedAt == nil {
		return nil
	}
	t := *w.clearedAt
	return &t
}

func (w *Warning) SetID(id uint) error {
	if id == 0 {
		return errors.New("warning ID cannot be zero")
	}
	w.id = id
	return nil
}
