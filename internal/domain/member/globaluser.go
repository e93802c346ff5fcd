package member

import (
	"errors"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/plan"
)

// GlobalUser is the cross-tenant profile of a platform user: their personal
// subscription tier and lifetime counters.
type GlobalUser struct {
	id                 uint
	userID             string
	tier               plan.Tier
	lifetimeRelays     int64
	lifetimeCharacters int64
	createdAt          time.Time
	updatedAt          time.Time
}

// NewGlobalUser creates a profile on the free personal tier.
func NewGlobalUser(userID string, now time.Time) (*GlobalUser, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &GlobalUser{
		userID:    userID,
		tier:      plan.TierFree,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructGlobalUser rebuilds a profile from persisted state.
func ReconstructGlobalUser(
	id uint,
	userID string,
	tier plan.Tier,
	lifetimeRelays int64,
	lifetimeCharacters int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*GlobalUser, error) {
	if id == 0 {
		return nil, errors.New("global user ID cannot be zero")
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &GlobalUser{
		id:                 id,
		userID:             userID,
		tier:               tier,
		lifetimeRelays:     lifetimeRelays,
		lifetimeCharacters: lifetimeCharacters,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}, nil
}

// AddLifetimeUsage increments the lifetime relay and character counters.
func (g *GlobalUser) AddLifetimeUsage(relays, chars int64) {
	g.lifetimeRelays += relays
	g.lifetimeCharacters += chars
	g.updatedAt = time.Now().UTC()
}

func (g *GlobalUser) SetTier(tier plan.Tier) {
	g.tier = tier
	g.updatedAt = time.Now().UTC()
}

func (g *GlobalUser) ID() uint                  { return g.id }
func (g *GlobalUser) UserID() string            { return g.userID }
func (g *GlobalUser) Tier() plan.Tier           { return g.tier }
func (g *GlobalUser) LifetimeRelays() int64     { return g.lifetimeRelays }
func (g *GlobalUser) LifetimeCharacters() int64 { return g.lifetimeCharacters }
func (g *GlobalUser) CreatedAt() time.Time      { return g.createdAt }
func (g *GlobalUser) UpdatedAt() time.Time      { return g.updatedAt }

func (g *GlobalUser) SetID(id uint) error {
	if id == 0 {
		return errors.New("global user ID cannot be zero")
	}
	g.id = id
	return nil
}
