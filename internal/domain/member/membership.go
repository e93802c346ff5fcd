// Package member holds the per-tenant user link and the cross-tenant user
// profile. A membership is created when a user verifies inside a tenant and
// carries their usage counters, activity streaks and unlocked achievements.
package member

import (
	"errors"
	"slices"
	"time"

	"github.com/lingorelay/lingorelay/internal/shared/biztime"
)

var (
	ErrEmptyUserID  = errors.New("user ID cannot be empty")
	ErrZeroTenantID = errors.New("tenant ID cannot be zero")
)

// Membership links one platform user to one tenant.
type Membership struct {
	id                   uint
	tenantID             uint
	userID               string
	globalUserID         *uint
	verified             bool
	immersionEnabled     bool
	monthlyUsage         int64
	usageResetDate       time.Time
	currentStreak        int
	longestStreak        int
	lastActiveDate       *time.Time
	totalTranslations    int64
	unlockedAchievements []string
	displayName          string
	hideStats            bool
	createdAt            time.Time
	updatedAt            time.Time
}

// NewMembership creates a verified membership with immersion enabled.
// Verification is the administrative act that creates the link, so a fresh
// membership is always verified.
func NewMembership(tenantID uint, userID string, now time.Time) (*Membership, error) {
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	return &Membership{
		tenantID:         tenantID,
		userID:           userID,
		verified:         true,
		immersionEnabled: true,
		usageResetDate:   biztime.StartOfMonth(now),
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructMembership rebuilds a membership from persisted state.
func ReconstructMembership(
	id uint,
	tenantID uint,
	userID string,
	globalUserID *uint,
	verified bool,
	immersionEnabled bool,
	monthlyUsage int64,
	usageResetDate time.Time,
	currentStreak int,
	longestStreak int,
	lastActiveDate *time.Time,
	totalTranslations int64,
	unlockedAchievements []string,
	displayName string,
	hideStats bool,
	createdAt time.Time,
	updatedAt time.Time,
) (*Membership, error) {
	if id == 0 {
		return nil, errors.New("membership ID cannot be zero")
	}
	if tenantID == 0 {
		return nil, ErrZeroTenantID
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	if longestStreak < currentStreak {
		return nil, errors.New("longest streak cannot be below current streak")
	}
	return &Membership{
		id:                   id,
		tenantID:             tenantID,
		userID:               userID,
		globalUserID:         globalUserID,
		verified:             verified,
		immersionEnabled:     immersionEnabled,
		monthlyUsage:         monthlyUsage,
		usageResetDate:       usageResetDate,
		currentStreak:        currentStreak,
		longestStreak:        longestStreak,
		lastActiveDate:       lastActiveDate,
		totalTranslations:    totalTranslations,
		unlockedAchievements: unlockedAchievements,
		displayName:          displayName,
		hideStats:            hideStats,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}, nil
}

// RecordActivity advances the streak counters for an active day.
//
// Gap of zero days leaves the streak unchanged; exactly one day extends it;
// a longer gap restarts at 1. The first activity ever sets both counters
// to 1. The longest streak never drops below the current streak.
func (m *Membership) RecordActivity(now time.Time) {
	today := biztime.DateOnly(now)

	if m.lastActiveDate == nil {
		m.currentStreak = 1
		if m.longestStreak < 1 {
			m.longestStreak = 1
		}
		m.lastActiveDate = &today
		m.updatedAt = now.UTC()
		return
	}

	gapDays := biztime.WholeDaysBetween(*m.lastActiveDate, today)
	switch {
	case gapDays == 0:
		return
	case gapDays == 1:
		m.currentStreak++
		if m.currentStreak > m.longestStreak {
			m.longestStreak = m.currentStreak
		}
	default:
		m.currentStreak = 1
	}
	m.lastActiveDate = &today
	m.updatedAt = now.UTC()
}

// RolloverIfDue resets the monthly usage counter when now has crossed into
// a later month than the recorded reset date. Idempotent within a month.
func (m *Membership) RolloverIfDue(now time.Time) bool {
	if biztime.SameMonth(now, m.usageResetDate) || now.Before(m.usageResetDate) {
		return false
	}
	m.monthlyUsage = 0
	m.usageResetDate = biztime.StartOfMonth(now)
	m.updatedAt = now.UTC()
	return true
}

// AddUsage increments the member's monthly character counter.
func (m *Membership) AddUsage(chars int64) {
	m.monthlyUsage += chars
	m.updatedAt = time.Now().UTC()
}

// IncrementTranslations bumps the lifetime relay count for this tenant.
func (m *Membership) IncrementTranslations() {
	m.totalTranslations++
	m.updatedAt = time.Now().UTC()
}

// UnlockAchievements records newly unlocked achievement ids, skipping any
// already present.
func (m *Membership) UnlockAchievements(ids []string) {
	for _, id := range ids {
		if !slices.Contains(m.unlockedAchievements, id) {
			m.unlockedAchievements = append(m.unlockedAchievements, id)
		}
	}
	if len(ids) > 0 {
		m.updatedAt = time.Now().UTC()
	}
}

// LinkGlobalUser attaches the cross-tenant profile. Established lazily on
// the first relay event.
func (m *Membership) LinkGlobalUser(globalUserID uint) {
	m.globalUserID = &globalUserID
	m.updatedAt = time.Now().UTC()
}

func (m *Membership) SetImmersion(enabled bool) {
	m.immersionEnabled = enabled
	m.updatedAt = time.Now().UTC()
}

func (m *Membership) SetDisplayName(name string) {
	m.displayName = name
	m.updatedAt = time.Now().UTC()
}

func (m *Membership) SetHideStats(hide bool) {
	m.hideStats = hide
	m.updatedAt = time.Now().UTC()
}

func (m *Membership) ID() uint                { return m.id }
func (m *Membership) TenantID() uint          { return m.tenantID }
func (m *Membership) UserID() string          { return m.userID }
func (m *Membership) GlobalUserID() *uint     { return m.globalUserID }
func (m *Membership) Verified() bool          { return m.verified }
func (m *Membership) ImmersionEnabled() bool  { return m.immersionEnabled }
func (m *Membership) MonthlyUsage() int64     { return m.monthlyUsage }
func (m *Membership) UsageResetDate() time.Time { return m.usageResetDate }
func (m *Membership) CurrentStreak() int      { return m.currentStreak }
func (m *Membership) LongestStreak() int      { return m.longestStreak }
func (m *Membership) LastActiveDate() *time.Time {
	if m.lastActiveDate == nil {
		return nil
	}
	d := *m.lastActiveDate
	return &d
}
func (m *Membership) TotalTranslations() int64 { return m.totalTranslations }
func (m *Membership) UnlockedAchievements() []string {
	out := make([]string, len(m.unlockedAchievements))
	copy(out, m.unlockedAchievements)
	return out
}
func (m *Membership) DisplayName() string  { return m.displayName }
func (m *Membership) HideStats() bool      { return m.hideStats }
func (m *Membership) CreatedAt() time.Time { return m.createdAt }
func (m *Membership) UpdatedAt() time.Time { return m.updatedAt }

func (m *Membership) SetID(id uint) error {
	if id == 0 {
		return errors.New("membership ID cannot be zero")
	}
	m.id = id
	return nil
}
