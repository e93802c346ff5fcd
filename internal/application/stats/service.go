// Package stats exposes read-side views over tenant usage, member
// leaderboards and the relay ledger.
package stats

import (
	"context"
	"time"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/shared/biztime"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 50
	defaultLedgerPageSize  = 20
	maxLedgerPageSize      = 100
)

// TenantUsage summarizes a tenant's position against its monthly budget.
type TenantUsage struct {
	TenantID       uint
	Tier           plan.Tier
	MonthlyUsage   int64
	CharacterLimit int64
	UsedFraction   float64
	ResetsAt       time.Time
	Languages      int
}

// LeaderboardRow is one member on the monthly usage leaderboard. Rows for
// members who opted out of stats carry only the rank.
type LeaderboardRow struct {
	Rank              int    `json:"rank"`
	UserID            string `json:"user_id"`
	DisplayName       string `json:"display_name,omitempty"`
	MonthlyUsage      int64  `json:"monthly_usage"`
	TotalTranslations int64  `json:"total_translations"`
	CurrentStreak     int    `json:"current_streak"`
	Hidden            bool   `json:"hidden"`
}

// MemberStats is the personal view: always complete, hide_stats only
// conceals a member from others.
type MemberStats struct {
	UserID            string   `json:"user_id"`
	MonthlyUsage      int64    `json:"monthly_usage"`
	TotalTranslations int64    `json:"total_translations"`
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	Achievements      []string `json:"achievements"`
}

// Service assembles the read-side views.
type Service struct {
	tenantRepo tenant.Repository
	memberRepo member.Repository
	usageRepo  usage.Repository
	now        func() time.Time
}

func NewService(tenantRepo tenant.Repository, memberRepo member.Repository, usageRepo usage.Repository) *Service {
	return &Service{
		tenantRepo: tenantRepo,
		memberRepo: memberRepo,
		usageRepo:  usageRepo,
		now:        biztime.NowUTC,
	}
}

// SetClock overrides the service clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// TenantUsage reports the tenant's month-to-date consumption. Usage shown
// is as persisted; a rollover that has not been touched by a relay yet
// is reflected through the reset date, not by mutating state here.
func (s *Service) TenantUsage(ctx context.Context, tenantID uint) (*TenantUsage, error) {
	t, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.NewNotFoundError("tenant not found")
	}

	now := s.now()
	monthlyUsage := t.MonthlyUsage()
	resetsAt := biztime.NextMonthStart(t.UsageResetDate())
	if !biztime.SameMonth(t.UsageResetDate(), now) {
		// Stale counter: the month rolled but no relay has run yet.
		monthlyUsage = 0
		resetsAt = biztime.NextMonthStart(now)
	}

	limit := t.CharacterLimit()
	enabled := 0
	for _, c := range t.Channels() {
		if c.Enabled {
			enabled++
		}
	}

	return &TenantUsage{
		TenantID:       t.ID(),
		Tier:           t.Tier(),
		MonthlyUsage:   monthlyUsage,
		CharacterLimit: limit,
		UsedFraction:   float64(monthlyUsage) / float64(limit),
		ResetsAt:       resetsAt,
		Languages:      enabled,
	}, nil
}

// Leaderboard ranks the tenant's members by month-to-date usage. Members
// with hide_stats keep their rank but expose no numbers.
func (s *Service) Leaderboard(ctx context.Context, tenantID uint, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	members, err := s.memberRepo.TopByMonthlyUsage(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]LeaderboardRow, 0, len(members))
	for i, m := range members {
		row := LeaderboardRow{Rank: i + 1, UserID: m.UserID()}
		if m.HideStats() {
			row.Hidden = true
			rows = append(rows, row)
			continue
		}
		monthlyUsage := m.MonthlyUsage()
		if !biztime.SameMonth(m.UsageResetDate(), now) {
			monthlyUsage = 0
		}
		row.DisplayName = m.DisplayName()
		row.MonthlyUsage = monthlyUsage
		row.TotalTranslations = m.TotalTranslations()
		row.CurrentStreak = m.CurrentStreak()
		rows = append(rows, row)
	}
	return rows, nil
}

// MemberStats reports a member's own numbers inside a tenant.
func (s *Service) MemberStats(ctx context.Context, tenantID uint, userID string) (*MemberStats, error) {
	m, err := s.memberRepo.Find(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NewNotFoundError("membership not found")
	}

	monthlyUsage := m.MonthlyUsage()
	if !biztime.SameMonth(m.UsageResetDate(), s.now()) {
		monthlyUsage = 0
	}

	return &MemberStats{
		UserID:            m.UserID(),
		MonthlyUsage:      monthlyUsage,
		TotalTranslations: m.TotalTranslations(),
		CurrentStreak:     m.CurrentStreak(),
		LongestStreak:     m.LongestStreak(),
		Achievements:      m.UnlockedAchievements(),
	}, nil
}

// RecentActivity pages the tenant's relay ledger newest-first.
func (s *Service) RecentActivity(ctx context.Context, tenantID uint, limit, offset int) ([]*usage.LogEntry, error) {
	if limit <= 0 {
		limit = defaultLedgerPageSize
	}
	if limit > maxLedgerPageSize {
		limit = maxLedgerPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.usageRepo.ListRecentByTenant(ctx, tenantID, limit, offset)
}
