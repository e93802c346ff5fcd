package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
)

type statsFixture struct {
	service    *Service
	tenantRepo tenant.Repository
	memberRepo member.Repository
	usageRepo  usage.Repository
	clock      time.Time
}

func newFixture(t *testing.T) *statsFixture {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.TenantModel{},
		&models.TenantChannelModel{},
		&models.MembershipModel{},
		&models.UsageLogModel{},
	))

	f := &statsFixture{
		tenantRepo: repository.NewTenantRepository(database),
		memberRepo: repository.NewMembershipRepository(database),
		usageRepo:  repository.NewUsageLogRepository(database),
		clock:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	f.service = NewService(f.tenantRepo, f.memberRepo, f.usageRepo)
	f.service.SetClock(func() time.Time { return f.clock })
	return f
}

func (f *statsFixture) seedTenant(t *testing.T) *tenant.Tenant {
	t.Helper()

	tn, err := tenant.NewTenant("space-1", "Test Space", plan.TierFree, f.clock)
	require.NoError(t, err)
	tn.SetChannel(tenant.ChannelMapping{Language: "en", ChannelID: "chan-en", Enabled: true})
	tn.SetChannel(tenant.ChannelMapping{Language: "ja", ChannelID: "chan-ja", Enabled: true})
	tn.SetChannel(tenant.ChannelMapping{Language: "fr", ChannelID: "chan-fr", Enabled: false})
	require.NoError(t, f.tenantRepo.Create(context.Background(), tn))
	return tn
}

func (f *statsFixture) seedMember(t *testing.T, tenantID uint, userID string, monthlyUsage int64) *member.Membership {
	t.Helper()

	m, err := member.NewMembership(tenantID, userID, f.clock)
	require.NoError(t, err)
	m.AddUsage(monthlyUsage)
	m.SetDisplayName("name-" + userID)
	require.NoError(t, f.memberRepo.Create(context.Background(), m))
	return m
}

func TestTenantUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)
	tn.AddUsage(5_000)
	require.NoError(t, f.tenantRepo.Update(ctx, tn))

	u, err := f.service.TenantUsage(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, plan.TierFree, u.Tier)
	assert.Equal(t, int64(5_000), u.MonthlyUsage)
	assert.Equal(t, int64(25_000), u.CharacterLimit)
	assert.InDelta(t, 0.2, u.UsedFraction, 0.001)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), u.ResetsAt)
	assert.Equal(t, 2, u.Languages)
}

func TestTenantUsageStaleMonthReadsAsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)
	tn.AddUsage(5_000)
	require.NoError(t, f.tenantRepo.Update(ctx, tn))

	// Month rolled, no relay ran yet: the persisted counter is stale.
	f.clock = time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	u, err := f.service.TenantUsage(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.MonthlyUsage)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), u.ResetsAt)
}

func TestTenantUsageNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.TenantUsage(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)

	f.seedMember(t, tn.ID(), "user-low", 100)
	f.seedMember(t, tn.ID(), "user-high", 900)
	hidden := f.seedMember(t, tn.ID(), "user-hidden", 500)
	hidden.SetHideStats(true)
	require.NoError(t, f.memberRepo.Update(ctx, hidden))

	rows, err := f.service.Leaderboard(ctx, tn.ID(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "user-high", rows[0].UserID)
	assert.Equal(t, int64(900), rows[0].MonthlyUsage)
	assert.Equal(t, "name-user-high", rows[0].DisplayName)

	// Opted-out member keeps the rank but exposes nothing.
	assert.Equal(t, 2, rows[1].Rank)
	assert.True(t, rows[1].Hidden)
	assert.Zero(t, rows[1].MonthlyUsage)
	assert.Empty(t, rows[1].DisplayName)

	assert.Equal(t, "user-low", rows[2].UserID)
}

func TestMemberStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)
	m := f.seedMember(t, tn.ID(), "user-1", 250)
	m.IncrementTranslations()
	m.RecordActivity(f.clock)
	m.UnlockAchievements([]string{"first_words"})
	require.NoError(t, f.memberRepo.Update(ctx, m))

	stats, err := f.service.MemberStats(ctx, tn.ID(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(250), stats.MonthlyUsage)
	assert.Equal(t, int64(1), stats.TotalTranslations)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Contains(t, stats.Achievements, "first_words")

	_, err = f.service.MemberStats(ctx, tn.ID(), "user-missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestRecentActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)

	for i := 0; i < 5; i++ {
		e, err := usage.NewLogEntry(tn.ID(), "user-1", "en", []string{"ja"}, int64(10+i),
			f.clock.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, f.usageRepo.Create(ctx, e))
	}

	page, err := f.service.RecentActivity(ctx, tn.ID(), 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(14), page[0].CharacterCost())

	rest, err := f.service.RecentActivity(ctx, tn.ID(), 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestLeaderboardClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tn := f.seedTenant(t)
	for i := 0; i < 3; i++ {
		f.seedMember(t, tn.ID(), fmt.Sprintf("user-%d", i), int64(i*10))
	}

	rows, err := f.service.Leaderboard(ctx, tn.ID(), -1)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
