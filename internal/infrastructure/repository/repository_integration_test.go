package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/member"
	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/domain/plan"
	"github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.TenantModel{},
		&models.TenantChannelModel{},
		&models.MembershipModel{},
		&models.GlobalUserModel{},
		&models.BanModel{},
		&models.WarningModel{},
		&models.ModerationAuditModel{},
		&models.UsageLogModel{},
	)
	require.NoError(t, err)

	return database
}

func createTestTenant(t *testing.T, now time.Time) *tenant.Tenant {
	tn, err := tenant.NewTenant("space-100", "Polyglot Hangout", plan.TierFree, now)
	require.NoError(t, err)
	tn.SetChannel(tenant.ChannelMapping{
		Language:  "en",
		ChannelID: "chan-en",
		Enabled:   true,
	})
	tn.SetChannel(tenant.ChannelMapping{
		Language:     "ja",
		ChannelID:    "chan-ja",
		WebhookID:    "wh-1",
		WebhookToken: "tok-1",
		Enabled:      true,
	})
	return tn
}

func TestTenantRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewTenantRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("create and find by space ID", func(t *testing.T) {
		tn := createTestTenant(t, now)
		require.NoError(t, repo.Create(ctx, tn))
		assert.NotZero(t, tn.ID())

		found, err := repo.FindBySpaceID(ctx, "space-100")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, tn.ID(), found.ID())
		assert.Len(t, found.Channels(), 2)

		lang, ok := found.ChannelLanguage("chan-ja")
		assert.True(t, ok)
		assert.Equal(t, tenant.Language("ja"), lang)
	})

	t.Run("unknown space returns nil without error", func(t *testing.T) {
		found, err := repo.FindBySpaceID(ctx, "space-missing")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate space ID fails", func(t *testing.T) {
		tn, err := tenant.NewTenant("space-100", "Duplicate", plan.TierFree, now)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, tn))
	})

	t.Run("update persists usage and channel changes", func(t *testing.T) {
		found, err := repo.FindBySpaceID(ctx, "space-100")
		require.NoError(t, err)
		require.NotNil(t, found)

		found.AddUsage(640)
		found.SetChannel(tenant.ChannelMapping{
			Language:  "fr",
			ChannelID: "chan-fr",
			Enabled:   true,
		})
		require.NoError(t, found.DisableChannel("en"))
		require.NoError(t, repo.Update(ctx, found))

		reloaded, err := repo.FindByID(ctx, found.ID())
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, int64(640), reloaded.MonthlyUsage())
		assert.Len(t, reloaded.Channels(), 3)

		_, ok := reloaded.ChannelLanguage("chan-en")
		assert.False(t, ok, "disabled channel must not resolve")
	})
}

func TestMembershipRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewMembershipRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("create and find round-trips counters and achievements", func(t *testing.T) {
		m, err := member.NewMembership(1, "user-1", now)
		require.NoError(t, err)
		m.AddUsage(1200)
		m.RecordActivity(now)
		m.UnlockAchievements([]string{"first_relay", "streak_3"})
		require.NoError(t, repo.Create(ctx, m))

		found, err := repo.Find(ctx, 1, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, int64(1200), found.MonthlyUsage())
		assert.Equal(t, 1, found.CurrentStreak())
		assert.ElementsMatch(t, []string{"first_relay", "streak_3"}, found.UnlockedAchievements())
	})

	t.Run("unknown member returns nil without error", func(t *testing.T) {
		found, err := repo.Find(ctx, 1, "user-unknown")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate tenant-user pair fails", func(t *testing.T) {
		m, err := member.NewMembership(1, "user-1", now)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, m))
	})

	t.Run("top by monthly usage orders descending", func(t *testing.T) {
		for _, tc := range []struct {
			userID string
			chars  int64
		}{
			{"user-2", 500},
			{"user-3", 9000},
		} {
			m, err := member.NewMembership(1, tc.userID, now)
			require.NoError(t, err)
			m.AddUsage(tc.chars)
			require.NoError(t, repo.Create(ctx, m))
		}

		top, err := repo.TopByMonthlyUsage(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "user-3", top[0].UserID())
		assert.Equal(t, "user-1", top[1].UserID())
	})
}

func TestGlobalUserRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewGlobalUserRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("create, update, find", func(t *testing.T) {
		g, err := member.NewGlobalUser("user-1", now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, g))

		g.AddLifetimeUsage(1, 800)
		g.SetTier(plan.TierPro)
		require.NoError(t, repo.Update(ctx, g))

		found, err := repo.FindByUserID(ctx, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, plan.TierPro, found.Tier())
		assert.Equal(t, int64(1), found.LifetimeRelays())
		assert.Equal(t, int64(800), found.LifetimeCharacters())
	})

	t.Run("unknown user returns nil without error", func(t *testing.T) {
		found, err := repo.FindByUserID(ctx, "user-missing")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestModerationRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewModerationRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("active ban round-trip", func(t *testing.T) {
		b, err := moderation.NewBan(1, "user-1", "spam", "mod-1", nil, now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateBan(ctx, b))

		found, err := repo.FindActiveBan(ctx, 1, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "spam", found.Reason())
		assert.Nil(t, found.ExpiresAt())
	})

	t.Run("lifted ban no longer resolves as active", func(t *testing.T) {
		found, err := repo.FindActiveBan(ctx, 1, "user-1")
		require.NoError(t, err)
		require.NotNil(t, found)

		require.NoError(t, found.Lift("mod-2", "appeal accepted", now))
		require.NoError(t, repo.UpdateBan(ctx, found))

		active, err := repo.FindActiveBan(ctx, 1, "user-1")
		require.NoError(t, err)
		assert.Nil(t, active)
	})

	t.Run("deactivate expired flips only past-expiry bans", func(t *testing.T) {
		expired := now.Add(-time.Hour)
		future := now.Add(time.Hour)

		b1, err := moderation.NewBan(2, "user-9", "timeout", "mod-1", &expired, now.Add(-2*time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.CreateBan(ctx, b1))

		b2, err := moderation.NewBan(2, "user-10", "timeout", "mod-1", &future, now)
		require.NoError(t, err)
		require.NoError(t, repo.CreateBan(ctx, b2))

		flipped, err := repo.DeactivateExpired(ctx, 2, "user-9", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), flipped)

		gone, err := repo.FindActiveBan(ctx, 2, "user-9")
		require.NoError(t, err)
		assert.Nil(t, gone)

		still, err := repo.FindActiveBan(ctx, 2, "user-10")
		require.NoError(t, err)
		assert.NotNil(t, still)
	})

	t.Run("warnings count and clear", func(t *testing.T) {
		for range 3 {
			w, err := moderation.NewWarning(3, "user-5", "language", "mod-1", now)
			require.NoError(t, err)
			require.NoError(t, repo.CreateWarning(ctx, w))
		}

		count, err := repo.CountActiveWarnings(ctx, 3, "user-5")
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		cleared, err := repo.ClearWarnings(ctx, 3, "user-5", now)
		require.NoError(t, err)
		assert.Equal(t, int64(3), cleared)

		count, err = repo.CountActiveWarnings(ctx, 3, "user-5")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("audit entry persists", func(t *testing.T) {
		e := moderation.NewAuditEntry(1, "user-1", moderation.AuditActionBan, "spam", "mod-1", now)
		assert.NoError(t, repo.CreateAudit(ctx, e))
	})
}

func TestUsageLogRepository(t *testing.T) {
	database := setupTestDB(t)
	repo := NewUsageLogRepository(database)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("create and list newest first", func(t *testing.T) {
		for i := range 3 {
			e, err := usage.NewLogEntry(1, "user-1", "en", []string{"ja", "fr"}, 200, base.AddDate(0, 0, i))
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, e))
		}

		entries, err := repo.ListRecentByTenant(ctx, 1, 2, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.True(t, entries[0].CreatedAt().After(entries[1].CreatedAt()))
		assert.Equal(t, "ja,fr", entries[0].TargetLanguages())
	})

	t.Run("delete older than prunes by cutoff", func(t *testing.T) {
		removed, err := repo.DeleteOlderThan(ctx, base.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		entries, err := repo.ListRecentByTenant(ctx, 1, 10, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
