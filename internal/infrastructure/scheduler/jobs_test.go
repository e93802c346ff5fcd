package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/moderation"
	"github.com/lingorelay/lingorelay/internal/domain/usage"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
)

func setupJobDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.BanModel{},
		&models.UsageLogModel{},
	))
	return database
}

func TestBanExpirySweepJob(t *testing.T) {
	database := setupJobDB(t)
	repo := repository.NewModerationRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	expiry := now.Add(-time.Hour)
	expired, err := moderation.NewBan(1, "user-1", "cooldown", "mod-1", &expiry, now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.CreateBan(ctx, expired))

	permanent, err := moderation.NewBan(1, "user-2", "spam", "mod-1", nil, now.Add(-2*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.CreateBan(ctx, permanent))

	job := NewBanExpirySweepJob(repo)
	job.now = func() time.Time { return now }

	flipped, err := job.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	b, err := repo.FindActiveBan(ctx, 1, "user-2")
	require.NoError(t, err)
	assert.NotNil(t, b)
}

func TestUsageLogRetentionJob(t *testing.T) {
	database := setupJobDB(t)
	repo := repository.NewUsageLogRepository(database)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	old, err := usage.NewLogEntry(1, "user-1", "en", []string{"ja"}, 10, now.AddDate(0, 0, -401))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, old))

	fresh, err := usage.NewLogEntry(1, "user-1", "en", []string{"ja"}, 10, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, fresh))

	job := NewUsageLogRetentionJob(repo, 400)
	job.now = func() time.Time { return now }

	pruned, err := job.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	remaining, err := repo.ListRecentByTenant(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
