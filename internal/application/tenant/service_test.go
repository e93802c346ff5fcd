package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lingorelay/lingorelay/internal/domain/plan"
	domainTenant "github.com/lingorelay/lingorelay/internal/domain/tenant"
	"github.com/lingorelay/lingorelay/internal/infrastructure/cache"
	"github.com/lingorelay/lingorelay/internal/infrastructure/persistence/models"
	"github.com/lingorelay/lingorelay/internal/infrastructure/repository"
	"github.com/lingorelay/lingorelay/internal/shared/errors"
	"github.com/lingorelay/lingorelay/internal/shared/logger"
)

func newService(t *testing.T) (*Service, domainTenant.Repository, *cache.WebhookCache) {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.TenantModel{},
		&models.TenantChannelModel{},
	))

	repo := repository.NewTenantRepository(database)
	credentials := cache.NewWebhookCache(0, 0, nil)
	svc := NewService(repo, credentials, logger.NewLogger())
	svc.SetClock(func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	})
	return svc, repo, credentials
}

func TestRegister(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	tn, err := svc.Register(ctx, "space-1", "Test Space", "basic")
	require.NoError(t, err)
	assert.Equal(t, plan.TierBasic, tn.Tier())
	assert.NotZero(t, tn.ID())

	_, err = svc.Register(ctx, "space-2", "Other", "platinum")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSetChannelInvalidatesCredential(t *testing.T) {
	svc, repo, credentials := newService(t)
	ctx := context.Background()

	tn, err := svc.Register(ctx, "space-1", "Test Space", "free")
	require.NoError(t, err)

	require.NoError(t, svc.SetChannel(ctx, tn.ID(), "ja", "chan-ja"))

	key := cache.Key(tn.ID(), "ja")
	credentials.Put(key, cache.WebhookCredential{WebhookID: "wh-1", Token: "tok", ChannelID: "chan-ja"})

	// Rebinding the language drops the stale credential.
	require.NoError(t, svc.SetChannel(ctx, tn.ID(), "ja", "chan-ja-new"))
	_, ok := credentials.Get(key)
	assert.False(t, ok)

	stored, err := repo.FindByID(ctx, tn.ID())
	require.NoError(t, err)
	lang, found := stored.ChannelLanguage("chan-ja-new")
	require.True(t, found)
	assert.Equal(t, "ja", lang.String())
}

func TestDisableChannel(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	tn, err := svc.Register(ctx, "space-1", "Test Space", "free")
	require.NoError(t, err)
	require.NoError(t, svc.SetChannel(ctx, tn.ID(), "en", "chan-en"))
	require.NoError(t, svc.SetChannel(ctx, tn.ID(), "ja", "chan-ja"))

	require.NoError(t, svc.DisableChannel(ctx, tn.ID(), "ja"))

	stored, err := repo.FindByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.TargetMappings("en"))

	err = svc.DisableChannel(ctx, tn.ID(), "ko")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSetLogChannelAndTier(t *testing.T) {
	svc, repo, _ := newService(t)
	ctx := context.Background()

	tn, err := svc.Register(ctx, "space-1", "Test Space", "free")
	require.NoError(t, err)

	require.NoError(t, svc.SetLogChannel(ctx, tn.ID(), "chan-log"))
	require.NoError(t, svc.SetTier(ctx, tn.ID(), "pro"))

	stored, err := repo.FindByID(ctx, tn.ID())
	require.NoError(t, err)
	assert.Equal(t, "chan-log", stored.LogChannelID())
	assert.Equal(t, plan.TierPro, stored.Tier())
	assert.Equal(t, int64(500_000), stored.CharacterLimit())
}
