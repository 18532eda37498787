package usage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func setupService(t *testing.T) (Service, *gorm.DB, *testClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UsageRecord{}, &models.UserSubscription{}))

	clock := &testClock{t: time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)}
	return NewService(NewRepository(db), WithClock(clock.Now)), db, clock
}

func subscribe(t *testing.T, db *gorm.DB, userID string, tier models.SubscriptionTier) {
	t.Helper()
	require.NoError(t, db.Create(&models.UserSubscription{UserID: userID, Tier: tier, Status: "active"}).Error)
}

func TestCheckRateLimit_TierGating(t *testing.T) {
	svc, db, _ := setupService(t)
	ctx := context.Background()

	subscribe(t, db, "pro-user", models.TierPro)
	subscribe(t, db, "biz-user", models.TierBusiness)

	t.Run("free user cannot extract channels", func(t *testing.T) {
		res, err := svc.CheckRateLimit(ctx, Caller{UserID: "free-user"}, models.ActionChannelExtraction)
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.Equal(t, models.TierFree, res.Tier)
		assert.Equal(t, 0, res.Remaining)
	})

	t.Run("free user may extract videos", func(t *testing.T) {
		res, err := svc.CheckRateLimit(ctx, Caller{UserID: "free-user"}, models.ActionVideoExtraction)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3, res.Remaining)
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), res.ResetAt)
	})

	t.Run("pro user within quota", func(t *testing.T) {
		res, err := svc.CheckRateLimit(ctx, Caller{UserID: "pro-user"}, models.ActionChannelExtraction)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 50, res.Remaining)
	})

	t.Run("business user is unlimited", func(t *testing.T) {
		svc.TrackUsage(ctx, Caller{UserID: "biz-user"}, models.ActionChannelExtraction, 10_000)
		res, err := svc.CheckRateLimit(ctx, Caller{UserID: "biz-user"}, models.ActionChannelExtraction)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.True(t, res.Unlimited)
	})
}

func TestCheckRateLimit_DailyExhaustionAndReset(t *testing.T) {
	svc, db, clock := setupService(t)
	ctx := context.Background()
	subscribe(t, db, "pro-user", models.TierPro)
	caller := Caller{UserID: "pro-user"}

	svc.TrackUsage(ctx, caller, models.ActionChannelExtraction, 48)
	res, err := svc.CheckRateLimit(ctx, caller, models.ActionVideoExtraction)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 2, res.Remaining)

	svc.TrackUsage(ctx, caller, models.ActionVideoExtraction, 2)
	res, err = svc.CheckRateLimit(ctx, caller, models.ActionChannelExtraction)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	clock.t = clock.t.Add(12 * time.Hour)
	res, err = svc.CheckRateLimit(ctx, caller, models.ActionChannelExtraction)
	require.NoError(t, err)
	assert.True(t, res.Allowed, "quota resets at midnight")
	assert.Equal(t, 50, res.Remaining)
}

func TestCheckRateLimit_Anonymous(t *testing.T) {
	svc, db, clock := setupService(t)
	ctx := context.Background()
	alice := Caller{ClientKey: "10.0.0.1"}
	bob := Caller{ClientKey: "10.0.0.2"}

	for i := 0; i < AnonymousDailyLimit; i++ {
		res, err := svc.CheckRateLimit(ctx, alice, models.ActionVideoExtraction)
		require.NoError(t, err)
		require.True(t, res.Allowed)
		svc.TrackUsage(ctx, alice, models.ActionVideoExtraction, 1)
	}

	res, err := svc.CheckRateLimit(ctx, alice, models.ActionVideoExtraction)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = svc.CheckRateLimit(ctx, bob, models.ActionVideoExtraction)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, AnonymousDailyLimit, res.Remaining)

	res, err = svc.CheckRateLimit(ctx, bob, models.ActionChannelExtraction)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	var count int64
	require.NoError(t, db.Model(&models.UsageRecord{}).Count(&count).Error)
	assert.Zero(t, count, "anonymous usage is never persisted")

	clock.t = clock.t.Add(24 * time.Hour)
	res, err = svc.CheckRateLimit(ctx, alice, models.ActionVideoExtraction)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestGetUserTier_InactiveSubscription(t *testing.T) {
	svc, db, _ := setupService(t)
	require.NoError(t, db.Create(&models.UserSubscription{UserID: "lapsed", Tier: models.TierPro, Status: "canceled"}).Error)

	limits, err := svc.GetUserTier(context.Background(), "lapsed")
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, limits.Tier)
}

func TestGetUsageStats(t *testing.T) {
	svc, db, clock := setupService(t)
	ctx := context.Background()
	subscribe(t, db, "pro-user", models.TierPro)
	caller := Caller{UserID: "pro-user"}

	clock.t = time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.TrackUsage(ctx, caller, models.ActionVideoExtraction, 1)

	clock.t = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	svc.TrackUsage(ctx, caller, models.ActionChannelExtraction, 7)
	svc.TrackUsage(ctx, caller, models.ActionVideoExtraction, 1)

	stats, err := svc.GetUsageStats(ctx, "pro-user")
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, stats.Tier)
	assert.Equal(t, 8, stats.VideosToday)
	assert.Equal(t, 9, stats.VideosThisMonth)
	assert.Equal(t, 1, stats.ChannelExtractionsToday)
	assert.Equal(t, 42, stats.Remaining)
	assert.Equal(t, 25, stats.Limits.MaxChannelVideos)
}

type failingRepo struct{ Repository }

func (failingRepo) CreateRecord(context.Context, *models.UsageRecord) error {
	return errors.New("db down")
}

func TestTrackUsage_SwallowsFailures(t *testing.T) {
	svc := NewService(failingRepo{})
	assert.NotPanics(t, func() {
		svc.TrackUsage(context.Background(), Caller{UserID: "u"}, models.ActionVideoExtraction, 1)
	})
}

func TestServiceChannelLimit(t *testing.T) {
	svc := NewService(nil, WithChannelLimits(ChannelLimits{Default: 7, Max: 900}))
	assert.Equal(t, 7, svc.ChannelLimit(0, Tiers[models.TierBusiness]))
	assert.Equal(t, 500, svc.ChannelLimit(900, Tiers[models.TierBusiness]), "max above the hard cap is ignored")
}
