package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

func setupService(t *testing.T) (Service, Repository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.ExtractionHistory{}))
	repo := NewRepository(db)
	return NewService(repo), repo
}

func TestStartComplete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	entry, err := svc.Start(ctx, "user-1", "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, models.HistoryProcessing, entry.Status)

	long := strings.Repeat("é", models.HistoryPreviewLength+20)
	require.NoError(t, svc.Complete(ctx, entry.ID, Outcome{
		Title:           "Never Gonna Give You Up",
		ChannelName:     "Rick Astley",
		DurationSeconds: 213,
		Transcript:      long,
		WordCount:       1,
	}))

	entries, total, err := svc.List(ctx, "user-1", ListOptions{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, models.HistoryCompleted, got.Status)
	assert.Equal(t, "Never Gonna Give You Up", got.VideoTitle)
	assert.Equal(t, "Rick Astley", got.ChannelName)
	assert.Equal(t, 213, got.DurationSeconds)
	assert.Equal(t, models.HistoryPreviewLength, len([]rune(got.TranscriptPreview)))
	assert.Empty(t, got.ErrorMessage)
}

func TestFail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	entry, err := svc.Start(ctx, "user-1", "dQw4w9WgXcQ")
	require.NoError(t, err)
	require.NoError(t, svc.Fail(ctx, entry.ID, "No transcript is available for this video"))

	entries, _, err := svc.List(ctx, "user-1", ListOptions{Status: models.HistoryFailed})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "No transcript is available for this video", entries[0].ErrorMessage)

	assert.ErrorIs(t, svc.Fail(ctx, "missing", "x"), ErrNotFound)
}

func TestList_PagingAndScope(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupService(t)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, video := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		require.NoError(t, repo.Create(ctx, &models.ExtractionHistory{
			UserID:    "user-1",
			VideoID:   video,
			Status:    models.HistoryCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Create(ctx, &models.ExtractionHistory{UserID: "user-2", VideoID: "ddddddddddd", Status: models.HistoryCompleted}))

	entries, total, err := svc.List(ctx, "user-1", ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, entries, 2)
	assert.Equal(t, "ccccccccccc", entries[0].VideoID)
	assert.Equal(t, "bbbbbbbbbbb", entries[1].VideoID)

	entries, _, err = svc.List(ctx, "user-1", ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "aaaaaaaaaaa", entries[0].VideoID)

	entries, total, err = svc.List(ctx, "user-1", ListOptions{Limit: 1000, Offset: -4})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, entries, 3)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	entry, err := svc.Start(ctx, "user-1", "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, "user-2", entry.ID), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, "user-1", entry.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "user-1", entry.ID), ErrNotFound)
}
