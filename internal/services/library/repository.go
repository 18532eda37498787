package library

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new saved transcript repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) List(ctx context.Context, userID string, opts ListOptions) ([]models.SavedTranscript, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SavedTranscript{}).Where("user_id = ?", userID)
	if opts.FavoritesOnly {
		query = query.Where("is_favorite = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting saved transcripts: %w", err)
	}

	var items []models.SavedTranscript
	err := query.
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing saved transcripts: %w", err)
	}
	return items, total, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, userID, id string) (*models.SavedTranscript, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *RepositoryImpl) GetByVideo(ctx context.Context, userID, videoID string) (*models.SavedTranscript, error) {
	return r.first(ctx, "user_id = ? AND video_id = ?", userID, videoID)
}

func (r *RepositoryImpl) first(ctx context.Context, query string, args ...any) (*models.SavedTranscript, error) {
	var t models.SavedTranscript
	err := r.db.WithContext(ctx).Where(query, args...).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting saved transcript: %w", err)
	}
	return &t, nil
}

// Upsert inserts the transcript or refreshes the content of the user's existing
// copy of the same video. User-edited fields survive a re-save.
func (r *RepositoryImpl) Upsert(ctx context.Context, t *models.SavedTranscript) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "channel_name", "thumbnail_url", "duration_seconds",
			"transcript", "segments", "word_count", "updated_at",
		}),
	}).Create(t).Error
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Save(ctx context.Context, t *models.SavedTranscript) error {
	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return fmt.Errorf("updating saved transcript: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.SavedTranscript{})
	if result.Error != nil {
		return fmt.Errorf("deleting saved transcript: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
