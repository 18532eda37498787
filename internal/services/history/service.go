package history

import (
	"context"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new history service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

// Start opens a processing entry for videoID
func (s *ServiceImpl) Start(ctx context.Context, userID, videoID string) (*models.ExtractionHistory, error) {
	entry := &models.ExtractionHistory{
		UserID:  userID,
		VideoID: videoID,
		Status:  models.HistoryProcessing,
	}
	if err := s.repository.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Complete stores the video details and a preview of the transcript
func (s *ServiceImpl) Complete(ctx context.Context, id string, outcome Outcome) error {
	return s.repository.Update(ctx, id, map[string]any{
		"status":             models.HistoryCompleted,
		"video_title":        outcome.Title,
		"channel_name":       outcome.ChannelName,
		"thumbnail_url":      outcome.ThumbnailURL,
		"duration_seconds":   outcome.DurationSeconds,
		"transcript_preview": models.Preview(outcome.Transcript),
		"word_count":         outcome.WordCount,
	})
}

// Fail marks the entry failed with message
func (s *ServiceImpl) Fail(ctx context.Context, id string, message string) error {
	return s.repository.Update(ctx, id, map[string]any{
		"status":        models.HistoryFailed,
		"error_message": message,
	})
}

// List returns a page of the user's history, newest first, and the total count
func (s *ServiceImpl) List(ctx context.Context, userID string, opts ListOptions) ([]models.ExtractionHistory, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageSize
	}
	opts.Limit = min(opts.Limit, MaxPageSize)
	opts.Offset = max(opts.Offset, 0)
	return s.repository.List(ctx, userID, opts)
}

// Delete removes one of the user's entries
func (s *ServiceImpl) Delete(ctx context.Context, userID, id string) error {
	return s.repository.Delete(ctx, userID, id)
}
