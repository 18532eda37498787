package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new library service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

// List returns a page of the user's library, newest first, and the total count
func (s *ServiceImpl) List(ctx context.Context, userID string, opts ListOptions) ([]models.SavedTranscript, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultPageSize
	}
	opts.Limit = min(opts.Limit, MaxPageSize)
	opts.Offset = max(opts.Offset, 0)
	return s.repository.List(ctx, userID, opts)
}

// Save adds a transcript to the user's library. Saving the same video twice
// refreshes the stored content.
func (s *ServiceImpl) Save(ctx context.Context, userID string, t *models.SavedTranscript) (*models.SavedTranscript, error) {
	videoID, ok := youtube.ExtractVideoID(t.VideoID)
	if !ok {
		return nil, fmt.Errorf("%w: a valid video ID is required", ErrInvalid)
	}
	t.VideoID = videoID
	if strings.TrimSpace(t.Transcript) == "" && len(t.Segments) == 0 {
		return nil, fmt.Errorf("%w: transcript text or segments are required", ErrInvalid)
	}

	t.ID = ""
	t.UserID = userID
	if t.WordCount == 0 {
		t.WordCount = len(strings.Fields(t.Transcript))
	}
	if t.Tags == nil {
		t.Tags = models.TagList{}
	}
	if err := s.repository.Upsert(ctx, t); err != nil {
		return nil, err
	}
	// the conflict path keeps the existing row, so read back its identity
	return s.repository.GetByVideo(ctx, userID, t.VideoID)
}

// Update applies the patch to one of the user's saved transcripts
func (s *ServiceImpl) Update(ctx context.Context, userID, id string, patch Patch) (*models.SavedTranscript, error) {
	t, err := s.repository.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.IsFavorite != nil {
		t.IsFavorite = *patch.IsFavorite
	}
	if patch.Tags != nil {
		t.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}

	if err := s.repository.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes one of the user's saved transcripts
func (s *ServiceImpl) Delete(ctx context.Context, userID, id string) error {
	return s.repository.Delete(ctx, userID, id)
}

func normalizeTags(tags []string) models.TagList {
	seen := make(map[string]bool, len(tags))
	out := models.TagList{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
