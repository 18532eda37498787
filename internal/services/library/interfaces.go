package library

import (
	"context"
	"errors"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

var (
	// ErrNotFound is returned when a saved transcript does not exist for the user
	ErrNotFound = errors.New("saved transcript not found")

	// ErrInvalid is returned when a transcript cannot be saved as given
	ErrInvalid = errors.New("invalid transcript")
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ListOptions selects a page of a user's library
type ListOptions struct {
	Limit         int
	Offset        int
	FavoritesOnly bool
}

// Patch holds the user-editable fields. Nil fields are left untouched.
type Patch struct {
	IsFavorite *bool     `json:"isFavorite"`
	Tags       *[]string `json:"tags"`
	Notes      *string   `json:"notes"`
}

// Repository defines the interface for saved transcript data access
type Repository interface {
	List(ctx context.Context, userID string, opts ListOptions) ([]models.SavedTranscript, int64, error)
	Get(ctx context.Context, userID, id string) (*models.SavedTranscript, error)
	GetByVideo(ctx context.Context, userID, videoID string) (*models.SavedTranscript, error)
	Upsert(ctx context.Context, t *models.SavedTranscript) error
	Save(ctx context.Context, t *models.SavedTranscript) error
	Delete(ctx context.Context, userID, id string) error
}

// Service defines the saved transcript library. Every call is scoped to a user.
type Service interface {
	List(ctx context.Context, userID string, opts ListOptions) ([]models.SavedTranscript, int64, error)
	Save(ctx context.Context, userID string, t *models.SavedTranscript) (*models.SavedTranscript, error)
	Update(ctx context.Context, userID, id string, patch Patch) (*models.SavedTranscript, error)
	Delete(ctx context.Context, userID, id string) error
}
