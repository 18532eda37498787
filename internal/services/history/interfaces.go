package history

import (
	"context"
	"errors"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// ErrNotFound is returned when a history entry does not exist for the user
var ErrNotFound = errors.New("history entry not found")

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ListOptions selects a page of a user's history
type ListOptions struct {
	Limit  int
	Offset int
	Status models.HistoryStatus
}

// Outcome is what a finished extraction reports back to its entry
type Outcome struct {
	Title           string
	ChannelName     string
	ThumbnailURL    string
	DurationSeconds int
	Transcript      string
	WordCount       int
}

// Repository defines the interface for history data access
type Repository interface {
	Create(ctx context.Context, entry *models.ExtractionHistory) error
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, userID string, opts ListOptions) ([]models.ExtractionHistory, int64, error)
	Delete(ctx context.Context, userID, id string) error
}

// Service records single video extractions of signed-in users
type Service interface {
	Start(ctx context.Context, userID, videoID string) (*models.ExtractionHistory, error)
	Complete(ctx context.Context, id string, outcome Outcome) error
	Fail(ctx context.Context, id string, message string) error
	List(ctx context.Context, userID string, opts ListOptions) ([]models.ExtractionHistory, int64, error)
	Delete(ctx context.Context, userID, id string) error
}
