package settings

import (
	"context"
	"errors"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// ErrInvalid is returned when a patch carries an unknown format or theme
var ErrInvalid = errors.New("invalid settings")

// Patch holds the user-editable preferences. Nil fields are left untouched.
type Patch struct {
	DefaultExportFormat *string
	Theme               *string
}

// Repository defines the interface for settings data access
type Repository interface {
	// Get returns nil without error when the user has no stored settings
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Save(ctx context.Context, s *models.UserSettings) error
}

// Service reads and updates per-user preferences
type Service interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	Update(ctx context.Context, userID string, patch Patch) (*models.UserSettings, error)
}
