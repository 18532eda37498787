package settings

import (
	"context"
	"fmt"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
}

// NewService creates a new settings service
func NewService(repository Repository) Service {
	return &ServiceImpl{repository: repository}
}

// Get returns the user's settings, or the defaults when none were saved
func (s *ServiceImpl) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	stored, err := s.repository.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return models.DefaultUserSettings(userID), nil
	}
	return stored, nil
}

// Update validates and applies the patch, creating the row on first use
func (s *ServiceImpl) Update(ctx context.Context, userID string, patch Patch) (*models.UserSettings, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.DefaultExportFormat != nil {
		format, err := transcript.ParseFormat(*patch.DefaultExportFormat)
		if err != nil || *patch.DefaultExportFormat == "" {
			return nil, fmt.Errorf("%w: export format must be txt, srt or json", ErrInvalid)
		}
		current.DefaultExportFormat = string(format)
	}
	if patch.Theme != nil {
		switch *patch.Theme {
		case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
			current.Theme = *patch.Theme
		default:
			return nil, fmt.Errorf("%w: theme must be light, dark or system", ErrInvalid)
		}
	}

	if err := s.repository.Save(ctx, current); err != nil {
		return nil, err
	}
	return current, nil
}
