package history

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new history repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Create(ctx context.Context, entry *models.ExtractionHistory) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("creating history entry: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id string, fields map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.ExtractionHistory{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("updating history entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) List(ctx context.Context, userID string, opts ListOptions) ([]models.ExtractionHistory, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExtractionHistory{}).Where("user_id = ?", userID)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting history: %w", err)
	}

	var entries []models.ExtractionHistory
	err := query.
		Order("created_at DESC").
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing history: %w", err)
	}
	return entries, total, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.ExtractionHistory{})
	if result.Error != nil {
		return fmt.Errorf("deleting history entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
