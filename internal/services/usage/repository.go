package usage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// ErrNoSubscription is returned when a user has no subscription row
var ErrNoSubscription = errors.New("no subscription")

// Repository defines the interface for usage persistence
type Repository interface {
	CreateRecord(ctx context.Context, record *models.UsageRecord) error
	// SumVideoCount totals video_count since the given instant. A nil action counts every action.
	SumVideoCount(ctx context.Context, userID string, since time.Time, action *models.ActionType) (int, error)
	CountRecords(ctx context.Context, userID string, since time.Time, action models.ActionType) (int, error)
	GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a usage repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRecord(ctx context.Context, record *models.UsageRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("recording usage: %w", err)
	}
	return nil
}

func (r *repository) SumVideoCount(ctx context.Context, userID string, since time.Time, action *models.ActionType) (int, error) {
	var total int64
	q := r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Select("COALESCE(SUM(CASE WHEN video_count > 0 THEN video_count ELSE 1 END), 0)").
		Where("user_id = ? AND created_at >= ?", userID, since.UTC())
	if action != nil {
		q = q.Where("action_type = ?", *action)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("summing usage: %w", err)
	}
	return int(total), nil
}

func (r *repository) CountRecords(ctx context.Context, userID string, since time.Time, action models.ActionType) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageRecord{}).
		Where("user_id = ? AND action_type = ? AND created_at >= ?", userID, action, since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting usage: %w", err)
	}
	return int(count), nil
}

func (r *repository) GetSubscription(ctx context.Context, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSubscription
	}
	if err != nil {
		return nil, fmt.Errorf("getting subscription: %w", err)
	}
	return &sub, nil
}
