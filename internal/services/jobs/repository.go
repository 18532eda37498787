package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// Repository errors
var (
	ErrJobNotFound = errors.New("job not found")
	ErrJobTerminal = errors.New("job already finished")
	// errStatusChanged means a conditional update lost a race with another writer
	errStatusChanged = errors.New("job status changed concurrently")
)

var terminalStatuses = []models.JobStatus{
	models.JobStatusCompleted,
	models.JobStatusCancelled,
	models.JobStatusError,
}

// Repository defines the interface for channel job persistence
type Repository interface {
	CreateJob(ctx context.Context, job *models.ChannelJob) error
	GetJob(ctx context.Context, id string) (*models.ChannelJob, error)
	// SaveJob writes the mutable columns only while the stored status still equals expected
	SaveJob(ctx context.Context, job *models.ChannelJob, expected models.JobStatus) error
	DeleteJob(ctx context.Context, id string) error
	ListJobsByUser(ctx context.Context, userID string, limit int) ([]*models.ChannelJob, error)
	ListUnfinishedJobs(ctx context.Context) ([]*models.ChannelJob, error)
	DeleteFinishedJobsBefore(ctx context.Context, before time.Time) (int64, error)
}

// repository implements Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new job repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateJob(ctx context.Context, job *models.ChannelJob) error {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("creating job: %w", err)
	}
	return nil
}

func (r *repository) GetJob(ctx context.Context, id string) (*models.ChannelJob, error) {
	var job models.ChannelJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return &job, nil
}

func (r *repository) SaveJob(ctx context.Context, job *models.ChannelJob, expected models.JobStatus) error {
	job.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(job).
		Where("status = ?", expected).
		Select("channel_info", "videos", "results", "progress", "status", "updated_at").
		Updates(job)
	if res.Error != nil {
		return fmt.Errorf("saving job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errStatusChanged
	}
	return nil
}

func (r *repository) DeleteJob(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ChannelJob{})
	if res.Error != nil {
		return fmt.Errorf("deleting job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *repository) ListJobsByUser(ctx context.Context, userID string, limit int) ([]*models.ChannelJob, error) {
	var jobs []*models.ChannelJob
	err := r.db.WithContext(ctx).
		Omit("videos", "results").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

func (r *repository) ListUnfinishedJobs(ctx context.Context) ([]*models.ChannelJob, error) {
	var jobs []*models.ChannelJob
	err := r.db.WithContext(ctx).
		Where("status NOT IN ?", terminalStatuses).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("listing unfinished jobs: %w", err)
	}
	return jobs, nil
}

func (r *repository) DeleteFinishedJobsBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", terminalStatuses, before.UTC()).
		Delete(&models.ChannelJob{})
	if res.Error != nil {
		return 0, fmt.Errorf("deleting old jobs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
