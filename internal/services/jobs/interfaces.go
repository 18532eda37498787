package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// Service is the job store: persisted channel job state plus the in-process
// cancellation handles of running jobs
type Service interface {
	CreateJob(ctx context.Context, params CreateJobParams) (*models.ChannelJob, error)
	GetJob(ctx context.Context, id string) (*models.ChannelJob, error)
	UpdateJob(ctx context.Context, id string, update JobUpdate) (*models.ChannelJob, error)
	UpdateJobProgress(ctx context.Context, id string, progress models.Progress) (*models.ChannelJob, error)
	CancelJob(ctx context.Context, id string) (*models.ChannelJob, error)
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, userID string, limit int) ([]*models.ChannelJob, error)

	// Maintenance
	DeleteJobsOlderThan(ctx context.Context, before time.Time) (int64, error)
	FailInterruptedJobs(ctx context.Context) (int64, error)

	// Cancellation handles
	RegisterHandle(id string, cancel context.CancelFunc)
	ClearHandle(id string)
	IsActive(id string) bool
}

// CreateJobParams describes a new job; Limit must already be clamped
type CreateJobParams struct {
	URL    string
	Limit  int
	Format models.OutputFormat
	UserID string
}

// JobUpdate carries the fields to merge. Nil fields are left untouched.
type JobUpdate struct {
	ChannelInfo *models.ChannelInfo
	Videos      models.VideoList
	Results     models.ResultList
	Progress    *models.Progress
}

// Option is a functional option for configuring the service
type Option func(*service)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// DefaultListLimit bounds ListJobs when no limit is given
const DefaultListLimit = 20
