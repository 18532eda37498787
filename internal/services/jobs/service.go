package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

// InterruptedMessage is recorded on jobs left unfinished by a previous process
const InterruptedMessage = "interrupted by server restart"

type service struct {
	repo   Repository
	now    func() time.Time
	logger *slog.Logger

	// writeMu serializes read-merge-write cycles within this process
	writeMu sync.Mutex

	handlesMu sync.Mutex
	handles   map[string]context.CancelFunc
}

// NewService creates the job store
func NewService(repo Repository, opts ...Option) Service {
	s := &service{
		repo:    repo,
		now:     time.Now,
		logger:  slog.Default(),
		handles: make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) CreateJob(ctx context.Context, params CreateJobParams) (*models.ChannelJob, error) {
	if params.Limit < 1 {
		return nil, fmt.Errorf("job limit must be at least 1, got %d", params.Limit)
	}
	if params.Format == "" {
		params.Format = models.OutputCombined
	}

	now := s.now().UTC()
	job := &models.ChannelJob{
		UserID:    params.UserID,
		URL:       params.URL,
		Limit:     params.Limit,
		Format:    params.Format,
		Videos:    models.VideoList{},
		Results:   models.ResultList{},
		Progress:  models.Progress{Status: models.JobStatusIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Debug("channel job created", "job_id", job.ID, "user_id", job.UserID, "limit", job.Limit)
	return job, nil
}

func (s *service) GetJob(ctx context.Context, id string) (*models.ChannelJob, error) {
	return s.repo.GetJob(ctx, id)
}

func (s *service) UpdateJob(ctx context.Context, id string, update JobUpdate) (*models.ChannelJob, error) {
	return s.mutate(ctx, id, func(job *models.ChannelJob) error {
		if job.IsTerminal() {
			return ErrJobTerminal
		}
		if update.ChannelInfo != nil {
			job.ChannelInfo = update.ChannelInfo
		}
		if update.Videos != nil {
			job.Videos = update.Videos
		}
		if update.Results != nil {
			if err := update.Results.Validate(); err != nil {
				return err
			}
			if len(update.Results) < len(job.Results) {
				return fmt.Errorf("results may only grow: have %d, got %d", len(job.Results), len(update.Results))
			}
			job.Results = update.Results
		}
		if update.Progress != nil {
			if err := s.applyProgress(job, *update.Progress); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) UpdateJobProgress(ctx context.Context, id string, progress models.Progress) (*models.ChannelJob, error) {
	return s.UpdateJob(ctx, id, JobUpdate{Progress: &progress})
}

func (s *service) applyProgress(job *models.ChannelJob, next models.Progress) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if !job.Progress.Status.CanTransitionTo(next.Status) {
		return fmt.Errorf("%w: cannot move from %s to %s", models.ErrInvalidProgress, job.Progress.Status, next.Status)
	}
	if next.Status == models.JobStatusProcessing && len(job.Results) != next.CurrentVideoIndex {
		return fmt.Errorf("%w: %d results stored for index %d", models.ErrInvalidProgress, len(job.Results), next.CurrentVideoIndex)
	}
	job.Progress = next
	return nil
}

func (s *service) CancelJob(ctx context.Context, id string) (*models.ChannelJob, error) {
	s.signal(id)

	job, err := s.mutate(ctx, id, func(job *models.ChannelJob) error {
		if job.IsTerminal() {
			return errNoChange
		}
		job.Progress.Status = models.JobStatusCancelled
		job.Progress.CurrentVideoTitle = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("channel job cancelled", "job_id", id, "status", job.Progress.Status)
	return job, nil
}

func (s *service) DeleteJob(ctx context.Context, id string) error {
	s.signal(id)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.repo.DeleteJob(ctx, id)
}

func (s *service) ListJobs(ctx context.Context, userID string, limit int) ([]*models.ChannelJob, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultListLimit
	}
	return s.repo.ListJobsByUser(ctx, userID, limit)
}

func (s *service) DeleteJobsOlderThan(ctx context.Context, before time.Time) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.repo.DeleteFinishedJobsBefore(ctx, before)
}

func (s *service) FailInterruptedJobs(ctx context.Context) (int64, error) {
	unfinished, err := s.repo.ListUnfinishedJobs(ctx)
	if err != nil {
		return 0, err
	}

	var failed int64
	for _, stale := range unfinished {
		if s.IsActive(stale.ID) {
			continue
		}
		_, err := s.mutate(ctx, stale.ID, func(job *models.ChannelJob) error {
			if job.IsTerminal() {
				return errNoChange
			}
			job.Progress.Status = models.JobStatusError
			job.Progress.Error = InterruptedMessage
			job.Progress.CurrentVideoTitle = ""
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrJobNotFound) {
				continue
			}
			return failed, err
		}
		failed++
	}
	if failed > 0 {
		s.logger.Warn("marked interrupted channel jobs as failed", "count", failed)
	}
	return failed, nil
}

// errNoChange lets a mutation return the current snapshot without writing
var errNoChange = errors.New("no change")

const maxMutateAttempts = 3

// mutate runs a read-merge-write cycle. The write only lands if the stored status
// is unchanged since the read, so a concurrent cancel always wins over a late
// progress write.
func (s *service) mutate(ctx context.Context, id string, apply func(*models.ChannelJob) error) (*models.ChannelJob, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		job, err := s.repo.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		expected := job.Status

		if err := apply(job); err != nil {
			if errors.Is(err, errNoChange) {
				return job, nil
			}
			return nil, err
		}
		job.Status = job.Progress.Status

		err = s.repo.SaveJob(ctx, job, expected)
		if errors.Is(err, errStatusChanged) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return job, nil
	}
	return nil, fmt.Errorf("updating job %s: %w", id, errStatusChanged)
}

func (s *service) RegisterHandle(id string, cancel context.CancelFunc) {
	s.handlesMu.Lock()
	defer s.handlesMu.Unlock()
	s.handles[id] = cancel
}

func (s *service) ClearHandle(id string) {
	s.handlesMu.Lock()
	defer s.handlesMu.Unlock()
	delete(s.handles, id)
}

func (s *service) IsActive(id string) bool {
	s.handlesMu.Lock()
	defer s.handlesMu.Unlock()
	_, ok := s.handles[id]
	return ok
}

// signal fires the cancellation handle, if any; the handle stays registered
// until the runner clears it
func (s *service) signal(id string) {
	s.handlesMu.Lock()
	cancel, ok := s.handles[id]
	s.handlesMu.Unlock()
	if ok {
		cancel()
	}
}
