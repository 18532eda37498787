package cleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/services/cache"
)

// JobPurger deletes finished jobs older than a cutoff
type JobPurger interface {
	DeleteJobsOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// Result counts what one sweep removed
type Result struct {
	Jobs         int64
	CacheEntries int64
}

// Service periodically removes expired jobs and cache rows
type Service struct {
	jobs            JobPurger
	cache           cache.Cache
	maxAge          time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	logger          *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service. c may be nil or a backend that
// expires entries on its own.
func NewService(jobs JobPurger, c cache.Cache, maxAge, cleanupInterval time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}
	return &Service{
		jobs:            jobs,
		cache:           c,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
		logger:          logger,
	}
}

// Start runs a sweep immediately and then every cleanup interval
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()

		s.RunOnce(ctx)
		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-ctx.Done():
				s.logger.Info("cleanup service stopped")
				return
			}
		}
	}()

	s.logger.Info("cleanup service started", "interval", s.cleanupInterval, "max_age", s.maxAge)
}

// Stop stops the cleanup service and waits for a running sweep
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// RunOnce performs one sweep. Failures are logged; the next tick retries.
func (s *Service) RunOnce(ctx context.Context) Result {
	var result Result

	if s.jobs != nil && s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		n, err := s.jobs.DeleteJobsOlderThan(ctx, cutoff)
		if err != nil {
			s.logger.Warn("failed to delete expired channel jobs", "error", err)
		} else {
			result.Jobs = n
		}
	}

	if expirer, ok := s.cache.(cache.Expirer); ok {
		n, err := expirer.DeleteExpired(ctx)
		if err != nil {
			s.logger.Warn("failed to delete expired cache entries", "error", err)
		} else {
			result.CacheEntries = n
		}
	}

	if result.Jobs > 0 || result.CacheEntries > 0 {
		s.logger.Debug("cleanup sweep finished", "jobs", result.Jobs, "cache_entries", result.CacheEntries)
	}
	return result
}
