package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

var (
	// ErrQueueFull is returned when every worker is busy and the queue is at capacity
	ErrQueueFull = errors.New("job queue is full")

	// ErrPoolStopped is returned when submitting to a pool that is not running
	ErrPoolStopped = errors.New("worker pool is not running")
)

// JobRunner executes one channel job to a terminal state
type JobRunner interface {
	Run(ctx context.Context, job *models.ChannelJob) error
}

// Worker represents a background worker that runs queued jobs
type Worker struct {
	id     string
	pool   *WorkerPool
	logger *slog.Logger
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.logger.Debug("worker starting")
	defer w.logger.Debug("worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.pool.stopChan:
			return
		case job := <-w.pool.queue:
			w.process(ctx, job)
		}
	}
}

func (w *Worker) process(ctx context.Context, job *models.ChannelJob) {
	w.logger.Info("worker picked up channel job", "job_id", job.ID)
	if err := w.pool.runner.Run(ctx, job); err != nil {
		w.logger.Error("channel job failed", "job_id", job.ID, "error", err)
		return
	}
	w.logger.Debug("worker finished channel job", "job_id", job.ID)
}

// WorkerPool runs channel jobs detached from the request that created them.
// Jobs are queued in memory; a job still queued at shutdown stays idle and is
// failed as interrupted on the next boot.
type WorkerPool struct {
	runner  JobRunner
	queue   chan *models.ChannelJob
	workers []*Worker
	logger  *slog.Logger

	mu       sync.RWMutex
	started  bool
	stopChan chan struct{}
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool creates a new worker pool
func NewWorkerPool(runner JobRunner, workerCount, queueSize int, logger *slog.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	pool := &WorkerPool{
		runner:  runner,
		queue:   make(chan *models.ChannelJob, queueSize),
		workers: make([]*Worker, workerCount),
		logger:  logger,
	}
	for i := 0; i < workerCount; i++ {
		workerID := fmt.Sprintf("worker-%d", i+1)
		pool.workers[i] = &Worker{
			id:     workerID,
			pool:   pool,
			logger: logger.With("worker_id", workerID),
		}
	}
	return pool
}

// Start starts all workers
func (p *WorkerPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("worker pool already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.stopChan = make(chan struct{})

	p.logger.Info("starting worker pool", "workers", len(p.workers), "queue_size", cap(p.queue))
	for _, worker := range p.workers {
		p.wg.Add(1)
		go worker.run(ctx)
	}

	p.started = true
	return nil
}

// Submit queues a job without blocking
func (p *WorkerPool) Submit(job *models.ChannelJob) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		return ErrPoolStopped
	}
	select {
	case p.queue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued jobs not yet picked up
func (p *WorkerPool) Pending() int {
	return len(p.queue)
}

// Stop stops accepting jobs and waits for running ones. When ctx expires first,
// running jobs are interrupted and recorded as failed.
func (p *WorkerPool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return nil
	}
	p.started = false
	close(p.stopChan)
	p.mu.Unlock()

	p.logger.Info("stopping worker pool", "pending", p.Pending())

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return fmt.Errorf("worker pool stop: %w", ctx.Err())
	}
}
