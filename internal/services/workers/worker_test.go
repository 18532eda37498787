package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/internal/models"
)

type recordingRunner struct {
	mu    sync.Mutex
	ran   []string
	block chan struct{}
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, job *models.ChannelJob) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	r.ran = append(r.ran, job.ID)
	r.mu.Unlock()
	return r.err
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ran)
}

func TestWorkerPoolRunsSubmittedJobs(t *testing.T) {
	runner := &recordingRunner{}
	pool := NewWorkerPool(runner, 2, 8, nil)
	require.NoError(t, pool.Start(context.Background()))

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, pool.Submit(&models.ChannelJob{ID: id}))
	}

	require.Eventually(t, func() bool { return runner.count() == 3 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, runner.ran)
	require.NoError(t, pool.Stop(context.Background()))
}

func TestWorkerPoolRunnerErrorKeepsWorkerAlive(t *testing.T) {
	runner := &recordingRunner{err: errors.New("boom")}
	pool := NewWorkerPool(runner, 1, 4, nil)
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop(context.Background())

	require.NoError(t, pool.Submit(&models.ChannelJob{ID: "a"}))
	require.NoError(t, pool.Submit(&models.ChannelJob{ID: "b"}))
	require.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWorkerPoolQueueFull(t *testing.T) {
	runner := &recordingRunner{block: make(chan struct{})}
	pool := NewWorkerPool(runner, 1, 1, nil)
	require.NoError(t, pool.Start(context.Background()))

	require.NoError(t, pool.Submit(&models.ChannelJob{ID: "running"}))
	require.Eventually(t, func() bool { return pool.Pending() == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, pool.Submit(&models.ChannelJob{ID: "queued"}))
	assert.ErrorIs(t, pool.Submit(&models.ChannelJob{ID: "rejected"}), ErrQueueFull)

	close(runner.block)
	require.NoError(t, pool.Stop(context.Background()))
}

func TestWorkerPoolLifecycle(t *testing.T) {
	pool := NewWorkerPool(&recordingRunner{}, 0, 0, nil)
	assert.Len(t, pool.workers, 1)

	assert.ErrorIs(t, pool.Submit(&models.ChannelJob{ID: "early"}), ErrPoolStopped)

	require.NoError(t, pool.Start(context.Background()))
	assert.Error(t, pool.Start(context.Background()))

	require.NoError(t, pool.Stop(context.Background()))
	require.NoError(t, pool.Stop(context.Background()))
	assert.ErrorIs(t, pool.Submit(&models.ChannelJob{ID: "late"}), ErrPoolStopped)
}

func TestWorkerPoolStopInterruptsOnDeadline(t *testing.T) {
	runner := &recordingRunner{block: make(chan struct{})}
	pool := NewWorkerPool(runner, 1, 1, nil)
	require.NoError(t, pool.Start(context.Background()))
	require.NoError(t, pool.Submit(&models.ChannelJob{ID: "slow"}))
	require.Eventually(t, func() bool { return pool.Pending() == 0 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := pool.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, runner.count())
}
