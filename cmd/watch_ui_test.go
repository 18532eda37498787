package cmd

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/client"
)

type stubJobClient struct {
	job       *types.ChannelJobResponse
	err       error
	cancelErr error
	cancelled int
}

func (s *stubJobClient) GetJob(ctx context.Context, jobID string) (*types.ChannelJobResponse, error) {
	return s.job, s.err
}

func (s *stubJobClient) CancelJob(ctx context.Context, jobID string) error {
	s.cancelled++
	return s.cancelErr
}

func runningJob() *types.ChannelJobResponse {
	return &types.ChannelJobResponse{
		JobID:             "job-1",
		Status:            models.JobStatusProcessing,
		ChannelInfo:       &models.ChannelInfo{ID: "UC1", Name: "Fireship"},
		TotalVideos:       4,
		ProcessedVideos:   1,
		SuccessCount:      1,
		CurrentVideoTitle: "100 seconds of Go",
	}
}

func update(t *testing.T, m watchModel, msg tea.Msg) (watchModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	wm, ok := next.(watchModel)
	require.True(t, ok)
	return wm, cmd
}

func TestWatchModel_Poll(t *testing.T) {
	stub := &stubJobClient{job: runningJob()}
	m := newWatchModel(context.Background(), stub, "job-1", time.Millisecond)

	msg := m.poll()()
	require.IsType(t, jobMsg{}, msg)

	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd)
	assert.False(t, m.finished())

	view := m.View()
	assert.Contains(t, view, "Channel job job-1")
	assert.Contains(t, view, "Fireship")
	assert.Contains(t, view, "extracting transcripts")
	assert.Contains(t, view, "1/4 videos, 1 ok, 0 failed")
	assert.Contains(t, view, "now: 100 seconds of Go")
	assert.Contains(t, view, "c cancel job")

	stub.err = errors.New("boom")
	assert.Equal(t, pollErrMsg{err: stub.err}, m.poll()())
}

func TestWatchModel_Terminal(t *testing.T) {
	tests := []struct {
		name   string
		status models.JobStatus
		errMsg string
		want   string
	}{
		{"completed", models.JobStatusCompleted, "", "completed"},
		{"cancelled", models.JobStatusCancelled, "", "cancelled"},
		{"failed", models.JobStatusError, "Could not resolve channel: channel not found", "channel not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := runningJob()
			job.Status = tt.status
			job.Error = tt.errMsg

			m := newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)
			m, cmd := update(t, m, jobMsg{job: job})

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.finished())

			view := m.View()
			assert.Contains(t, view, tt.want)
			assert.NotContains(t, view, "c cancel job")
			assert.NotContains(t, view, "now:")
		})
	}
}

func TestWatchModel_Cancel(t *testing.T) {
	stub := &stubJobClient{}
	m := newWatchModel(context.Background(), stub, "job-1", time.Millisecond)
	m, _ = update(t, m, jobMsg{job: runningJob()})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NotNil(t, cmd)
	assert.True(t, m.cancelSent)

	msg := cmd()
	assert.Equal(t, 1, stub.cancelled)
	m, _ = update(t, m, msg)
	assert.Contains(t, m.notice, "cancel requested")

	// a second press sends nothing
	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Nil(t, cmd)
}

func TestWatchModel_CancelFails(t *testing.T) {
	stub := &stubJobClient{cancelErr: errors.New("server returned 500: boom")}
	m := newWatchModel(context.Background(), stub, "job-1", time.Millisecond)
	m, _ = update(t, m, jobMsg{job: runningJob()})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m, _ = update(t, m, cmd())

	assert.False(t, m.cancelSent)
	assert.Contains(t, m.notice, "cancel failed")
}

func TestWatchModel_Detach(t *testing.T) {
	m := newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)
	m, _ = update(t, m, jobMsg{job: runningJob()})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.detached)
}

func TestWatchModel_PollErrors(t *testing.T) {
	notFound := &client.APIError{StatusCode: http.StatusNotFound, Message: "Job not found"}
	m := newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)

	for i := 1; i < client.MaxMissedPolls; i++ {
		var cmd tea.Cmd
		m, cmd = update(t, m, pollErrMsg{err: notFound})
		require.NotNil(t, cmd)
		assert.Equal(t, i, m.missed)
		assert.Nil(t, m.err)
	}

	m, cmd := update(t, m, pollErrMsg{err: notFound})
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, notFound, m.err)

	// a successful poll resets the miss counter
	m = newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)
	m, _ = update(t, m, pollErrMsg{err: notFound})
	m, _ = update(t, m, jobMsg{job: runningJob()})
	assert.Zero(t, m.missed)
}

func TestWatchModel_Unauthorized(t *testing.T) {
	unauthorized := &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Authentication required"}
	m := newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)

	m, cmd := update(t, m, pollErrMsg{err: unauthorized})
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, unauthorized, m.err)
}

func TestWatchModel_WaitingView(t *testing.T) {
	m := newWatchModel(context.Background(), &stubJobClient{}, "job-1", time.Millisecond)
	assert.Contains(t, m.View(), "waiting for the server")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	assert.Equal(t, 22, m.bar.Width)
}

func TestStatusLabelAndFraction(t *testing.T) {
	assert.Equal(t, "queued", statusLabel(models.JobStatusIdle))
	assert.Equal(t, "fetching channel videos", statusLabel(models.JobStatusFetchingVideos))
	assert.Equal(t, "weird", statusLabel(models.JobStatus("weird")))

	assert.Equal(t, 0.0, fraction(3, 0))
	assert.Equal(t, 0.5, fraction(2, 4))
}
