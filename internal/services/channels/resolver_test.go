package channels

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/config"
	"github.com/killallgit/transcriptflow-api/pkg/ytdlp"
)

func TestNewSelectsBackend(t *testing.T) {
	client := testDownloader(t)

	tests := []struct {
		name    string
		cfg     config.YouTubeConfig
		want    any
		wantErr error
	}{
		{name: "auto with key", cfg: config.YouTubeConfig{ChannelBackend: "auto", APIKey: "k"}, want: &DataAPIResolver{}},
		{name: "auto without key", cfg: config.YouTubeConfig{ChannelBackend: "auto"}, want: &YtDlpResolver{}},
		{name: "empty means auto", cfg: config.YouTubeConfig{}, want: &YtDlpResolver{}},
		{name: "api", cfg: config.YouTubeConfig{ChannelBackend: "api", APIKey: "k"}, want: &DataAPIResolver{}},
		{name: "api without key", cfg: config.YouTubeConfig{ChannelBackend: "api"}, wantErr: ErrAPIKeyRequired},
		{name: "ytdlp with key", cfg: config.YouTubeConfig{ChannelBackend: "ytdlp", APIKey: "k"}, want: &YtDlpResolver{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(tt.cfg, client, ytdlp.New("", time.Second), nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			// no resolve timeout configured, so the backend is returned undecorated
			if tr, ok := r.(*timeoutResolver); ok {
				r = tr.next
			}
			assert.IsType(t, tt.want, r)
		})
	}

	_, err := New(config.YouTubeConfig{ChannelBackend: "scrape"}, client, nil, nil)
	assert.ErrorContains(t, err, "unsupported channel backend")
}

func TestNewYtDlpKeepsSubprocessTimeout(t *testing.T) {
	r, err := New(config.YouTubeConfig{ChannelBackend: "ytdlp", ResolveTimeout: time.Second}, nil, ytdlp.New("", time.Minute), nil)
	require.NoError(t, err)
	tr, ok := r.(*timeoutResolver)
	require.True(t, ok)
	assert.Equal(t, time.Minute, tr.timeout)
}

type slowResolver struct{}

func (slowResolver) ResolveChannelID(ctx context.Context, input string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (slowResolver) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowResolver) GetChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoInfo, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestWithTimeout(t *testing.T) {
	r := WithTimeout(slowResolver{}, 20*time.Millisecond)

	_, err := r.ResolveChannelID(context.Background(), "@x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, err = r.GetChannelInfo(context.Background(), testChannelID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, err = r.GetChannelVideos(context.Background(), testChannelID, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, slowResolver{}, WithTimeout(slowResolver{}, 0))
}
