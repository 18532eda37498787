package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	"github.com/killallgit/transcriptflow-api/pkg/config"
)

func testAppConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8080, MaxBodyBytes: 1 << 20, ShutdownTimeout: time.Second},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		Cache: config.CacheConfig{
			Backend:       "memory",
			TranscriptTTL: time.Hour,
			Memory:        config.MemoryCacheConfig{MaxSizeMB: 8},
		},
		YouTube: config.YouTubeConfig{
			BaseURL:        "http://127.0.0.1:1",
			ChannelBackend: "ytdlp",
			YtDlpPath:      "yt-dlp-not-installed",
			YtDlpTimeout:   time.Second,
			FetchTimeout:   time.Second,
		},
		Jobs: config.JobsConfig{
			Workers:         1,
			QueueSize:       4,
			DefaultLimit:    10,
			MaxLimit:        50,
			TTL:             time.Hour,
			CleanupInterval: time.Hour,
		},
		Auth: config.AuthConfig{DevAuthEnabled: true, DevAuthToken: "dev-token"},
	}
}

func TestNewApplication(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := newApplication(context.Background(), testAppConfig(), "127.0.0.1:0", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.shutdown(time.Second) })

	require.NotNil(t, app.deps.AuthService)
	assert.NotNil(t, app.deps.JobService)
	assert.NotNil(t, app.deps.UsageService)
	assert.NotNil(t, app.deps.TranscriptService)
	assert.NotNil(t, app.deps.LibraryService)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"health", "/health", "", http.StatusOK},
		{"usage with dev token", "/api/v1/usage", "dev-token", http.StatusOK},
		{"usage without token", "/api/v1/usage", "", http.StatusUnauthorized},
		{"library with dev token", "/api/v1/transcripts", "dev-token", http.StatusOK},
		{"history with dev token", "/api/v1/history", "dev-token", http.StatusOK},
		{"settings with dev token", "/api/v1/settings", "dev-token", http.StatusOK},
		{"settings without token", "/api/v1/settings", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			app.server.Engine().ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestNewApplication_NoAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testAppConfig()
	cfg.Auth = config.AuthConfig{}

	app, err := newApplication(context.Background(), cfg, "127.0.0.1:0", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.shutdown(time.Second) })

	assert.Nil(t, app.deps.AuthService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	app.server.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewApplication_BadBackend(t *testing.T) {
	cfg := testAppConfig()
	cfg.Cache.Backend = "memcached"

	_, err := newApplication(context.Background(), cfg, "127.0.0.1:0", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create cache")
}

func TestApplicationStart_FailsInterruptedJobs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	app, err := newApplication(ctx, testAppConfig(), "127.0.0.1:0", nil)
	require.NoError(t, err)

	stale, err := app.deps.JobService.CreateJob(ctx, jobs.CreateJobParams{
		URL:    "https://www.youtube.com/@left-over",
		Limit:  5,
		Format: models.OutputCombined,
		UserID: "dev-user-001",
	})
	require.NoError(t, err)

	require.NoError(t, app.start(ctx))

	job, err := app.deps.JobService.GetJob(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusError, job.Progress.Status)
	assert.Equal(t, jobs.InterruptedMessage, job.Progress.Error)

	assert.NoError(t, app.shutdown(time.Second))
}

func TestDownloadOptions(t *testing.T) {
	opts := downloadOptions(config.YouTubeConfig{
		FetchTimeout:  5 * time.Second,
		UserAgent:     "test-agent",
		RetryAttempts: 7,
		Proxies:       []string{"http://proxy:8080"},
	})

	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, "test-agent", opts.UserAgent)
	assert.Equal(t, 7, opts.Retry.MaxRetries)
	assert.Equal(t, []string{"http://proxy:8080"}, opts.Proxies)
}
