package transcript

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiauth "github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/auth"
	"github.com/killallgit/transcriptflow-api/internal/services/history"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
)

type singleUser struct{}

func (singleUser) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token == "alice-token" {
		return &auth.Claims{Sub: "alice", Role: auth.AuthenticatedRole}, nil
	}
	return nil, auth.ErrInvalidToken
}

type fakeHistory struct {
	history.Service
	startErr  error
	started   []string
	completed map[string]history.Outcome
	failed    map[string]string
}

func (f *fakeHistory) Start(_ context.Context, userID, videoID string) (*models.ExtractionHistory, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = append(f.started, userID+"/"+videoID)
	return &models.ExtractionHistory{ID: "h-1", UserID: userID, VideoID: videoID, Status: models.HistoryProcessing}, nil
}

func (f *fakeHistory) Complete(_ context.Context, id string, outcome history.Outcome) error {
	f.completed[id] = outcome
	return nil
}

func (f *fakeHistory) Fail(_ context.Context, id string, message string) error {
	f.failed[id] = message
	return nil
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{completed: map[string]history.Outcome{}, failed: map[string]string{}}
}

func historyRouter(fetcher *fakeTranscripts, recorder *fakeHistory) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	deps := &types.Dependencies{
		TranscriptService: fetcher,
		UsageService:      &fakeUsage{result: usage.RateLimitResult{Allowed: true, Remaining: 5, Limit: 50}},
		HistoryService:    recorder,
	}
	RegisterRoutes(router.Group("/api/v1"), deps, apiauth.NewHandler(singleUser{}), func(c *gin.Context) { c.Next() })
	return router
}

func getTranscript(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transcript?videoId=dQw4w9WgXcQ", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGet_RecordsHistory(t *testing.T) {
	recorder := newFakeHistory()
	router := historyRouter(&fakeTranscripts{}, recorder)

	w := getTranscript(router, "alice-token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, []string{"alice/dQw4w9WgXcQ"}, recorder.started)
	require.Contains(t, recorder.completed, "h-1")
	outcome := recorder.completed["h-1"]
	assert.Equal(t, "YouTube Video (dQw4w9WgXcQ)", outcome.Title)
	assert.Equal(t, "hello world", outcome.Transcript)
	assert.Equal(t, 2, outcome.WordCount)
	assert.Empty(t, recorder.failed)
}

func TestGet_RecordsFailedHistory(t *testing.T) {
	recorder := newFakeHistory()
	router := historyRouter(&fakeTranscripts{err: transcripts.ErrNoTranscript}, recorder)

	w := getTranscript(router, "alice-token")
	require.Equal(t, http.StatusNotFound, w.Code)

	require.Contains(t, recorder.failed, "h-1")
	assert.Equal(t, transcripts.UserMessage(transcripts.KindNoTranscript), recorder.failed["h-1"])
	assert.Empty(t, recorder.completed)
}

func TestGet_HistorySkippedOrBestEffort(t *testing.T) {
	t.Run("anonymous callers", func(t *testing.T) {
		recorder := newFakeHistory()
		w := getTranscript(historyRouter(&fakeTranscripts{}, recorder), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, recorder.started)
		assert.Empty(t, recorder.completed)
	})

	t.Run("store failure does not fail the extraction", func(t *testing.T) {
		recorder := newFakeHistory()
		recorder.startErr = errors.New("database is locked")
		w := getTranscript(historyRouter(&fakeTranscripts{}, recorder), "alice-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, recorder.completed)
	})
}
