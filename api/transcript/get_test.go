package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiauth "github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

type fakeTranscripts struct {
	err   error
	calls []string
}

func (f *fakeTranscripts) Fetch(_ context.Context, videoID string) (*transcripts.Result, error) {
	f.calls = append(f.calls, videoID)
	if f.err != nil {
		return nil, f.err
	}
	segments := []transcript.Segment{{Text: "hello world", Offset: 0, Duration: 1000}}
	return &transcripts.Result{
		VideoID:    videoID,
		Segments:   segments,
		Transcript: "hello world",
		SRT:        transcript.SRT(segments),
		WordCount:  2,
		Source:     "innertube",
	}, nil
}

func (f *fakeTranscripts) FetchMetadata(_ context.Context, videoID string) *transcripts.Metadata {
	return transcripts.DefaultMetadata(videoID)
}

func (f *fakeTranscripts) FetchWithMetadata(ctx context.Context, videoID string) (*transcripts.Result, *transcripts.Metadata, error) {
	res, err := f.Fetch(ctx, videoID)
	if err != nil {
		return nil, nil, err
	}
	return res, f.FetchMetadata(ctx, videoID), nil
}

type fakeUsage struct {
	usage.Service
	result  usage.RateLimitResult
	tracked []int
}

func (f *fakeUsage) CheckRateLimit(context.Context, usage.Caller, models.ActionType) (*usage.RateLimitResult, error) {
	r := f.result
	return &r, nil
}

func (f *fakeUsage) TrackUsage(_ context.Context, _ usage.Caller, action models.ActionType, count int) {
	if action == models.ActionVideoExtraction {
		f.tracked = append(f.tracked, count)
	}
}

func setupRouter(fetcher *fakeTranscripts, tracker *fakeUsage) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	deps := &types.Dependencies{TranscriptService: fetcher, UsageService: tracker}
	RegisterRoutes(router.Group("/api/v1"), deps, apiauth.NewHandler(nil), func(c *gin.Context) { c.Next() })
	return router
}

func TestGet(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		fetchErr   error
		allowed    bool
		wantStatus int
		wantCode   string
		wantVideo  string
	}{
		{name: "bare id", query: "videoId=dQw4w9WgXcQ", allowed: true, wantStatus: http.StatusOK, wantVideo: "dQw4w9WgXcQ"},
		{name: "url", query: "url=https://www.youtube.com/watch?v%3DdQw4w9WgXcQ", allowed: true, wantStatus: http.StatusOK, wantVideo: "dQw4w9WgXcQ"},
		{name: "missing", query: "", allowed: true, wantStatus: http.StatusBadRequest, wantCode: "MISSING_FIELD"},
		{name: "invalid", query: "videoId=short", allowed: true, wantStatus: http.StatusBadRequest, wantCode: "INVALID_URL"},
		{name: "quota exhausted", query: "videoId=dQw4w9WgXcQ", allowed: false, wantStatus: http.StatusTooManyRequests, wantCode: "RATE_LIMITED"},
		{name: "no captions", query: "videoId=dQw4w9WgXcQ", allowed: true, fetchErr: transcripts.ErrNoTranscript, wantStatus: http.StatusNotFound, wantCode: "NO_TRANSCRIPT"},
		{name: "unavailable", query: "videoId=dQw4w9WgXcQ", allowed: true, fetchErr: transcripts.ErrVideoUnavailable, wantStatus: http.StatusNotFound, wantCode: "VIDEO_UNAVAILABLE"},
		{name: "throttled", query: "videoId=dQw4w9WgXcQ", allowed: true, fetchErr: transcripts.ErrRateLimited, wantStatus: http.StatusTooManyRequests, wantCode: "UPSTREAM_RATE_LIMITED"},
		{name: "unknown failure", query: "videoId=dQw4w9WgXcQ", allowed: true, fetchErr: fmt.Errorf("connection reset"), wantStatus: http.StatusBadGateway, wantCode: "EXTERNAL_SERVICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeTranscripts{err: tt.fetchErr}
			tracker := &fakeUsage{result: usage.RateLimitResult{Allowed: tt.allowed, Remaining: 2, Limit: 3}}
			if !tt.allowed {
				tracker.result.Remaining = 0
			}
			router := setupRouter(fetcher, tracker)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcript?"+tt.query, nil))

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				var resp types.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error)
				assert.Empty(t, tracker.tracked)
				return
			}

			var resp types.TranscriptResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantVideo, resp.VideoID)
			assert.Equal(t, "hello world", resp.Transcript)
			assert.Contains(t, resp.SRTContent, "00:00:00,000 --> 00:00:01,000")
			assert.Equal(t, 2, resp.WordCount)
			require.NotNil(t, resp.Metadata)
			assert.Equal(t, tt.wantVideo, resp.Metadata.VideoID)
			require.NotNil(t, resp.RateLimit)
			assert.Equal(t, 1, resp.RateLimit.Remaining)
			assert.Equal(t, []int{1}, tracker.tracked)
			assert.Equal(t, []string{tt.wantVideo}, fetcher.calls)
		})
	}
}
