package types

import (
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// Status constants for API responses
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusStarted = "started"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status          string                 `json:"status"`
	Message         string                 `json:"message"`
	Error           string                 `json:"error,omitempty"`   // Error code
	Details         interface{}            `json:"details,omitempty"` // Additional error details
	TierRestriction bool                   `json:"tierRestriction,omitempty"`
	RateLimit       *usage.RateLimitResult `json:"rateLimit,omitempty"`
}

// HealthResponse for health check endpoint
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

// ChannelJobStartedResponse is returned when a channel job was accepted
type ChannelJobStartedResponse struct {
	JobID     string                 `json:"jobId"`
	Status    string                 `json:"status"`
	Progress  models.Progress        `json:"progress"`
	Limit     int                    `json:"limit"`
	RateLimit *usage.RateLimitResult `json:"rateLimit,omitempty"`
}

// ChannelJobResponse is the polled job snapshot. Results hold every attempted
// video so far, whatever the status.
type ChannelJobResponse struct {
	JobID             string               `json:"jobId"`
	URL               string               `json:"url"`
	Status            models.JobStatus     `json:"status"`
	Progress          models.Progress      `json:"progress"`
	ChannelInfo       *models.ChannelInfo  `json:"channelInfo"`
	Results           []models.VideoResult `json:"results"`
	TotalVideos       int                  `json:"totalVideos"`
	ProcessedVideos   int                  `json:"processedVideos"`
	SuccessCount      int                  `json:"successCount"`
	FailedCount       int                  `json:"failedCount"`
	CurrentVideoTitle string               `json:"currentVideoTitle,omitempty"`
	Error             string               `json:"error,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	UpdatedAt         time.Time            `json:"updatedAt"`
}

// ChannelJobSummary is one entry of the caller's job list
type ChannelJobSummary struct {
	JobID       string              `json:"jobId"`
	URL         string              `json:"url"`
	Status      models.JobStatus    `json:"status"`
	Progress    models.Progress     `json:"progress"`
	ChannelInfo *models.ChannelInfo `json:"channelInfo"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// ChannelJobsResponse lists the caller's recent jobs
type ChannelJobsResponse struct {
	Jobs  []ChannelJobSummary `json:"jobs"`
	Count int                 `json:"count"`
}

// MessageResponse acknowledges an action
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TranscriptResponse is a single video extraction
type TranscriptResponse struct {
	VideoID    string                 `json:"videoId"`
	Transcript string                 `json:"transcript"`
	Segments   []transcript.Segment   `json:"segments"`
	SRTContent string                 `json:"srtContent"`
	WordCount  int                    `json:"wordCount"`
	Source     string                 `json:"source"`
	Cached     bool                   `json:"cached"`
	Metadata   *transcripts.Metadata  `json:"metadata"`
	RateLimit  *usage.RateLimitResult `json:"rateLimit,omitempty"`
}

// UsageResponse reports the caller's consumption and current allowances
type UsageResponse struct {
	Usage      *usage.Stats                                 `json:"usage"`
	RateLimits map[models.ActionType]*usage.RateLimitResult `json:"rateLimits"`
}

// SavedTranscriptsResponse is a page of the caller's library
type SavedTranscriptsResponse struct {
	Transcripts []models.SavedTranscript `json:"transcripts"`
	Total       int64                    `json:"total"`
	Limit       int                      `json:"limit"`
	Offset      int                      `json:"offset"`
}

// NewChannelJobResponse builds the polled snapshot of job
func NewChannelJobResponse(job *models.ChannelJob) ChannelJobResponse {
	resp := ChannelJobResponse{
		JobID:             job.ID,
		URL:               job.URL,
		Status:            job.Progress.Status,
		Progress:          job.Progress,
		ChannelInfo:       job.ChannelInfo,
		TotalVideos:       job.Progress.TotalVideos,
		ProcessedVideos:   job.Progress.CurrentVideoIndex,
		SuccessCount:      job.Progress.SuccessCount,
		FailedCount:       job.Progress.FailedCount,
		CurrentVideoTitle: job.Progress.CurrentVideoTitle,
		Error:             job.Progress.Error,
		CreatedAt:         job.CreatedAt,
		UpdatedAt:         job.UpdatedAt,
	}
	resp.Results = job.Results
	if resp.Results == nil {
		resp.Results = []models.VideoResult{}
	}
	return resp
}

// NewChannelJobSummary builds a list entry for job
func NewChannelJobSummary(job *models.ChannelJob) ChannelJobSummary {
	return ChannelJobSummary{
		JobID:       job.ID,
		URL:         job.URL,
		Status:      job.Progress.Status,
		Progress:    job.Progress,
		ChannelInfo: job.ChannelInfo,
		CreatedAt:   job.CreatedAt,
	}
}

// HistoryResponse is a page of the caller's extraction history
type HistoryResponse struct {
	History []models.ExtractionHistory `json:"history"`
	Total   int64                      `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
}
