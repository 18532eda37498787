package transcript

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/history"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// Get extracts the transcript of one video
// @Summary      Extract a video transcript
// @Description  Accepts a bare video id or any YouTube video URL. Counts one video against the caller's daily quota. Signed-in callers get an extraction history entry.
// @Tags         transcripts
// @Produce      json
// @Param        videoId query string false "11 character video id"
// @Param        url     query string false "YouTube video URL"
// @Success      200 {object} types.TranscriptResponse
// @Failure      400 {object} types.ErrorResponse "Missing or invalid video"
// @Failure      404 {object} types.ErrorResponse "No captions, or the video is unavailable"
// @Failure      429 {object} types.ErrorResponse "Daily quota exhausted or YouTube is throttling"
// @Failure      502 {object} types.ErrorResponse "Caption retrieval failed"
// @Router       /api/v1/transcript [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		input := c.Query("videoId")
		if input == "" {
			input = c.Query("url")
		}
		if input == "" {
			types.RespondError(c, apperrors.MissingFieldError("videoId"))
			return
		}
		videoID, ok := youtube.ExtractVideoID(input)
		if !ok {
			types.RespondError(c, apperrors.InvalidURLError("video"))
			return
		}

		ctx := c.Request.Context()
		caller := types.CallerFrom(c)
		rateLimit, err := deps.UsageService.CheckRateLimit(ctx, caller, models.ActionVideoExtraction)
		if err != nil {
			types.RespondError(c, err)
			return
		}
		if !rateLimit.Allowed {
			c.JSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status:    types.StatusError,
				Message:   "Daily extraction limit reached. Try again after the reset time.",
				Error:     string(apperrors.ErrCodeRateLimit),
				RateLimit: rateLimit,
			})
			return
		}

		entryID := startHistory(c, deps, videoID)
		result, metadata, err := deps.TranscriptService.FetchWithMetadata(ctx, videoID)
		if err != nil {
			appErr := fetchError(videoID, err)
			finishHistory(c, deps, entryID, func(h history.Service) error {
				return h.Fail(ctx, entryID, appErr.Message)
			})
			types.RespondError(c, appErr)
			return
		}
		if metadata == nil {
			metadata = transcripts.DefaultMetadata(videoID)
		}
		finishHistory(c, deps, entryID, func(h history.Service) error {
			return h.Complete(ctx, entryID, history.Outcome{
				Title:           metadata.Title,
				ChannelName:     metadata.ChannelName,
				ThumbnailURL:    metadata.ThumbnailURL,
				DurationSeconds: metadata.DurationSeconds,
				Transcript:      result.Transcript,
				WordCount:       result.WordCount,
			})
		})

		deps.UsageService.TrackUsage(ctx, caller, models.ActionVideoExtraction, 1)
		if !rateLimit.Unlimited {
			rateLimit.Remaining = max(0, rateLimit.Remaining-1)
		}

		c.JSON(http.StatusOK, types.TranscriptResponse{
			VideoID:    videoID,
			Transcript: result.Transcript,
			Segments:   result.Segments,
			SRTContent: result.SRT,
			WordCount:  result.WordCount,
			Source:     result.Source,
			Cached:     result.Cached,
			Metadata:   metadata,
			RateLimit:  rateLimit,
		})
	}
}

// startHistory opens a processing entry for signed-in callers. History is
// best effort: failures are logged and the extraction goes on.
func startHistory(c *gin.Context, deps *types.Dependencies, videoID string) string {
	userID := types.UserID(c)
	if deps.HistoryService == nil || userID == "" {
		return ""
	}
	entry, err := deps.HistoryService.Start(c.Request.Context(), userID, videoID)
	if err != nil {
		slog.Warn("recording extraction history failed", "user_id", userID, "video_id", videoID, "error", err)
		return ""
	}
	return entry.ID
}

func finishHistory(c *gin.Context, deps *types.Dependencies, entryID string, update func(history.Service) error) {
	if entryID == "" {
		return
	}
	if err := update(deps.HistoryService); err != nil {
		slog.Warn("updating extraction history failed", "user_id", types.UserID(c), "history_id", entryID, "error", err)
	}
}

func fetchError(videoID string, err error) *apperrors.AppError {
	kind := transcripts.Classify(err)
	var code apperrors.ErrorCode
	switch kind {
	case transcripts.KindNoTranscript:
		code = apperrors.ErrCodeNoTranscript
	case transcripts.KindVideoUnavailable:
		code = apperrors.ErrCodeUnavailable
	case transcripts.KindRateLimited:
		code = apperrors.ErrCodeUpstreamLimited
	default:
		code = apperrors.ErrCodeExternalService
	}
	return apperrors.Wrap(err, code, transcripts.UserMessage(kind)).WithDetail("videoId", videoID)
}
