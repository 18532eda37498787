package channels

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// Post starts a channel batch extraction
// @Summary      Start a channel extraction
// @Description  Validates the channel URL, checks tier eligibility and quota, then queues a batch job. Poll the returned job id for progress.
// @Tags         channels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.ChannelExtractionRequest true "Channel URL, video limit and output format"
// @Success      200 {object} types.ChannelJobStartedResponse "Job accepted"
// @Failure      400 {object} types.ErrorResponse "Missing or non-channel URL"
// @Failure      401 {object} types.ErrorResponse "Authentication required"
// @Failure      403 {object} types.ErrorResponse "Tier does not include channel extraction"
// @Failure      429 {object} types.ErrorResponse "Daily quota exhausted"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Failure      503 {object} types.ErrorResponse "Job queue is full"
// @Router       /api/v1/extract/channel [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ChannelExtractionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		// input is rejected before the caller is even identified
		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			types.RespondError(c, apperrors.MissingFieldError("url"))
			return
		}
		if !youtube.IsChannelURL(req.URL) {
			types.RespondError(c, apperrors.InvalidURLError("channel"))
			return
		}
		format, err := models.ParseOutputFormat(req.Format)
		if err != nil {
			types.RespondError(c, apperrors.ValidationError("format", "must be combined or individual"))
			return
		}

		caller := types.CallerFrom(c)
		if caller.Anonymous() {
			types.RespondError(c, apperrors.New(apperrors.ErrCodeUnauthorized, "Sign in to extract channel transcripts"))
			return
		}

		ctx := c.Request.Context()
		tier, err := deps.UsageService.GetUserTier(ctx, caller.UserID)
		if err != nil {
			types.RespondError(c, err)
			return
		}
		if !tier.ChannelExtraction {
			types.RespondError(c, apperrors.TierRestrictedError(string(tier.Tier), "Channel extraction"))
			return
		}

		rateLimit, err := deps.UsageService.CheckRateLimit(ctx, caller, models.ActionChannelExtraction)
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

		job, err := deps.JobService.CreateJob(ctx, jobs.CreateJobParams{
			URL:    req.URL,
			Limit:  deps.UsageService.ChannelLimit(req.Limit, tier),
			Format: format,
			UserID: caller.UserID,
		})
		if err != nil {
			types.RespondError(c, err)
			return
		}

		if err := deps.WorkerPool.Submit(job); err != nil {
			// nothing will ever pick the job up, so it must not stay idle
			failCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_, _ = deps.JobService.UpdateJobProgress(failCtx, job.ID, models.Progress{
				Status: models.JobStatusError,
				Error:  "Server is busy, please try again shortly",
			})
			types.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeServiceDown, "Too many channel extractions in progress, please try again shortly"))
			return
		}

		c.JSON(http.StatusOK, types.ChannelJobStartedResponse{
			JobID:     job.ID,
			Status:    types.StatusStarted,
			Progress:  job.Progress,
			Limit:     job.Limit,
			RateLimit: rateLimit,
		})
	}
}
