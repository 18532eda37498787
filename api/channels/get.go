package channels

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// Get returns the current snapshot of a job
// @Summary      Get channel job status
// @Description  Returns progress and the per-video results attempted so far, including partial results of failed jobs
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        jobId path string true "Job ID"
// @Success      200 {object} types.ChannelJobResponse
// @Failure      401 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Router       /api/v1/extract/channel/{jobId} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, ok := loadOwnedJob(c, deps)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, types.NewChannelJobResponse(job))
	}
}

// loadOwnedJob fetches the path job. Jobs of other users are reported as missing.
func loadOwnedJob(c *gin.Context, deps *types.Dependencies) (*models.ChannelJob, bool) {
	jobID := c.Param("jobId")
	job, err := deps.JobService.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondJobError(c, jobID, err)
		return nil, false
	}
	if job.UserID != types.UserID(c) {
		respondJobError(c, jobID, jobs.ErrJobNotFound)
		return nil, false
	}
	return job, true
}

func respondJobError(c *gin.Context, jobID string, err error) {
	if errors.Is(err, jobs.ErrJobNotFound) {
		types.RespondError(c, apperrors.NotFound("job", jobID))
		return
	}
	types.RespondError(c, err)
}
