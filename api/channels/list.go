package channels

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
)

// List returns the caller's recent jobs, newest first
// @Summary      List channel jobs
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Maximum number of jobs" default(20)
// @Success      200 {object} types.ChannelJobsResponse
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/extract/channel [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.QueryInt(c, "limit", 0)
		if !ok {
			return
		}

		found, err := deps.JobService.ListJobs(c.Request.Context(), types.UserID(c), limit)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		summaries := make([]types.ChannelJobSummary, 0, len(found))
		for _, job := range found {
			summaries = append(summaries, types.NewChannelJobSummary(job))
		}
		c.JSON(http.StatusOK, types.ChannelJobsResponse{Jobs: summaries, Count: len(summaries)})
	}
}
