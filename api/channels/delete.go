package channels

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
)

// Delete cancels or deletes a job
// @Summary      Cancel or delete a channel job
// @Description  With action=cancel the running job stops before its next video and keeps its partial results; cancelling a finished job is a no-op. Without action the job is stopped and removed.
// @Tags         channels
// @Produce      json
// @Security     BearerAuth
// @Param        jobId  path  string true  "Job ID"
// @Param        action query string false "cancel"
// @Success      200 {object} types.MessageResponse
// @Failure      400 {object} types.ErrorResponse "Unknown action"
// @Failure      401 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse "Job not found"
// @Router       /api/v1/extract/channel/{jobId} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := c.Query("action")
		if action != "" && action != "cancel" {
			types.SendBadRequest(c, "Unknown action: "+action)
			return
		}

		job, ok := loadOwnedJob(c, deps)
		if !ok {
			return
		}
		ctx := c.Request.Context()

		if action == "cancel" {
			if _, err := deps.JobService.CancelJob(ctx, job.ID); err != nil {
				respondJobError(c, job.ID, err)
				return
			}
			c.JSON(http.StatusOK, types.MessageResponse{Status: types.StatusOK, Message: "Job cancelled"})
			return
		}

		if err := deps.JobService.DeleteJob(ctx, job.ID); err != nil {
			respondJobError(c, job.ID, err)
			return
		}
		c.JSON(http.StatusOK, types.MessageResponse{Status: types.StatusOK, Message: "Job deleted"})
	}
}
