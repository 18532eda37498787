package usage

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
)

// Get reports the caller's usage and the current allowance per action
// @Summary      Get usage
// @Tags         usage
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} types.UsageResponse
// @Failure      401 {object} types.ErrorResponse
// @Failure      500 {object} types.ErrorResponse
// @Router       /api/v1/usage [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		caller := types.CallerFrom(c)

		stats, err := deps.UsageService.GetUsageStats(ctx, caller.UserID)
		if err != nil {
			types.RespondError(c, err)
			return
		}

		limits := make(map[models.ActionType]*usage.RateLimitResult, 2)
		for _, action := range []models.ActionType{models.ActionVideoExtraction, models.ActionChannelExtraction} {
			result, err := deps.UsageService.CheckRateLimit(ctx, caller, action)
			if err != nil {
				types.RespondError(c, err)
				return
			}
			limits[action] = result
		}

		c.JSON(http.StatusOK, types.UsageResponse{Usage: stats, RateLimits: limits})
	}
}
