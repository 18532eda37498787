package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/services/cache"
)

const (
	statusHealthy       = "healthy"
	statusUnhealthy     = "unhealthy"
	statusNotConfigured = "not configured"
)

// Get handles health check requests
// @Summary      Health check
// @Description  Reports the state of the database and transcript cache. Returns 503 when the database is unreachable.
// @Tags         health
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Failure      503 {object} types.HealthResponse
// @Router       /health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps == nil {
			deps = &types.Dependencies{}
		}

		db := getDatabaseStatus(deps)
		response := types.HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Services: map[string]interface{}{
				"database": db,
				"cache":    getCacheStatus(c.Request.Context(), deps),
			},
		}

		code := http.StatusOK
		if db["status"] == statusUnhealthy {
			response.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, response)
	}
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(deps *types.Dependencies) gin.H {
	if deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": statusNotConfigured}
	}

	if err := deps.DB.HealthCheck(); err != nil {
		return gin.H{"status": statusUnhealthy, "error": err.Error()}
	}

	return gin.H{"status": statusHealthy, "driver": deps.DB.Driver()}
}

// getCacheStatus pings backends that support it; the rest are assumed up
func getCacheStatus(ctx context.Context, deps *types.Dependencies) gin.H {
	if deps.Cache == nil {
		return gin.H{"status": statusNotConfigured}
	}

	pinger, ok := deps.Cache.(cache.Pinger)
	if !ok {
		return gin.H{"status": statusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		return gin.H{"status": statusUnhealthy, "error": err.Error()}
	}
	return gin.H{"status": statusHealthy}
}
