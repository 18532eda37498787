package channels

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
)

// RegisterRoutes registers channel extraction routes on the /extract/channel group.
// Rate limiting is applied at the route registration level. POST validates its
// input before authenticating, so it only carries OptionalAuth.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, authHandler *auth.Handler, extractMiddleware, pollMiddleware gin.HandlerFunc) {
	// POST /api/v1/extract/channel - Start a batch job
	router.POST("", extractMiddleware, authHandler.OptionalAuth(), Post(deps))

	// GET /api/v1/extract/channel - The caller's recent jobs
	router.GET("", pollMiddleware, authHandler.RequireAuth(), List(deps))

	// GET /api/v1/extract/channel/:jobId - Poll a job
	router.GET("/:jobId", pollMiddleware, authHandler.RequireAuth(), Get(deps))

	// DELETE /api/v1/extract/channel/:jobId[?action=cancel] - Cancel or delete a job
	router.DELETE("/:jobId", pollMiddleware, authHandler.RequireAuth(), Delete(deps))

	// GET /api/v1/extract/channel/:jobId/export - Download transcripts
	router.GET("/:jobId/export", pollMiddleware, authHandler.RequireAuth(), Export(deps))
}
