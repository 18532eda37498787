package transcript

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
)

// RegisterRoutes registers single video extraction. Anonymous callers are
// allowed and counted against the per-client allowance.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, authHandler *auth.Handler, middleware gin.HandlerFunc) {
	router.GET("/transcript", middleware, authHandler.OptionalAuth(), Get(deps))
}
