package history

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
)

// RegisterRoutes registers the extraction history on the /history group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, authHandler *auth.Handler, middleware gin.HandlerFunc) {
	router.Use(middleware, authHandler.RequireAuth())

	router.GET("", List(deps))
	router.DELETE("/:id", Delete(deps))
}
