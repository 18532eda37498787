package settings

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/types"
)

// RegisterRoutes registers the caller's preferences on the /settings group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, authHandler *auth.Handler, middleware gin.HandlerFunc) {
	router.Use(middleware, authHandler.RequireAuth())

	router.GET("", Get(deps))
	router.PUT("", Update(deps))
	router.PATCH("", Update(deps))
}
