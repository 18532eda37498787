package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/transcriptflow-api/api/auth"
	"github.com/killallgit/transcriptflow-api/api/channels"
	"github.com/killallgit/transcriptflow-api/api/health"
	"github.com/killallgit/transcriptflow-api/api/history"
	"github.com/killallgit/transcriptflow-api/api/library"
	"github.com/killallgit/transcriptflow-api/api/settings"
	"github.com/killallgit/transcriptflow-api/api/transcript"
	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/api/usage"
	"github.com/killallgit/transcriptflow-api/api/version"
	_ "github.com/killallgit/transcriptflow-api/docs/swagger"
	"github.com/killallgit/transcriptflow-api/pkg/config"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// Rate limit groups, keyed as in rate_limiting.endpoints
const (
	LimitExtract = "extract"
	LimitPoll    = "poll"
	LimitLibrary = "library"
	LimitDefault = "default"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, cfg *config.Config, rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once) error {
	// Register public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine)

	// Register Swagger documentation route
	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup 404 handler
	engine.NoRoute(NotFoundHandler())

	limit := func(name string) gin.HandlerFunc {
		if cfg == nil || !cfg.RateLimiting.Enabled {
			return passthrough
		}
		rps, ok := cfg.RateLimiting.Endpoints[name]
		if !ok {
			rps = cfg.RateLimiting.Endpoints[LimitDefault]
		}
		return PerClientRateLimit(rateLimiters, cleanupStop, cleanupInitialized, name, rps, rps*2)
	}

	authHandler := auth.NewHandler(deps.AuthService)

	// API v1 routes
	v1 := engine.Group("/api/v1")
	auth.RegisterRoutes(v1, authHandler)
	usage.RegisterRoutes(v1, deps, authHandler)
	transcript.RegisterRoutes(v1, deps, authHandler, limit(LimitExtract))

	channelGroup := v1.Group("/extract/channel")
	channels.RegisterRoutes(channelGroup, deps, authHandler, limit(LimitExtract), limit(LimitPoll))

	libraryGroup := v1.Group("/transcripts")
	library.RegisterRoutes(libraryGroup, deps, authHandler, limit(LimitLibrary))

	history.RegisterRoutes(v1.Group("/history"), deps, authHandler, limit(LimitLibrary))
	settings.RegisterRoutes(v1.Group("/settings"), deps, authHandler, limit(LimitLibrary))

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Status:  types.StatusError,
			Message: "The requested endpoint was not found",
			Error:   string(apperrors.ErrCodeNotFound),
			Details: map[string]interface{}{"path": c.Request.URL.Path},
		})
	}
}
