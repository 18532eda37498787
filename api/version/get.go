package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is overridden at build time with -ldflags "-X .../api/version.Version=..."
var Version = "1.0.0"

// Info describes the running API
type Info struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Current returns the service description served on /
func Current() Info {
	return Info{
		Name:        "TranscriptFlow API",
		Version:     Version,
		Description: "Batch transcript extraction for YouTube videos and channels",
		Status:      "running",
	}
}

// Get handles version requests
// @Summary      Service version
// @Tags         health
// @Produce      json
// @Success      200 {object} version.Info
// @Router       / [get]
func Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, Current())
	}
}
