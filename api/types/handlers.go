package types

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/internal/services/usage"
)

// Context keys set by the auth middleware
const (
	ContextKeyClaims = "claims"
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
)

// UserID returns the authenticated user's id, or "" for anonymous requests
func UserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// CallerFrom identifies the caller for quota purposes
func CallerFrom(c *gin.Context) usage.Caller {
	return usage.Caller{
		UserID:    UserID(c),
		ClientKey: c.ClientIP(),
	}
}

// QueryInt parses an integer query parameter, returning def when absent.
// Sends a bad request response and returns false when it does not parse.
func QueryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		SendBadRequest(c, "Invalid "+name)
		return 0, false
	}
	return value, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   "INVALID_INPUT",
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message, Error: "INVALID_INPUT"})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Message: message, Error: "NOT_FOUND"})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Status: StatusError, Message: message, Error: "INTERNAL"})
}
