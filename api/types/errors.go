package types

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// RespondError writes err as an ErrorResponse. Errors that are not an AppError
// are logged and reported as internal errors without their text.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		slog.Error("unhandled request error", "path", c.FullPath(), "error", err)
		appErr = apperrors.Wrap(err, apperrors.ErrCodeInternal, "Internal server error")
	}

	resp := ErrorResponse{
		Status:          StatusError,
		Message:         appErr.Message,
		Error:           string(appErr.Code),
		TierRestriction: appErr.Code == apperrors.ErrCodeTierRestricted,
	}
	if len(appErr.Details) > 0 {
		resp.Details = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.GetHTTPCode(), resp)
}
