package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/services/settings"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// Get returns the caller's preferences, with defaults for users who never saved any
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.UserSettings
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/settings [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := deps.SettingsService.Get(c.Request.Context(), types.UserID(c))
		if err != nil {
			types.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// Update changes the default export format or theme
// @Summary      Update settings
// @Description  The default export format is used by channel exports that do not name a format.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.UpdateSettingsRequest true "Fields to change"
// @Success      200 {object} models.UserSettings
// @Failure      400 {object} types.ErrorResponse
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/settings [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.UpdateSettingsRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		updated, err := deps.SettingsService.Update(c.Request.Context(), types.UserID(c), settings.Patch{
			DefaultExportFormat: req.DefaultExportFormat,
			Theme:               req.Theme,
		})
		if errors.Is(err, settings.ErrInvalid) {
			types.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
			return
		}
		if err != nil {
			types.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
