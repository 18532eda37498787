package history

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/history"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
)

// List returns a page of the caller's single video extractions
// @Summary      List extraction history
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int    false "Page size" default(50)
// @Param        offset query int    false "Offset" default(0)
// @Param        status query string false "processing, completed or failed"
// @Success      200 {object} types.HistoryResponse
// @Failure      400 {object} types.ErrorResponse
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/history [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.QueryInt(c, "limit", history.DefaultPageSize)
		if !ok {
			return
		}
		offset, ok := types.QueryInt(c, "offset", 0)
		if !ok {
			return
		}
		status := models.HistoryStatus(c.Query("status"))
		switch status {
		case "", models.HistoryProcessing, models.HistoryCompleted, models.HistoryFailed:
		default:
			types.RespondError(c, apperrors.ValidationError("status", "must be processing, completed or failed"))
			return
		}

		entries, total, err := deps.HistoryService.List(c.Request.Context(), types.UserID(c), history.ListOptions{
			Limit:  limit,
			Offset: offset,
			Status: status,
		})
		if err != nil {
			types.RespondError(c, err)
			return
		}
		if entries == nil {
			entries = []models.ExtractionHistory{}
		}

		c.JSON(http.StatusOK, types.HistoryResponse{
			History: entries,
			Total:   total,
			Limit:   min(max(limit, 1), history.MaxPageSize),
			Offset:  max(offset, 0),
		})
	}
}

// Delete removes one history entry
// @Summary      Delete a history entry
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "History entry ID"
// @Success      200 {object} types.MessageResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/history/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := deps.HistoryService.Delete(c.Request.Context(), types.UserID(c), c.Param("id"))
		if errors.Is(err, history.ErrNotFound) {
			types.RespondError(c, apperrors.NotFound("history entry", c.Param("id")))
			return
		}
		if err != nil {
			types.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.MessageResponse{Status: types.StatusOK, Message: "History entry deleted"})
	}
}
