package library

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/library"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// List returns a page of the caller's saved transcripts
// @Summary      List saved transcripts
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        limit     query int  false "Page size" default(50)
// @Param        offset    query int  false "Offset" default(0)
// @Param        favorites query bool false "Only favorites"
// @Success      200 {object} types.SavedTranscriptsResponse
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/transcripts [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, ok := types.QueryInt(c, "limit", library.DefaultPageSize)
		if !ok {
			return
		}
		offset, ok := types.QueryInt(c, "offset", 0)
		if !ok {
			return
		}
		opts := library.ListOptions{
			Limit:         limit,
			Offset:        offset,
			FavoritesOnly: c.Query("favorites") == "true",
		}

		items, total, err := deps.LibraryService.List(c.Request.Context(), types.UserID(c), opts)
		if err != nil {
			types.RespondError(c, err)
			return
		}
		if items == nil {
			items = []models.SavedTranscript{}
		}

		c.JSON(http.StatusOK, types.SavedTranscriptsResponse{
			Transcripts: items,
			Total:       total,
			Limit:       min(max(limit, 1), library.MaxPageSize),
			Offset:      max(offset, 0),
		})
	}
}

// Save adds a transcript to the caller's library
// @Summary      Save a transcript
// @Description  Saving a video that is already in the library refreshes its content and keeps favorites, tags and notes.
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body types.SaveTranscriptRequest true "Transcript to save"
// @Success      201 {object} models.SavedTranscript
// @Failure      400 {object} types.ErrorResponse
// @Failure      401 {object} types.ErrorResponse
// @Router       /api/v1/transcripts [post]
func Save(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SaveTranscriptRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		segments := make(models.SegmentList, 0, len(req.Segments))
		for _, s := range req.Segments {
			segments = append(segments, transcript.Segment{Text: s.Text, Offset: s.Offset, Duration: s.Duration})
		}
		if req.Transcript == "" && len(segments) > 0 {
			req.Transcript = transcript.PlainText(segments)
		}

		saved, err := deps.LibraryService.Save(c.Request.Context(), types.UserID(c), &models.SavedTranscript{
			VideoID:         req.VideoID,
			Title:           req.Title,
			ChannelName:     req.ChannelName,
			ThumbnailURL:    req.ThumbnailURL,
			DurationSeconds: req.DurationSeconds,
			Transcript:      req.Transcript,
			Segments:        segments,
			WordCount:       req.WordCount,
		})
		if err != nil {
			respondLibraryError(c, err)
			return
		}
		c.JSON(http.StatusCreated, saved)
	}
}

// Update patches favorite, tags or notes of a saved transcript
// @Summary      Update a saved transcript
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                        true "Saved transcript ID"
// @Param        request body types.UpdateTranscriptRequest true "Fields to change"
// @Success      200 {object} models.SavedTranscript
// @Failure      400 {object} types.ErrorResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/transcripts/{id} [patch]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.UpdateTranscriptRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		updated, err := deps.LibraryService.Update(c.Request.Context(), types.UserID(c), c.Param("id"), library.Patch{
			IsFavorite: req.IsFavorite,
			Tags:       req.Tags,
			Notes:      req.Notes,
		})
		if err != nil {
			respondLibraryError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// Delete removes a saved transcript
// @Summary      Delete a saved transcript
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Saved transcript ID"
// @Success      200 {object} types.MessageResponse
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/transcripts/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.LibraryService.Delete(c.Request.Context(), types.UserID(c), c.Param("id")); err != nil {
			respondLibraryError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.MessageResponse{Status: types.StatusOK, Message: "Transcript deleted"})
	}
}

func respondLibraryError(c *gin.Context, err error) {
	if errors.Is(err, library.ErrNotFound) {
		types.RespondError(c, apperrors.NotFound("transcript", c.Param("id")))
		return
	}
	if errors.Is(err, library.ErrInvalid) {
		types.RespondError(c, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error()))
		return
	}
	types.RespondError(c, err)
}
