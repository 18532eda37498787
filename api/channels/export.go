package channels

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/models"
	apperrors "github.com/killallgit/transcriptflow-api/pkg/errors"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// Export downloads the transcripts of a finished job
// @Summary      Export channel transcripts
// @Description  Combined mode returns one document with a section per video; individual mode returns a zip with one file per video. Only successful videos are included.
// @Tags         channels
// @Produce      plain
// @Produce      json
// @Produce      application/zip
// @Security     BearerAuth
// @Param        jobId  path  string true  "Job ID"
// @Param        format query string false "txt, srt or json (defaults to the caller's settings, then txt)"
// @Param        mode   query string false "combined or individual (defaults to the job's format)"
// @Success      200 {file} file
// @Failure      400 {object} types.ErrorResponse "Unknown format or mode"
// @Failure      403 {object} types.ErrorResponse "Format not included in the tier"
// @Failure      404 {object} types.ErrorResponse "Job not found or nothing to export"
// @Failure      409 {object} types.ErrorResponse "Job still running"
// @Router       /api/v1/extract/channel/{jobId}/export [get]
func Export(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawFormat := c.Query("format")
		if rawFormat == "" {
			rawFormat = defaultExportFormat(c, deps)
		}
		format, err := transcript.ParseFormat(rawFormat)
		if err != nil {
			types.RespondError(c, apperrors.ValidationError("format", "must be txt, srt or json"))
			return
		}

		job, ok := loadOwnedJob(c, deps)
		if !ok {
			return
		}

		mode := job.Format
		if raw := c.Query("mode"); raw != "" {
			if mode, err = models.ParseOutputFormat(raw); err != nil {
				types.RespondError(c, apperrors.ValidationError("mode", "must be combined or individual"))
				return
			}
		}

		tier, err := deps.UsageService.GetUserTier(c.Request.Context(), job.UserID)
		if err != nil {
			types.RespondError(c, err)
			return
		}
		if !tier.AllowsFormat(format) {
			types.RespondError(c, apperrors.TierRestrictedError(string(tier.Tier), fmt.Sprintf("%s export", format)))
			return
		}

		if !job.IsTerminal() {
			types.RespondError(c, apperrors.New(apperrors.ErrCodeConflict, "Job is still running"))
			return
		}

		items := exportItems(job.Results)
		if len(items) == 0 {
			types.RespondError(c, apperrors.New(apperrors.ErrCodeNoTranscript, "No transcripts to export"))
			return
		}

		channelName := ""
		if job.ChannelInfo != nil {
			channelName = job.ChannelInfo.Name
		}

		if mode == models.OutputIndividual {
			files, err := transcript.Individual(items, format)
			if err != nil {
				types.RespondError(c, err)
				return
			}
			var buf bytes.Buffer
			if err := transcript.WriteZip(&buf, files); err != nil {
				types.RespondError(c, err)
				return
			}
			attachment(c, transcript.ChannelFilename(channelName, "zip"))
			c.Data(http.StatusOK, "application/zip", buf.Bytes())
			return
		}

		body, err := transcript.Combine(items, format)
		if err != nil {
			types.RespondError(c, err)
			return
		}
		attachment(c, transcript.ChannelFilename(channelName, string(format)))
		c.Data(http.StatusOK, format.ContentType(), []byte(body))
	}
}

// defaultExportFormat is the caller's saved preference, or empty for txt
func defaultExportFormat(c *gin.Context, deps *types.Dependencies) string {
	if deps.SettingsService == nil {
		return ""
	}
	prefs, err := deps.SettingsService.Get(c.Request.Context(), types.UserID(c))
	if err != nil {
		slog.Warn("loading export preference failed", "user_id", types.UserID(c), "error", err)
		return ""
	}
	return prefs.DefaultExportFormat
}

func exportItems(results models.ResultList) []transcript.Item {
	items := make([]transcript.Item, 0, len(results))
	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		items = append(items, transcript.Item{
			VideoID:  r.Video.VideoID,
			Title:    r.Video.Title,
			Segments: r.Transcript.Segments,
		})
	}
	return items
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
