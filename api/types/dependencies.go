package types

import (
	"context"

	"github.com/killallgit/transcriptflow-api/internal/database"
	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/auth"
	"github.com/killallgit/transcriptflow-api/internal/services/cache"
	"github.com/killallgit/transcriptflow-api/internal/services/history"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	"github.com/killallgit/transcriptflow-api/internal/services/library"
	"github.com/killallgit/transcriptflow-api/internal/services/settings"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
	"github.com/killallgit/transcriptflow-api/pkg/config"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// JobSubmitter hands a created job to the background workers
type JobSubmitter interface {
	Submit(job *models.ChannelJob) error
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB                *database.DB
	Config            *config.Config
	AuthService       TokenValidator
	JobService        jobs.Service
	WorkerPool        JobSubmitter
	UsageService      usage.Service
	TranscriptService transcripts.Service
	LibraryService    library.Service
	HistoryService    history.Service
	SettingsService   settings.Service
	Cache             cache.Cache
}
