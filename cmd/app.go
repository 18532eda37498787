package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/killallgit/transcriptflow-api/api"
	"github.com/killallgit/transcriptflow-api/api/types"
	"github.com/killallgit/transcriptflow-api/internal/database"
	"github.com/killallgit/transcriptflow-api/internal/services/auth"
	"github.com/killallgit/transcriptflow-api/internal/services/cache"
	"github.com/killallgit/transcriptflow-api/internal/services/channels"
	"github.com/killallgit/transcriptflow-api/internal/services/cleanup"
	"github.com/killallgit/transcriptflow-api/internal/services/extraction"
	"github.com/killallgit/transcriptflow-api/internal/services/history"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	"github.com/killallgit/transcriptflow-api/internal/services/library"
	"github.com/killallgit/transcriptflow-api/internal/services/settings"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
	"github.com/killallgit/transcriptflow-api/internal/services/workers"
	"github.com/killallgit/transcriptflow-api/pkg/config"
	"github.com/killallgit/transcriptflow-api/pkg/download"
	"github.com/killallgit/transcriptflow-api/pkg/ytdlp"
)

// application owns every long-lived component of a running server
type application struct {
	cfg     *config.Config
	logger  *slog.Logger
	db      *database.DB
	cache   cache.Cache
	pool    *workers.WorkerPool
	cleanup *cleanup.Service
	server  *api.Server
	deps    *types.Dependencies
}

// newApplication connects storage and builds the service graph. Nothing runs
// in the background until start is called.
func newApplication(ctx context.Context, cfg *config.Config, addr string, logger *slog.Logger) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &application{cfg: cfg, logger: logger}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app.db = db
	if err := db.Migrate(); err != nil {
		app.close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	store, err := cache.New(ctx, cfg, db.DB)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("create cache: %w", err)
	}
	app.cache = store

	downloader, err := download.NewDownloader(downloadOptions(cfg.YouTube))
	if err != nil {
		app.close()
		return nil, fmt.Errorf("create downloader: %w", err)
	}

	runner := ytdlp.New(cfg.YouTube.YtDlpPath, cfg.YouTube.YtDlpTimeout)
	if len(cfg.YouTube.Proxies) > 0 {
		runner.Proxy = cfg.YouTube.Proxies[0]
	}
	if !runner.Available() {
		logger.Warn("yt-dlp not found, subtitle fallback and yt-dlp channel listing are unavailable", "path", runner.Path)
	}

	resolver, err := channels.New(cfg.YouTube, downloader, runner, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("create channel resolver: %w", err)
	}

	transcriptService := transcripts.NewService(downloader, transcripts.Config{
		BaseURL:      cfg.YouTube.BaseURL,
		APIBaseURL:   cfg.YouTube.APIBaseURL,
		APIKey:       cfg.YouTube.APIKey,
		Languages:    cfg.YouTube.Languages,
		CacheTTL:     cfg.Cache.TranscriptTTL,
		FetchTimeout: cfg.YouTube.FetchTimeout,
	},
		transcripts.WithCache(store),
		transcripts.WithYtDlp(runner),
		transcripts.WithLogger(logger),
	)

	jobService := jobs.NewService(jobs.NewRepository(db.DB), jobs.WithLogger(logger))
	usageService := usage.NewService(usage.NewRepository(db.DB),
		usage.WithChannelLimits(usage.ChannelLimits{Default: cfg.Jobs.DefaultLimit, Max: cfg.Jobs.MaxLimit}),
		usage.WithLogger(logger),
	)

	orchestrator := extraction.New(jobService, resolver, transcriptService, usageService,
		extraction.WithThrottle(cfg.Jobs.Throttle),
		extraction.WithLogger(logger),
	)
	app.pool = workers.NewWorkerPool(orchestrator, cfg.Jobs.Workers, cfg.Jobs.QueueSize, logger)
	app.cleanup = cleanup.NewService(jobService, store, cfg.Jobs.TTL, cfg.Jobs.CleanupInterval, logger)

	app.deps = &types.Dependencies{
		DB:                db,
		Config:            cfg,
		JobService:        jobService,
		WorkerPool:        app.pool,
		UsageService:      usageService,
		TranscriptService: transcriptService,
		LibraryService:    library.NewService(library.NewRepository(db.DB)),
		HistoryService:    history.NewService(history.NewRepository(db.DB)),
		SettingsService:   settings.NewService(settings.NewRepository(db.DB)),
		Cache:             store,
	}

	authService, err := newAuthService(cfg.Auth)
	switch {
	case err != nil:
		logger.Warn("authentication unavailable, protected routes will reject every request", "error", err)
	case authService != nil:
		app.deps.AuthService = authService
	}

	app.server = api.NewServer(addr, cfg)
	app.server.SetDependencies(app.deps)
	if err := app.server.Initialize(); err != nil {
		app.close()
		return nil, fmt.Errorf("initialize server: %w", err)
	}
	return app, nil
}

// newAuthService errors when neither a JWKS URL nor dev auth is configured
func newAuthService(cfg config.AuthConfig) (*auth.Service, error) {
	if cfg.JWKSURL == "" && !cfg.DevAuthEnabled {
		return nil, errors.New("auth.jwks_url is not set and dev auth is disabled")
	}
	return auth.NewService(cfg.JWKSURL, auth.WithDevAuth(cfg.DevAuthEnabled, cfg.DevAuthToken))
}

func downloadOptions(cfg config.YouTubeConfig) download.Options {
	opts := download.DefaultOptions()
	if cfg.FetchTimeout > 0 {
		opts.Timeout = cfg.FetchTimeout
	}
	if cfg.UserAgent != "" {
		opts.UserAgent = cfg.UserAgent
	}
	if cfg.RetryAttempts > 0 {
		opts.Retry.MaxRetries = cfg.RetryAttempts
	}
	opts.Proxies = cfg.Proxies
	return opts
}

// start recovers jobs left over by a previous process and launches the
// background workers. They outlive ctx and are stopped by shutdown.
func (a *application) start(ctx context.Context) error {
	if _, err := a.deps.JobService.FailInterruptedJobs(ctx); err != nil {
		return fmt.Errorf("recover interrupted jobs: %w", err)
	}

	background := context.WithoutCancel(ctx)
	if err := a.pool.Start(background); err != nil {
		return err
	}
	a.cleanup.Start(background)
	return nil
}

// shutdown stops the HTTP server first so no new jobs arrive, then drains
// the workers
func (a *application) shutdown(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown: %w", err))
		}
	}
	if a.pool != nil {
		if err := a.pool.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.cleanup != nil {
		a.cleanup.Stop()
	}
	a.close()
	return errors.Join(errs...)
}

func (a *application) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("failed to close cache", "error", err)
		}
		a.cache = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
		a.db = nil
	}
}
