package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/internal/services/channels"
	"github.com/killallgit/transcriptflow-api/internal/services/jobs"
	"github.com/killallgit/transcriptflow-api/internal/services/transcripts"
	"github.com/killallgit/transcriptflow-api/internal/services/usage"
)

// DefaultThrottle is the pause between two consecutive videos of a batch
const DefaultThrottle = 500 * time.Millisecond

// TranscriptFetcher fetches the transcript of a single video
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*transcripts.Result, error)
}

// UsageTracker records consumed quota
type UsageTracker interface {
	TrackUsage(ctx context.Context, caller usage.Caller, action models.ActionType, videoCount int)
}

// Option configures the orchestrator
type Option func(*Orchestrator)

// WithThrottle overrides the delay between videos
func WithThrottle(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.throttle = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator runs channel batch extractions. It holds no job state: every
// transition is written to the job store before the next step begins.
type Orchestrator struct {
	store    jobs.Service
	resolver channels.Resolver
	fetcher  TranscriptFetcher
	usage    UsageTracker
	throttle time.Duration
	logger   *slog.Logger
}

// New creates an orchestrator
func New(store jobs.Service, resolver channels.Resolver, fetcher TranscriptFetcher, tracker UsageTracker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		resolver: resolver,
		fetcher:  fetcher,
		usage:    tracker,
		throttle: DefaultThrottle,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run is the state of one execution
type run struct {
	job     *models.ChannelJob
	logger  *slog.Logger
	results models.ResultList

	// progress is the working snapshot, persisted the last one the store accepted
	progress  models.Progress
	persisted models.Progress
}

// Run executes the job to a terminal state. The returned error reports an
// orchestration fault; per-video failures are recorded in the results and a
// cancelled job returns nil.
func (o *Orchestrator) Run(ctx context.Context, job *models.ChannelJob) (err error) {
	// store writes must land even while the parent context is being torn down
	storeCtx := context.WithoutCancel(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	o.store.RegisterHandle(job.ID, cancel)
	defer o.store.ClearHandle(job.ID)

	r := &run{
		job:     job,
		logger:  o.logger.With("job_id", job.ID, "user_id", job.UserID),
		results: models.ResultList{},
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during channel extraction: %v", rec)
			o.fail(storeCtx, r, err.Error())
		}
	}()

	start := time.Now()
	r.logger.Info("channel extraction started", "url", job.URL, "limit", job.Limit)

	err = o.execute(ctx, runCtx, storeCtx, r)
	if err != nil {
		if isDetached(err) {
			r.logger.Info("channel job finished elsewhere, stopping", "reason", err)
			o.trackBatch(storeCtx, r)
			return nil
		}
		o.fail(storeCtx, r, err.Error())
		return err
	}

	r.logger.Info("channel extraction finished",
		"status", r.persisted.Status,
		"success", r.persisted.SuccessCount,
		"failed", r.persisted.FailedCount,
		"duration", time.Since(start))
	return nil
}

func (o *Orchestrator) execute(ctx, runCtx, storeCtx context.Context, r *run) error {
	r.progress = models.Progress{Status: models.JobStatusFetchingVideos}
	if err := o.saveProgress(storeCtx, r); err != nil {
		return err
	}

	channelID, err := o.resolver.ResolveChannelID(runCtx, r.job.URL)
	if err != nil {
		if cancelled(ctx, runCtx) {
			return o.cancel(storeCtx, r)
		}
		return fmt.Errorf("Could not resolve channel: %s", resolveMessage(err))
	}

	info, err := o.resolver.GetChannelInfo(runCtx, channelID)
	if err != nil {
		if cancelled(ctx, runCtx) {
			return o.cancel(storeCtx, r)
		}
		return fmt.Errorf("Could not load channel info: %w", err)
	}

	videos, err := o.resolver.GetChannelVideos(runCtx, channelID, r.job.Limit)
	if err != nil {
		if cancelled(ctx, runCtx) {
			return o.cancel(storeCtx, r)
		}
		return fmt.Errorf("Could not list channel videos: %w", err)
	}
	if len(videos) > r.job.Limit {
		videos = videos[:r.job.Limit]
	}

	r.progress.TotalVideos = len(videos)
	if len(videos) == 0 {
		r.progress.Status = models.JobStatusCompleted
	} else {
		r.progress.Status = models.JobStatusProcessing
	}
	if _, err := o.store.UpdateJob(storeCtx, r.job.ID, jobs.JobUpdate{
		ChannelInfo: info,
		Videos:      models.VideoList(videos),
		Progress:    &r.progress,
	}); err != nil {
		return err
	}
	r.persisted = r.progress
	if len(videos) == 0 {
		r.logger.Info("channel has no videos")
		return nil
	}

	for i, video := range videos {
		// cancellation is only observed here, never mid-fetch
		if runCtx.Err() != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("channel extraction interrupted: %w", ctx.Err())
			}
			return o.cancel(storeCtx, r)
		}

		r.progress.Status = models.JobStatusProcessing
		r.progress.CurrentVideoIndex = i
		r.progress.CurrentVideoTitle = video.Title
		if err := o.saveProgress(storeCtx, r); err != nil {
			return err
		}

		result := o.extractVideo(ctx, r, video)
		if ctx.Err() != nil {
			return fmt.Errorf("channel extraction interrupted: %w", ctx.Err())
		}

		r.results = append(r.results, result)
		if result.Succeeded() {
			r.progress.SuccessCount++
		} else {
			r.progress.FailedCount++
		}
		r.progress.CurrentVideoIndex = i + 1

		if _, err := o.store.UpdateJob(storeCtx, r.job.ID, jobs.JobUpdate{
			Results:  r.results,
			Progress: &r.progress,
		}); err != nil {
			return err
		}
		r.persisted = r.progress

		if i < len(videos)-1 && o.throttle > 0 {
			select {
			case <-time.After(o.throttle):
			case <-runCtx.Done():
			}
		}
	}

	r.progress.Status = models.JobStatusCompleted
	r.progress.CurrentVideoIndex = r.progress.TotalVideos
	r.progress.CurrentVideoTitle = ""
	if err := o.saveProgress(storeCtx, r); err != nil {
		return err
	}
	o.trackBatch(storeCtx, r)
	return nil
}

func (o *Orchestrator) extractVideo(ctx context.Context, r *run, video models.VideoInfo) models.VideoResult {
	logger := r.logger.With("video_id", video.VideoID)

	res, err := o.fetcher.Fetch(ctx, video.VideoID)
	if err != nil {
		reason := ClassifyFailure(err)
		logger.Warn("video transcript failed", "reason", reason, "error", err)
		return models.VideoResult{
			Video: video,
			Error: &models.ResultError{Reason: reason, Message: failureMessage(err)},
		}
	}

	logger.Debug("video transcript extracted", "segments", len(res.Segments), "cached", res.Cached)
	return models.VideoResult{
		Video: video,
		Transcript: &models.TranscriptPayload{
			Segments:   res.Segments,
			PlainText:  res.Transcript,
			SRTContent: res.SRT,
			WordCount:  res.WordCount,
		},
	}
}

// cancel records the cancelled state with the attempted count as index
func (o *Orchestrator) cancel(storeCtx context.Context, r *run) error {
	r.progress = r.persisted
	r.progress.Status = models.JobStatusCancelled
	r.progress.CurrentVideoTitle = ""
	if err := o.saveProgress(storeCtx, r); err != nil && !isDetached(err) {
		return err
	}
	r.logger.Info("channel extraction cancelled", "attempted", r.persisted.CurrentVideoIndex)
	o.trackBatch(storeCtx, r)
	return nil
}

// fail moves the job to error keeping the last persisted counters
func (o *Orchestrator) fail(storeCtx context.Context, r *run, message string) {
	r.progress = r.persisted
	r.progress.Status = models.JobStatusError
	r.progress.Error = message
	r.progress.CurrentVideoTitle = ""

	if _, err := o.store.UpdateJobProgress(storeCtx, r.job.ID, r.progress); err != nil {
		if !isDetached(err) {
			r.logger.Error("failed to record channel extraction error", "error", err, "message", message)
		}
		return
	}
	r.persisted = r.progress
	r.logger.Error("channel extraction failed", "error", message)
}

func (o *Orchestrator) saveProgress(storeCtx context.Context, r *run) error {
	if _, err := o.store.UpdateJobProgress(storeCtx, r.job.ID, r.progress); err != nil {
		return err
	}
	r.persisted = r.progress
	return nil
}

// trackBatch records the stored successes of a completed or cancelled batch once
func (o *Orchestrator) trackBatch(ctx context.Context, r *run) {
	if o.usage == nil || r.job.UserID == "" || r.persisted.SuccessCount == 0 {
		return
	}
	o.usage.TrackUsage(ctx, usage.Caller{UserID: r.job.UserID}, models.ActionChannelExtraction, r.persisted.SuccessCount)
}

// ClassifyFailure maps a per-video fetch error to a result reason
func ClassifyFailure(err error) models.ResultReason {
	if errors.Is(err, transcripts.ErrNoTranscript) {
		return models.ReasonNoTranscript
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "no transcript") || strings.Contains(msg, "disabled") {
		return models.ReasonNoTranscript
	}
	return models.ReasonError
}

func failureMessage(err error) string {
	if kind := transcripts.Classify(err); kind != transcripts.KindUnknown {
		return transcripts.UserMessage(kind)
	}
	return err.Error()
}

func resolveMessage(err error) string {
	switch {
	case errors.Is(err, channels.ErrInvalidChannelURL):
		return "invalid channel URL"
	case errors.Is(err, channels.ErrChannelNotFound):
		return "channel not found"
	}
	return err.Error()
}

// isDetached reports that the row was cancelled or deleted by someone else,
// so this run no longer owns it
func isDetached(err error) bool {
	return errors.Is(err, jobs.ErrJobTerminal) || errors.Is(err, jobs.ErrJobNotFound)
}

// cancelled reports a cancel through the job handle rather than parent teardown
func cancelled(parent, runCtx context.Context) bool {
	return runCtx.Err() != nil && parent.Err() == nil
}
