package transcripts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/killallgit/transcriptflow-api/internal/services/cache"
	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// Service fetches transcripts for single videos
type Service interface {
	Fetch(ctx context.Context, videoID string) (*Result, error)
	FetchMetadata(ctx context.Context, videoID string) *Metadata
	FetchWithMetadata(ctx context.Context, videoID string) (*Result, *Metadata, error)
}

// Result is a fetched transcript with its derived renderings
type Result struct {
	VideoID    string               `json:"videoId"`
	Segments   []transcript.Segment `json:"segments"`
	Transcript string               `json:"transcript"`
	SRT        string               `json:"srtContent"`
	WordCount  int                  `json:"wordCount"`
	Source     string               `json:"source"`
	Cached     bool                 `json:"cached"`
}

// Config holds endpoints and behavior for the fetcher
type Config struct {
	BaseURL      string        // https://www.youtube.com
	APIBaseURL   string        // https://www.googleapis.com/youtube/v3
	APIKey       string        // Optional Data API key for metadata
	Languages    []string      // Caption language preference
	CacheTTL     time.Duration // Transcript cache lifetime
	FetchTimeout time.Duration // Per strategy timeout
}

// Option is a functional option for configuring the service
type Option func(*service)

// WithCache enables transcript caching
func WithCache(c cache.Cache) Option {
	return func(s *service) {
		s.cache = c
	}
}

// WithYtDlp appends the yt-dlp strategy when the binary is available
func WithYtDlp(runner SubtitleDownloader) Option {
	return func(s *service) {
		s.ytdlp = runner
	}
}

// WithStrategies replaces the default strategy list
func WithStrategies(strategies ...Strategy) Option {
	return func(s *service) {
		s.strategies = strategies
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

const cacheWriteTimeout = 5 * time.Second

type service struct {
	client     HTTPClient
	cache      cache.Cache
	ytdlp      SubtitleDownloader
	strategies []Strategy
	logger     *slog.Logger

	baseURL    string
	apiBaseURL string
	apiKey     string
	cacheTTL   time.Duration
	timeout    time.Duration

	// pending tracks asynchronous cache writes
	pending sync.WaitGroup
}

// NewService creates the transcript fetcher
func NewService(client HTTPClient, cfg Config, opts ...Option) Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.youtube.com"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en", "en-US", "en-GB"}
	}

	s := &service{
		client:     client,
		logger:     slog.Default(),
		baseURL:    cfg.BaseURL,
		apiBaseURL: cfg.APIBaseURL,
		apiKey:     cfg.APIKey,
		cacheTTL:   cfg.CacheTTL,
		timeout:    cfg.FetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.strategies == nil {
		s.strategies = []Strategy{
			newWatchPageStrategy(client, cfg.BaseURL, cfg.Languages),
			newInnertubeStrategy(client, cfg.BaseURL, cfg.Languages),
		}
		if s.ytdlp != nil && s.ytdlp.Available() {
			s.strategies = append(s.strategies, newYtDlpStrategy(s.ytdlp, cfg.Languages))
		}
	}
	return s
}

func cacheKey(videoID string) string {
	return "transcript:" + videoID
}

func (s *service) Fetch(ctx context.Context, videoID string) (*Result, error) {
	if videoID == "" {
		return nil, errors.New("video id is required")
	}

	if s.cache != nil {
		var cached Result
		found, err := cache.GetJSON(ctx, s.cache, cacheKey(videoID), &cached)
		if err != nil {
			s.logger.Warn("transcript cache read failed", "video_id", videoID, "error", err)
		}
		if found {
			cached.Cached = true
			return &cached, nil
		}
	}

	var errs []error
	for _, strategy := range s.strategies {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		segments, err := s.runStrategy(ctx, strategy, videoID)
		if err == nil {
			result := newResult(videoID, strategy.Name(), segments)
			s.writeBack(result)
			return result, nil
		}

		s.logger.Debug("transcript strategy failed", "video_id", videoID, "strategy", strategy.Name(), "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", strategy.Name(), err))

		// unavailable videos fail the same way everywhere
		if errors.Is(err, ErrVideoUnavailable) {
			break
		}
	}

	err := classify(errs)
	s.logger.Info("transcript fetch failed", "video_id", videoID, "kind", Classify(err).String())
	return nil, err
}

func (s *service) runStrategy(ctx context.Context, strategy Strategy, videoID string) ([]transcript.Segment, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return strategy.Fetch(ctx, videoID)
}

func newResult(videoID, source string, segments []transcript.Segment) *Result {
	text := transcript.PlainText(segments)
	return &Result{
		VideoID:    videoID,
		Segments:   segments,
		Transcript: text,
		SRT:        transcript.SRT(segments),
		WordCount:  transcript.WordCount(text),
		Source:     source,
	}
}

// writeBack stores the result without blocking the caller; failures are logged
func (s *service) writeBack(result *Result) {
	if s.cache == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := cache.SetJSON(ctx, s.cache, cacheKey(result.VideoID), result, s.cacheTTL); err != nil {
			s.logger.Warn("transcript cache write failed", "video_id", result.VideoID, "error", err)
		}
	}()
}

// FetchWithMetadata runs the transcript and metadata lookups concurrently.
// Metadata never fails the call.
func (s *service) FetchWithMetadata(ctx context.Context, videoID string) (*Result, *Metadata, error) {
	var (
		result *Result
		meta   *Metadata
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result, err = s.Fetch(gctx, videoID)
		return err
	})
	g.Go(func() error {
		meta = s.FetchMetadata(gctx, videoID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, meta, nil
}
