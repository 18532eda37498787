package channels

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/config"
	"github.com/killallgit/transcriptflow-api/pkg/ytdlp"
)

var (
	// ErrInvalidChannelURL indicates the input is not a recognizable channel reference
	ErrInvalidChannelURL = errors.New("invalid channel url")

	// ErrChannelNotFound indicates the reference did not resolve to a channel
	ErrChannelNotFound = errors.New("channel not found")

	// ErrAPIKeyRequired indicates the Data API backend was selected without a key
	ErrAPIKeyRequired = errors.New("youtube api key is required for the data api channel backend")
)

// Resolver turns a channel URL into a channel ID, its metadata and its most
// recent uploads (newest first)
type Resolver interface {
	ResolveChannelID(ctx context.Context, input string) (string, error)
	GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error)
	GetChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoInfo, error)
}

// HTTPClient is the outbound HTTP surface used by the Data API backend
type HTTPClient interface {
	Get(ctx context.Context, url string, header http.Header) ([]byte, error)
}

// New builds the resolver selected by youtube.channel_backend, with every call
// bounded by youtube.resolve_timeout
func New(cfg config.YouTubeConfig, client HTTPClient, runner *ytdlp.Runner, logger *slog.Logger) (Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend := cfg.ChannelBackend
	if backend == "" || backend == "auto" {
		backend = "ytdlp"
		if cfg.APIKey != "" {
			backend = "api"
		}
	}

	switch backend {
	case "api":
		if cfg.APIKey == "" {
			return nil, ErrAPIKeyRequired
		}
		resolver := NewDataAPIResolver(client, cfg.APIBaseURL, cfg.APIKey, logger)
		return WithTimeout(resolver, cfg.ResolveTimeout), nil
	case "ytdlp":
		if runner == nil {
			runner = ytdlp.New(cfg.YtDlpPath, cfg.YtDlpTimeout)
		}
		// the subprocess carries its own hard timeout; never cut it shorter
		timeout := cfg.ResolveTimeout
		if runner.Timeout > timeout {
			timeout = runner.Timeout
		}
		return WithTimeout(NewYtDlpResolver(runner, logger), timeout), nil
	default:
		return nil, fmt.Errorf("unsupported channel backend: %q", cfg.ChannelBackend)
	}
}

// WithTimeout wraps a resolver so every call carries its own deadline
func WithTimeout(r Resolver, timeout time.Duration) Resolver {
	if timeout <= 0 {
		return r
	}
	return &timeoutResolver{next: r, timeout: timeout}
}

type timeoutResolver struct {
	next    Resolver
	timeout time.Duration
}

func (t *timeoutResolver) ResolveChannelID(ctx context.Context, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.ResolveChannelID(ctx, input)
}

func (t *timeoutResolver) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GetChannelInfo(ctx, channelID)
}

func (t *timeoutResolver) GetChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.GetChannelVideos(ctx, channelID, limit)
}
