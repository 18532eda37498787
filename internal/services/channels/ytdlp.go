package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// PlaylistLister is the part of the yt-dlp runner the resolver uses
type PlaylistLister interface {
	FlatPlaylistJSON(ctx context.Context, sourceURL string, end int) ([]byte, error)
}

type flatThumbnail struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type flatPlaylist struct {
	ID            string          `json:"id"`
	Channel       string          `json:"channel"`
	ChannelID     string          `json:"channel_id"`
	Title         string          `json:"title"`
	UploaderID    string          `json:"uploader_id"`
	FollowerCount *int64          `json:"channel_follower_count"`
	Description   string          `json:"description"`
	PlaylistCount int             `json:"playlist_count"`
	Thumbnails    []flatThumbnail `json:"thumbnails"`
	Entries       []flatEntry     `json:"entries"`
}

type flatEntry struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Duration   *float64        `json:"duration"`
	Timestamp  *int64          `json:"timestamp"`
	UploadDate string          `json:"upload_date"`
	Thumbnails []flatThumbnail `json:"thumbnails"`
}

// YtDlpResolver lists channels with `yt-dlp --flat-playlist -J`
type YtDlpResolver struct {
	runner PlaylistLister
	logger *slog.Logger

	mu    sync.Mutex
	infos map[string]*models.ChannelInfo
}

// NewYtDlpResolver creates a yt-dlp backed resolver
func NewYtDlpResolver(runner PlaylistLister, logger *slog.Logger) *YtDlpResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &YtDlpResolver{
		runner: runner,
		logger: logger,
		infos:  make(map[string]*models.ChannelInfo),
	}
}

func (r *YtDlpResolver) ResolveChannelID(ctx context.Context, input string) (string, error) {
	ref, ok := youtube.ParseChannelURL(input)
	if !ok {
		return "", ErrInvalidChannelURL
	}
	if ref.Type == youtube.ChannelTypeID {
		return ref.Value, nil
	}

	playlist, err := r.list(ctx, ref.VideosURL(), 1)
	if err != nil {
		return "", err
	}
	id := playlist.channelID()
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
	}
	r.remember(id, playlist)
	return id, nil
}

func (r *YtDlpResolver) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	r.mu.Lock()
	cached, ok := r.infos[channelID]
	r.mu.Unlock()
	if ok {
		info := *cached
		return &info, nil
	}

	playlist, err := r.list(ctx, channelVideosURL(channelID), 1)
	if err != nil {
		return nil, err
	}
	info := r.remember(channelID, playlist)
	copied := *info
	return &copied, nil
}

func (r *YtDlpResolver) GetChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoInfo, error) {
	if limit <= 0 {
		return []models.VideoInfo{}, nil
	}

	playlist, err := r.list(ctx, channelVideosURL(channelID), limit)
	if err != nil {
		return nil, err
	}
	r.remember(channelID, playlist)

	videos := make([]models.VideoInfo, 0, min(limit, len(playlist.Entries)))
	for _, entry := range playlist.Entries {
		if len(videos) >= limit {
			break
		}
		if entry.ID == "" {
			continue
		}
		videos = append(videos, entry.toVideo())
	}
	return videos, nil
}

func (r *YtDlpResolver) list(ctx context.Context, sourceURL string, end int) (*flatPlaylist, error) {
	r.logger.Debug("listing channel with yt-dlp", "url", sourceURL, "end", end)
	out, err := r.runner.FlatPlaylistJSON(ctx, sourceURL, end)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "does not exist") {
			return nil, fmt.Errorf("%w: %v", ErrChannelNotFound, err)
		}
		return nil, err
	}
	var playlist flatPlaylist
	if err := json.Unmarshal(out, &playlist); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return &playlist, nil
}

func (r *YtDlpResolver) remember(channelID string, playlist *flatPlaylist) *models.ChannelInfo {
	info := playlist.toInfo(channelID)
	r.mu.Lock()
	r.infos[channelID] = info
	r.mu.Unlock()
	return info
}

func channelVideosURL(channelID string) string {
	return youtube.ChannelRef{Type: youtube.ChannelTypeID, Value: channelID}.VideosURL()
}

func (p *flatPlaylist) channelID() string {
	if p.ChannelID != "" {
		return p.ChannelID
	}
	if strings.HasPrefix(p.ID, "UC") {
		return p.ID
	}
	return ""
}

func (p *flatPlaylist) toInfo(channelID string) *models.ChannelInfo {
	name := p.Channel
	if name == "" {
		name = strings.TrimSuffix(p.Title, " - Videos")
	}
	count := p.PlaylistCount
	if count == 0 {
		count = len(p.Entries)
	}
	info := &models.ChannelInfo{
		ID:              channelID,
		Name:            name,
		Handle:          p.UploaderID,
		ThumbnailURL:    channelThumbnail(p.Thumbnails),
		VideoCount:      count,
		SubscriberCount: p.FollowerCount,
		Description:     p.Description,
	}
	return info
}

func channelThumbnail(thumbs []flatThumbnail) string {
	for _, t := range thumbs {
		if t.ID == "avatar_uncropped" {
			return t.URL
		}
	}
	if len(thumbs) > 0 {
		return thumbs[len(thumbs)-1].URL
	}
	return ""
}

func (e flatEntry) toVideo() models.VideoInfo {
	video := models.VideoInfo{
		VideoID:      e.ID,
		Title:        e.Title,
		ThumbnailURL: youtube.ThumbnailURL(e.ID),
	}
	if len(e.Thumbnails) > 0 {
		video.ThumbnailURL = e.Thumbnails[len(e.Thumbnails)-1].URL
	}
	if e.Duration != nil {
		seconds := int(*e.Duration)
		video.DurationSeconds = &seconds
	}
	switch {
	case e.Timestamp != nil:
		t := time.Unix(*e.Timestamp, 0).UTC()
		video.PublishedAt = &t
	case e.UploadDate != "":
		if t, err := time.Parse("20060102", e.UploadDate); err == nil {
			video.PublishedAt = &t
		}
	}
	return video
}
