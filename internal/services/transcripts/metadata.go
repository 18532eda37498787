package transcripts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// Metadata describes a video for display and for the saved library
type Metadata struct {
	VideoID         string `json:"videoId"`
	Title           string `json:"title"`
	ChannelName     string `json:"channelName"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	DurationSeconds int    `json:"durationSeconds"`
}

// DefaultMetadata is returned when no source could describe the video
func DefaultMetadata(videoID string) *Metadata {
	return &Metadata{
		VideoID:         videoID,
		Title:           fmt.Sprintf("YouTube Video (%s)", videoID),
		ChannelName:     "Unknown Channel",
		ThumbnailURL:    youtube.ThumbnailURL(videoID),
		DurationSeconds: 0,
	}
}

type dataAPIVideos struct {
	Items []struct {
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// FetchMetadata is best-effort: it uses the Data API when a key is configured,
// oEmbed otherwise, and falls back to DefaultMetadata on any failure
func (s *service) FetchMetadata(ctx context.Context, videoID string) *Metadata {
	if s.apiKey != "" {
		meta, err := s.metadataFromDataAPI(ctx, videoID)
		if err == nil {
			return meta
		}
		s.logger.Debug("data api metadata lookup failed", "video_id", videoID, "error", err)
	}

	meta, err := s.metadataFromOEmbed(ctx, videoID)
	if err == nil {
		return meta
	}
	s.logger.Debug("oembed metadata lookup failed", "video_id", videoID, "error", err)
	return DefaultMetadata(videoID)
}

func (s *service) metadataFromDataAPI(ctx context.Context, videoID string) (*Metadata, error) {
	params := url.Values{}
	params.Set("id", videoID)
	params.Set("part", "snippet,contentDetails")
	params.Set("key", s.apiKey)

	body, err := s.client.Get(ctx, s.apiBaseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var resp dataAPIVideos
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode videos response: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: video %s not returned by data api", ErrVideoUnavailable, videoID)
	}

	item := resp.Items[0]
	meta := DefaultMetadata(videoID)
	if item.Snippet.Title != "" {
		meta.Title = item.Snippet.Title
	}
	if item.Snippet.ChannelTitle != "" {
		meta.ChannelName = item.Snippet.ChannelTitle
	}
	if item.Snippet.Thumbnails.High.URL != "" {
		meta.ThumbnailURL = item.Snippet.Thumbnails.High.URL
	}
	meta.DurationSeconds = youtube.ParseISODuration(item.ContentDetails.Duration)
	return meta, nil
}

func (s *service) metadataFromOEmbed(ctx context.Context, videoID string) (*Metadata, error) {
	params := url.Values{}
	params.Set("url", youtube.VideoURL(videoID))
	params.Set("format", "json")

	body, err := s.client.Get(ctx, s.baseURL+"/oembed?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var resp oembedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode oembed response: %w", err)
	}

	meta := DefaultMetadata(videoID)
	if resp.Title != "" {
		meta.Title = resp.Title
	}
	if resp.AuthorName != "" {
		meta.ChannelName = resp.AuthorName
	}
	if resp.ThumbnailURL != "" {
		meta.ThumbnailURL = resp.ThumbnailURL
	}
	return meta, nil
}
