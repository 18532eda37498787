package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/transcriptflow-api/internal/models"
	"github.com/killallgit/transcriptflow-api/pkg/download"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
)

// maxPageSize is the Data API's per-request ceiling for list calls
const maxPageSize = 50

type thumbnails struct {
	High    *struct{ URL string `json:"url"` } `json:"high"`
	Default *struct{ URL string `json:"url"` } `json:"default"`
}

func (t thumbnails) best() string {
	if t.High != nil && t.High.URL != "" {
		return t.High.URL
	}
	if t.Default != nil {
		return t.Default.URL
	}
	return ""
}

type channelsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string     `json:"title"`
			Description string     `json:"description"`
			CustomURL   string     `json:"customUrl"`
			Thumbnails  thumbnails `json:"thumbnails"`
		} `json:"snippet"`
		Statistics *struct {
			VideoCount            string `json:"videoCount"`
			SubscriberCount       string `json:"subscriberCount"`
			HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
		} `json:"statistics"`
		ContentDetails *struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type searchResponse struct {
	Items []struct {
		ID struct {
			ChannelID string `json:"channelId"`
		} `json:"id"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	Items []struct {
		Snippet struct {
			Title       string     `json:"title"`
			PublishedAt string     `json:"publishedAt"`
			Thumbnails  thumbnails `json:"thumbnails"`
			ResourceID  struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails *struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
	NextPageToken string `json:"nextPageToken"`
}

type videosResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// DataAPIResolver resolves channels through the YouTube Data API v3
type DataAPIResolver struct {
	client  HTTPClient
	baseURL string
	apiKey  string
	logger  *slog.Logger

	// uploads playlist ids learned from GetChannelInfo
	uploads sync.Map
}

// NewDataAPIResolver creates a Data API backed resolver
func NewDataAPIResolver(client HTTPClient, baseURL, apiKey string, logger *slog.Logger) *DataAPIResolver {
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DataAPIResolver{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

func (r *DataAPIResolver) ResolveChannelID(ctx context.Context, input string) (string, error) {
	ref, ok := youtube.ParseChannelURL(input)
	if !ok {
		return "", ErrInvalidChannelURL
	}
	if ref.Type == youtube.ChannelTypeID {
		return ref.Value, nil
	}

	params := url.Values{}
	params.Set("part", "id")
	if ref.Type == youtube.ChannelTypeHandle {
		params.Set("forHandle", ref.Value)
	} else {
		params.Set("forUsername", ref.Value)
	}

	var resp channelsResponse
	if err := r.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) > 0 {
		return resp.Items[0].ID, nil
	}

	// custom URLs and renamed handles are only reachable through search
	query := ref.Value
	if ref.Type == youtube.ChannelTypeHandle {
		query = "@" + ref.Value
	}
	search := url.Values{}
	search.Set("part", "id")
	search.Set("type", "channel")
	search.Set("maxResults", "1")
	search.Set("q", query)

	var found searchResponse
	if err := r.get(ctx, "search", search, &found); err != nil {
		return "", err
	}
	if len(found.Items) > 0 && found.Items[0].ID.ChannelID != "" {
		return found.Items[0].ID.ChannelID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrChannelNotFound, ref)
}

func (r *DataAPIResolver) GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	params := url.Values{}
	params.Set("id", channelID)
	params.Set("part", "snippet,statistics,contentDetails")

	var resp channelsResponse
	if err := r.get(ctx, "channels", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}

	item := resp.Items[0]
	info := &models.ChannelInfo{
		ID:           item.ID,
		Name:         item.Snippet.Title,
		Handle:       item.Snippet.CustomURL,
		ThumbnailURL: item.Snippet.Thumbnails.best(),
		Description:  item.Snippet.Description,
	}
	if stats := item.Statistics; stats != nil {
		info.VideoCount, _ = strconv.Atoi(stats.VideoCount)
		if !stats.HiddenSubscriberCount {
			if n, err := strconv.ParseInt(stats.SubscriberCount, 10, 64); err == nil {
				info.SubscriberCount = &n
			}
		}
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists.Uploads != "" {
		r.uploads.Store(channelID, item.ContentDetails.RelatedPlaylists.Uploads)
	}
	return info, nil
}

func (r *DataAPIResolver) GetChannelVideos(ctx context.Context, channelID string, limit int) ([]models.VideoInfo, error) {
	if limit <= 0 {
		return []models.VideoInfo{}, nil
	}

	playlistID, err := r.uploadsPlaylist(ctx, channelID)
	if err != nil {
		return nil, err
	}

	videos := make([]models.VideoInfo, 0, limit)
	pageToken := ""
	for len(videos) < limit {
		params := url.Values{}
		params.Set("playlistId", playlistID)
		params.Set("part", "snippet,contentDetails")
		params.Set("maxResults", strconv.Itoa(min(maxPageSize, limit-len(videos))))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page playlistItemsResponse
		if err := r.get(ctx, "playlistItems", params, &page); err != nil {
			return nil, fmt.Errorf("listing uploads: %w", err)
		}
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			if len(videos) >= limit {
				break
			}
			videoID := item.Snippet.ResourceID.VideoID
			if item.ContentDetails != nil && item.ContentDetails.VideoID != "" {
				videoID = item.ContentDetails.VideoID
			}
			video := models.VideoInfo{
				VideoID:      videoID,
				Title:        item.Snippet.Title,
				ThumbnailURL: item.Snippet.Thumbnails.best(),
			}
			if video.ThumbnailURL == "" {
				video.ThumbnailURL = youtube.ThumbnailURL(videoID)
			}
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				video.PublishedAt = &t
			}
			videos = append(videos, video)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}

	r.fillDurations(ctx, videos)
	return videos, nil
}

func (r *DataAPIResolver) uploadsPlaylist(ctx context.Context, channelID string) (string, error) {
	if v, ok := r.uploads.Load(channelID); ok {
		return v.(string), nil
	}

	params := url.Values{}
	params.Set("id", channelID)
	params.Set("part", "contentDetails")

	var resp channelsResponse
	if err := r.get(ctx, "channels", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, channelID)
	}
	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("could not find uploads playlist for %s", channelID)
	}
	r.uploads.Store(channelID, details.RelatedPlaylists.Uploads)
	return details.RelatedPlaylists.Uploads, nil
}

// fillDurations is best-effort; a failed lookup leaves durations unset
func (r *DataAPIResolver) fillDurations(ctx context.Context, videos []models.VideoInfo) {
	index := make(map[string]int, len(videos))
	for i, v := range videos {
		index[v.VideoID] = i
	}

	for start := 0; start < len(videos); start += maxPageSize {
		end := min(start+maxPageSize, len(videos))
		ids := make([]string, 0, end-start)
		for _, v := range videos[start:end] {
			ids = append(ids, v.VideoID)
		}

		params := url.Values{}
		params.Set("id", strings.Join(ids, ","))
		params.Set("part", "contentDetails")

		var resp videosResponse
		if err := r.get(ctx, "videos", params, &resp); err != nil {
			r.logger.Debug("video duration lookup failed", "error", err)
			return
		}
		for _, item := range resp.Items {
			i, ok := index[item.ID]
			if !ok {
				continue
			}
			seconds := youtube.ParseISODuration(item.ContentDetails.Duration)
			videos[i].DurationSeconds = &seconds
		}
	}
}

func (r *DataAPIResolver) get(ctx context.Context, endpoint string, params url.Values, dest any) error {
	params.Set("key", r.apiKey)
	body, err := r.client.Get(ctx, r.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		if download.StatusCode(err) == http.StatusForbidden {
			return fmt.Errorf("youtube api access denied, check the api key and that the data api is enabled: %w", err)
		}
		return fmt.Errorf("youtube api %s: %w", endpoint, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
