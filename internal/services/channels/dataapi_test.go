package channels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/pkg/download"
)

const testChannelID = "UCabcdefghijklmnopqrstuv"

func testDownloader(t *testing.T) *download.Downloader {
	t.Helper()
	opts := download.DefaultOptions()
	opts.RequestsPerSecond = 0
	opts.Retry = download.RetryConfig{MaxRetries: 0, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Multiplier: 1}
	d, err := download.NewDownloader(opts)
	require.NoError(t, err)
	return d
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// fakeDataAPI serves a channel with `uploads` videos split into pages of the
// requested size
func fakeDataAPI(t *testing.T, uploads int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var searches atomic.Int32
	mux := http.NewServeMux()

	mux.HandleFunc("/channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		q := r.URL.Query()
		switch {
		case q.Get("forHandle") == "known":
			writeJSON(w, map[string]any{"items": []any{map[string]any{"id": testChannelID}}})
		case q.Get("forHandle") != "" || q.Get("forUsername") != "":
			writeJSON(w, map[string]any{"items": []any{}})
		case q.Get("id") == testChannelID:
			writeJSON(w, map[string]any{"items": []any{map[string]any{
				"id": testChannelID,
				"snippet": map[string]any{
					"title":       "Test Channel",
					"description": "about",
					"customUrl":   "@known",
					"thumbnails":  map[string]any{"high": map[string]any{"url": "https://img/high.jpg"}},
				},
				"statistics": map[string]any{
					"videoCount":      strconv.Itoa(uploads),
					"subscriberCount": "1200",
				},
				"contentDetails": map[string]any{
					"relatedPlaylists": map[string]any{"uploads": "UUuploads"},
				},
			}}})
		default:
			writeJSON(w, map[string]any{"items": []any{}})
		}
	})

	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		searches.Add(1)
		if r.URL.Query().Get("q") == "@renamed" {
			writeJSON(w, map[string]any{"items": []any{map[string]any{"id": map[string]any{"channelId": testChannelID}}}})
			return
		}
		writeJSON(w, map[string]any{"items": []any{}})
	})

	mux.HandleFunc("/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UUuploads", r.URL.Query().Get("playlistId"))
		size, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		start, _ := strconv.Atoi(r.URL.Query().Get("pageToken"))
		end := min(start+size, uploads)

		items := []any{}
		for i := start; i < end; i++ {
			id := "vid" + strconv.Itoa(i)
			items = append(items, map[string]any{
				"snippet": map[string]any{
					"title":       "Video " + strconv.Itoa(i),
					"publishedAt": "2024-01-02T03:04:05Z",
					"resourceId":  map[string]any{"videoId": id},
				},
				"contentDetails": map[string]any{"videoId": id},
			})
		}
		resp := map[string]any{"items": items}
		if end < uploads {
			resp["nextPageToken"] = strconv.Itoa(end)
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{
			map[string]any{"id": "vid0", "contentDetails": map[string]any{"duration": "PT1M30S"}},
		}})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &searches
}

func TestDataAPIResolveChannelID(t *testing.T) {
	server, searches := fakeDataAPI(t, 0)
	r := NewDataAPIResolver(testDownloader(t), server.URL, "test-key", nil)
	ctx := context.Background()

	t.Run("channel id needs no lookup", func(t *testing.T) {
		id, err := r.ResolveChannelID(ctx, "https://www.youtube.com/channel/"+testChannelID)
		require.NoError(t, err)
		assert.Equal(t, testChannelID, id)
	})

	t.Run("handle", func(t *testing.T) {
		id, err := r.ResolveChannelID(ctx, "https://www.youtube.com/@known")
		require.NoError(t, err)
		assert.Equal(t, testChannelID, id)
		assert.Zero(t, searches.Load())
	})

	t.Run("search fallback", func(t *testing.T) {
		id, err := r.ResolveChannelID(ctx, "@renamed")
		require.NoError(t, err)
		assert.Equal(t, testChannelID, id)
		assert.Equal(t, int32(1), searches.Load())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := r.ResolveChannelID(ctx, "https://www.youtube.com/c/nobody")
		assert.ErrorIs(t, err, ErrChannelNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := r.ResolveChannelID(ctx, "https://example.com/@x")
		assert.ErrorIs(t, err, ErrInvalidChannelURL)
	})
}

func TestDataAPIGetChannelInfo(t *testing.T) {
	server, _ := fakeDataAPI(t, 3)
	r := NewDataAPIResolver(testDownloader(t), server.URL, "test-key", nil)

	info, err := r.GetChannelInfo(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, "Test Channel", info.Name)
	assert.Equal(t, "@known", info.Handle)
	assert.Equal(t, "https://img/high.jpg", info.ThumbnailURL)
	assert.Equal(t, 3, info.VideoCount)
	require.NotNil(t, info.SubscriberCount)
	assert.Equal(t, int64(1200), *info.SubscriberCount)

	_, err = r.GetChannelInfo(context.Background(), "UCmissingmissingmissing1")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestDataAPIGetChannelVideosPaginates(t *testing.T) {
	server, _ := fakeDataAPI(t, 120)
	r := NewDataAPIResolver(testDownloader(t), server.URL, "test-key", nil)

	videos, err := r.GetChannelVideos(context.Background(), testChannelID, 75)
	require.NoError(t, err)
	require.Len(t, videos, 75)
	assert.Equal(t, "vid0", videos[0].VideoID)
	assert.Equal(t, "vid74", videos[74].VideoID)
	assert.Equal(t, "https://img.youtube.com/vi/vid1/hqdefault.jpg", videos[1].ThumbnailURL)
	require.NotNil(t, videos[0].PublishedAt)
	assert.Equal(t, 2024, videos[0].PublishedAt.Year())

	require.NotNil(t, videos[0].DurationSeconds)
	assert.Equal(t, 90, *videos[0].DurationSeconds)
	assert.Nil(t, videos[1].DurationSeconds)
}

func TestDataAPIGetChannelVideosFewerThanLimit(t *testing.T) {
	server, _ := fakeDataAPI(t, 2)
	r := NewDataAPIResolver(testDownloader(t), server.URL, "test-key", nil)

	videos, err := r.GetChannelVideos(context.Background(), testChannelID, 10)
	require.NoError(t, err)
	assert.Len(t, videos, 2)

	videos, err = r.GetChannelVideos(context.Background(), testChannelID, 0)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestDataAPIForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusForbidden)
	}))
	defer server.Close()

	r := NewDataAPIResolver(testDownloader(t), server.URL, "secret-key", nil)
	_, err := r.GetChannelInfo(context.Background(), testChannelID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.NotContains(t, err.Error(), "secret-key")
}
