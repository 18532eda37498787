package channels

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu    sync.Mutex
	calls []string
	ends  []int
	out   string
	err   error
}

func (f *fakeLister) FlatPlaylistJSON(ctx context.Context, sourceURL string, end int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sourceURL)
	f.ends = append(f.ends, end)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out), nil
}

const flatChannel = `{
  "id": "UCabcdefghijklmnopqrstuv",
  "channel": "Test Channel",
  "channel_id": "UCabcdefghijklmnopqrstuv",
  "title": "Test Channel - Videos",
  "uploader_id": "@known",
  "channel_follower_count": 42,
  "playlist_count": 310,
  "thumbnails": [
    {"id": "banner", "url": "https://img/banner.jpg"},
    {"id": "avatar_uncropped", "url": "https://img/avatar.jpg"}
  ],
  "entries": [
    {"id": "vid0", "title": "First", "duration": 61.5, "timestamp": 1704164645,
     "thumbnails": [{"url": "https://i/small.jpg"}, {"url": "https://i/big.jpg"}]},
    {"id": "", "title": "broken"},
    {"id": "vid1", "title": "Second", "upload_date": "20231231"},
    {"id": "vid2", "title": "Third"}
  ]
}`

func TestYtDlpResolveChannelID(t *testing.T) {
	lister := &fakeLister{out: flatChannel}
	r := NewYtDlpResolver(lister, nil)

	id, err := r.ResolveChannelID(context.Background(), "https://www.youtube.com/@known")
	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	assert.Equal(t, []string{"https://www.youtube.com/@known/videos"}, lister.calls)
	assert.Equal(t, []int{1}, lister.ends)

	// info was learned during resolution
	info, err := r.GetChannelInfo(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, lister.calls, 1)
	assert.Equal(t, "Test Channel", info.Name)
	assert.Equal(t, "@known", info.Handle)
	assert.Equal(t, "https://img/avatar.jpg", info.ThumbnailURL)
	assert.Equal(t, 310, info.VideoCount)
	require.NotNil(t, info.SubscriberCount)
	assert.Equal(t, int64(42), *info.SubscriberCount)
}

func TestYtDlpResolveChannelIDShortcut(t *testing.T) {
	lister := &fakeLister{}
	r := NewYtDlpResolver(lister, nil)

	id, err := r.ResolveChannelID(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
	assert.Empty(t, lister.calls)

	_, err = r.ResolveChannelID(context.Background(), "not a channel")
	assert.ErrorIs(t, err, ErrInvalidChannelURL)
}

func TestYtDlpResolveNotFound(t *testing.T) {
	r := NewYtDlpResolver(&fakeLister{err: errors.New("yt-dlp failed: exit status 1: ERROR: This channel does not exist.")}, nil)
	_, err := r.ResolveChannelID(context.Background(), "@gone")
	assert.ErrorIs(t, err, ErrChannelNotFound)

	r = NewYtDlpResolver(&fakeLister{out: `{"id":"","entries":[]}`}, nil)
	_, err = r.ResolveChannelID(context.Background(), "@empty")
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestYtDlpGetChannelVideos(t *testing.T) {
	lister := &fakeLister{out: flatChannel}
	r := NewYtDlpResolver(lister, nil)

	videos, err := r.GetChannelVideos(context.Background(), testChannelID, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.youtube.com/channel/" + testChannelID + "/videos"}, lister.calls)
	assert.Equal(t, []int{2}, lister.ends)

	require.Len(t, videos, 2)
	assert.Equal(t, "vid0", videos[0].VideoID)
	assert.Equal(t, "https://i/big.jpg", videos[0].ThumbnailURL)
	require.NotNil(t, videos[0].DurationSeconds)
	assert.Equal(t, 61, *videos[0].DurationSeconds)
	require.NotNil(t, videos[0].PublishedAt)
	assert.Equal(t, 2024, videos[0].PublishedAt.Year())

	assert.Equal(t, "vid1", videos[1].VideoID, "entries without an id are skipped")
	assert.Equal(t, "https://img.youtube.com/vi/vid1/hqdefault.jpg", videos[1].ThumbnailURL)
	require.NotNil(t, videos[1].PublishedAt)
	assert.Equal(t, 2023, videos[1].PublishedAt.Year())
	assert.Nil(t, videos[1].DurationSeconds)
}

func TestYtDlpGetChannelInfoFallsBackToListing(t *testing.T) {
	lister := &fakeLister{out: `{"id":"UCabcdefghijklmnopqrstuv","title":"Only Title - Videos","entries":[{"id":"a"}]}`}
	r := NewYtDlpResolver(lister, nil)

	info, err := r.GetChannelInfo(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, "Only Title", info.Name)
	assert.Equal(t, 1, info.VideoCount)
	assert.Nil(t, info.SubscriberCount)
}
