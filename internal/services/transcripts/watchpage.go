package transcripts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// HTTPClient is the outbound HTTP surface the strategies need
type HTTPClient interface {
	Get(ctx context.Context, url string, header http.Header) ([]byte, error)
	PostJSON(ctx context.Context, url string, payload any, header http.Header) ([]byte, error)
}

const playerResponseMarker = "ytInitialPlayerResponse = "

// watchPageStrategy scrapes ytInitialPlayerResponse from the watch page and
// fetches the chosen track as json3
type watchPageStrategy struct {
	client  HTTPClient
	baseURL string
	langs   []string
}

func newWatchPageStrategy(client HTTPClient, baseURL string, langs []string) *watchPageStrategy {
	return &watchPageStrategy{client: client, baseURL: baseURL, langs: langs}
}

func (s *watchPageStrategy) Name() string { return "watch_page" }

func (s *watchPageStrategy) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	header := http.Header{}
	header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	page, err := s.client.Get(ctx, s.baseURL+"/watch?v="+url.QueryEscape(videoID), header)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	player, err := parseWatchPage(page)
	if err != nil {
		return nil, err
	}
	tracks, err := player.tracks()
	if err != nil {
		return nil, err
	}
	track, err := pickTrack(tracks, s.langs)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, withQuery(track.BaseURL, "fmt", "json3"), nil)
	if err != nil {
		return nil, fmt.Errorf("caption track: %w", err)
	}
	segments, err := transcript.ParseJSON3(data)
	if err != nil {
		if errors.Is(err, transcript.ErrNoSegments) {
			return nil, fmt.Errorf("%w: empty caption track", ErrNoTranscript)
		}
		return nil, err
	}
	return segments, nil
}

func parseWatchPage(page []byte) (*playerResponse, error) {
	idx := bytes.Index(page, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(page[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("malformed ytInitialPlayerResponse")
	}
	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &player, nil
}
