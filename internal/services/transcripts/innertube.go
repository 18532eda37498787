package transcripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

const (
	androidClientVersion = "20.10.38"
	androidUserAgent     = "com.google.android.youtube/" + androidClientVersion + " (Linux; U; Android 11) gzip"
)

type innertubeRequest struct {
	VideoID        string           `json:"videoId"`
	Context        innertubeContext `json:"context"`
	RacyCheckOk    bool             `json:"racyCheckOk"`
	ContentCheckOk bool             `json:"contentCheckOk"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// innertubeStrategy asks the player endpoint as the ANDROID client and
// fetches the chosen track as timedtext XML
type innertubeStrategy struct {
	client  HTTPClient
	baseURL string
	langs   []string
}

func newInnertubeStrategy(client HTTPClient, baseURL string, langs []string) *innertubeStrategy {
	return &innertubeStrategy{client: client, baseURL: baseURL, langs: langs}
}

func (s *innertubeStrategy) Name() string { return "innertube" }

func (s *innertubeStrategy) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	payload := innertubeRequest{
		VideoID: videoID,
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     androidClientVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	}

	header := http.Header{}
	header.Set("User-Agent", androidUserAgent)
	header.Set("X-Youtube-Client-Name", "3")
	header.Set("X-Youtube-Client-Version", androidClientVersion)

	body, err := s.client.PostJSON(ctx, s.baseURL+"/youtubei/v1/player?prettyPrint=false", payload, header)
	if err != nil {
		return nil, fmt.Errorf("android innertube: %w", err)
	}

	var player playerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	tracks, err := player.tracks()
	if err != nil {
		return nil, err
	}
	track, err := pickTrack(tracks, s.langs)
	if err != nil {
		return nil, err
	}

	data, err := s.client.Get(ctx, track.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}
	segments, err := transcript.ParseTimedText(data)
	if err != nil {
		if errors.Is(err, transcript.ErrNoSegments) {
			return nil, fmt.Errorf("%w: empty timedtext", ErrNoTranscript)
		}
		return nil, err
	}
	return segments, nil
}
