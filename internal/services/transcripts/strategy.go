package transcripts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// Strategy is one way of obtaining caption segments for a video
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error)
}

// StrategyFunc adapts a function to the Strategy interface
type StrategyFunc struct {
	Label string
	Fn    func(ctx context.Context, videoID string) ([]transcript.Segment, error)
}

func (s StrategyFunc) Name() string { return s.Label }

func (s StrategyFunc) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	return s.Fn(ctx, videoID)
}

// playerResponse is the subset of the player payload used to find captions,
// shared by the watch page and the innertube endpoint
type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	VideoDetails *struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// tracks validates playability and returns the caption tracks
func (p *playerResponse) tracks() ([]captionTrack, error) {
	if p.PlayabilityStatus != nil {
		switch p.PlayabilityStatus.Status {
		case "ERROR", "LOGIN_REQUIRED", "UNPLAYABLE":
			reason := p.PlayabilityStatus.Reason
			if reason == "" {
				reason = strings.ToLower(p.PlayabilityStatus.Status)
			}
			return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, reason)
		}
	}
	if p.Captions == nil {
		return nil, fmt.Errorf("%w: no captions in player response", ErrNoTranscript)
	}
	tracks := p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks", ErrNoTranscript)
	}
	return tracks, nil
}

// needsPoToken reports whether a track URL only works inside a browser session
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

var errPoTokenOnly = errors.New("all caption tracks require a browser PoToken")

// pickTrack prefers a manual track in a preferred language, then an
// auto-generated one, then any English track, then the first usable track
func pickTrack(tracks []captionTrack, langs []string) (captionTrack, error) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, errPoTokenOnly
	}

	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != "asr" {
				return t, nil
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, nil
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, nil
		}
	}
	return usable[0], nil
}

// withQuery sets a query parameter on a caption URL, replacing any existing
// value. Unparseable URLs are returned unchanged.
func withQuery(rawURL, key, value string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}

// extractJSON returns the JSON object starting at b[0] by tracking brace depth
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}
