// Package youtube classifies free-form input into YouTube video or channel identifiers.
// Everything here is pure string matching; nothing performs I/O.
package youtube

import (
	"fmt"
	"regexp"
	"strings"
)

// ChannelType identifies which kind of channel reference matched
type ChannelType string

const (
	ChannelTypeHandle    ChannelType = "handle"
	ChannelTypeID        ChannelType = "channel_id"
	ChannelTypeCustomURL ChannelType = "custom_url"
	ChannelTypeUser      ChannelType = "user"
)

// InputKind is the result of Classify
type InputKind string

const (
	KindVideo   InputKind = "video"
	KindChannel InputKind = "channel"
	KindUnknown InputKind = "unknown"
)

// ChannelRef is a matched channel reference
type ChannelRef struct {
	Type  ChannelType `json:"type"`
	Value string      `json:"value"`
}

var (
	bareVideoID = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

	videoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	}

	channelPatterns = []struct {
		kind    ChannelType
		pattern *regexp.Regexp
	}{
		{ChannelTypeHandle, regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_.\-]+)`)},
		{ChannelTypeID, regexp.MustCompile(`youtube\.com/channel/(UC[a-zA-Z0-9_-]{22})`)},
		{ChannelTypeCustomURL, regexp.MustCompile(`youtube\.com/c/([a-zA-Z0-9_.\-]+)`)},
		{ChannelTypeUser, regexp.MustCompile(`youtube\.com/user/([a-zA-Z0-9_.\-]+)`)},
		{ChannelTypeHandle, regexp.MustCompile(`^@([a-zA-Z0-9_.\-]+)$`)},
		{ChannelTypeID, regexp.MustCompile(`^(UC[a-zA-Z0-9_-]{22})$`)},
	}
)

// ExtractVideoID returns the 11 character video id contained in input.
// A bare id is accepted as-is; otherwise the known URL shapes are tried in order.
func ExtractVideoID(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	if bareVideoID.MatchString(trimmed) {
		return trimmed, true
	}

	for _, pattern := range videoPatterns {
		if m := pattern.FindStringSubmatch(trimmed); len(m) > 1 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// ParseChannelURL matches input against the channel patterns; first match wins.
// "@" without an identifier never matches.
func ParseChannelURL(input string) (ChannelRef, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ChannelRef{}, false
	}

	for _, p := range channelPatterns {
		m := p.pattern.FindStringSubmatch(trimmed)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		return ChannelRef{Type: p.kind, Value: m[1]}, true
	}
	return ChannelRef{}, false
}

// IsChannelURL reports whether input names a channel
func IsChannelURL(input string) bool {
	_, ok := ParseChannelURL(input)
	return ok
}

// Classify checks the video patterns first and the channel patterns independently after.
// A string accepted as a video is never reported as a channel.
func Classify(input string) InputKind {
	if _, ok := ExtractVideoID(input); ok {
		return KindVideo
	}
	if IsChannelURL(input) {
		return KindChannel
	}
	return KindUnknown
}

// CanonicalURL renders the reference as a youtube.com channel URL
func (r ChannelRef) CanonicalURL() string {
	switch r.Type {
	case ChannelTypeHandle:
		return "https://www.youtube.com/@" + r.Value
	case ChannelTypeID:
		return "https://www.youtube.com/channel/" + r.Value
	case ChannelTypeCustomURL:
		return "https://www.youtube.com/c/" + r.Value
	case ChannelTypeUser:
		return "https://www.youtube.com/user/" + r.Value
	default:
		return ""
	}
}

// VideosURL is the channel's uploads tab
func (r ChannelRef) VideosURL() string {
	base := r.CanonicalURL()
	if base == "" {
		return ""
	}
	return base + "/videos"
}

func (r ChannelRef) String() string {
	return fmt.Sprintf("%s:%s", r.Type, r.Value)
}

// ThumbnailURL returns the hqdefault thumbnail for a video id
func ThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}

// VideoURL returns the watch page URL for a video id
func VideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
