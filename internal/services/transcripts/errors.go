package transcripts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/killallgit/transcriptflow-api/pkg/download"
)

var (
	// ErrRateLimited indicates YouTube throttled the caller
	ErrRateLimited = errors.New("rate limited by youtube")

	// ErrNoTranscript indicates the video has no caption track
	ErrNoTranscript = errors.New("no transcript available for this video")

	// ErrVideoUnavailable indicates the video is private, removed or restricted
	ErrVideoUnavailable = errors.New("video unavailable")
)

// Kind classifies a fetch failure
type Kind int

const (
	KindUnknown Kind = iota
	KindRateLimited
	KindNoTranscript
	KindVideoUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindNoTranscript:
		return "no_transcript"
	case KindVideoUnavailable:
		return "video_unavailable"
	default:
		return "unknown"
	}
}

// Classify maps an error to a Kind. Sentinels win; otherwise the message is
// matched case-insensitively.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	switch {
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrNoTranscript):
		return KindNoTranscript
	case errors.Is(err, ErrVideoUnavailable):
		return KindVideoUnavailable
	case download.StatusCode(err) == http.StatusTooManyRequests:
		return KindRateLimited
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "rate limit"):
		return KindRateLimited
	case strings.Contains(msg, "no transcript"),
		strings.Contains(msg, "no captions"),
		strings.Contains(msg, "disabled"):
		return KindNoTranscript
	case strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "private"),
		strings.Contains(msg, "not available"),
		strings.Contains(msg, "restricted"):
		return KindVideoUnavailable
	}
	return KindUnknown
}

// UserMessage returns a message safe to show to API clients
func UserMessage(kind Kind) string {
	switch kind {
	case KindRateLimited:
		return "YouTube is temporarily limiting requests. Please try again in a few minutes."
	case KindNoTranscript:
		return "This video does not have captions or transcripts available."
	case KindVideoUnavailable:
		return "This video is unavailable. It may be private, deleted, or region-restricted."
	default:
		return "Failed to extract transcript. Please try again later."
	}
}

// classify turns the accumulated strategy errors into one error that wraps
// the matching sentinel
func classify(errs []error) error {
	if len(errs) == 0 {
		return ErrNoTranscript
	}
	joined := errors.Join(errs...)

	// a cancelled caller is not a transcript failure
	for _, err := range errs {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	kinds := make(map[Kind]bool, len(errs))
	for _, err := range errs {
		kinds[Classify(err)] = true
	}
	switch {
	case kinds[KindVideoUnavailable]:
		return &fetchError{sentinel: ErrVideoUnavailable, cause: joined}
	case kinds[KindRateLimited]:
		return &fetchError{sentinel: ErrRateLimited, cause: joined}
	case kinds[KindNoTranscript]:
		return &fetchError{sentinel: ErrNoTranscript, cause: joined}
	}
	return joined
}

type fetchError struct {
	sentinel error
	cause    error
}

func (e *fetchError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *fetchError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}
