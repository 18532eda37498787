package transcript

import (
	"fmt"
	"strings"
)

// Segment is one timed caption unit. Offset and Duration are milliseconds.
type Segment struct {
	Text     string `json:"text"`
	Offset   int64  `json:"offset"`
	Duration int64  `json:"duration"`
}

// End returns the segment's end offset in milliseconds
func (s Segment) End() int64 {
	return s.Offset + s.Duration
}

// PlainText joins segment texts with single spaces, in order
func PlainText(segments []Segment) string {
	parts := make([]string, len(segments))
	for i, s := range segments {
		parts[i] = s.Text
	}
	return strings.Join(parts, " ")
}

// WordCount counts whitespace separated tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// FormatTimestamp renders milliseconds as HH:MM:SS,mmm
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// SRT renders numbered blocks "N\nstart --> end\ntext\n" joined by a blank line
func SRT(segments []Segment) string {
	blocks := make([]string, len(segments))
	for i, s := range segments {
		blocks[i] = fmt.Sprintf("%d\n%s --> %s\n%s\n", i+1, FormatTimestamp(s.Offset), FormatTimestamp(s.End()), s.Text)
	}
	return strings.Join(blocks, "\n")
}
