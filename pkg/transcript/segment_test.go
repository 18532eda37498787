package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainTextAndSRT(t *testing.T) {
	segments := []Segment{
		{Text: "Hello", Offset: 0, Duration: 1000},
		{Text: "world", Offset: 1000, Duration: 1000},
	}

	assert.Equal(t, "Hello world", PlainText(segments))

	srt := SRT(segments)
	assert.Equal(t, "1\n00:00:00,000 --> 00:00:01,000\nHello\n\n2\n00:00:01,000 --> 00:00:02,000\nworld\n", srt)
	assert.Equal(t, 2, strings.Count(srt, "-->"))
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[int64]string{
		0:          "00:00:00,000",
		999:        "00:00:00,999",
		61_001:     "00:01:01,001",
		3_723_456:  "01:02:03,456",
		36_000_000: "10:00:00,000",
		-5:         "00:00:00,000",
	}
	for ms, want := range tests {
		assert.Equal(t, want, FormatTimestamp(ms), "ms=%d", ms)
	}
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 0, WordCount("   \n\t"))
	assert.Equal(t, 3, WordCount("  one two\nthree "))
}

func TestEmptySegments(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "", SRT(nil))
}
