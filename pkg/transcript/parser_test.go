package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON3(t *testing.T) {
	doc := `{
  "events": [
    {"tStartMs": 0, "dDurationMs": 1500},
    {"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "Hello"}, {"utf8": " there"}]},
    {"tStartMs": 1500, "dDurationMs": 1000, "segs": [{"utf8": "\n"}]},
    {"tStartMs": 2500, "dDurationMs": 2000, "segs": [{"utf8": "rock &amp; roll"}]}
  ]
}`

	segments, err := ParseJSON3([]byte(doc))
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, Segment{Text: "Hello there", Offset: 0, Duration: 1500}, segments[0])
	assert.Equal(t, Segment{Text: "rock & roll", Offset: 2500, Duration: 2000}, segments[1])
}

func TestParseJSON3_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"events": [`},
		{"no events", `{}`},
		{"only empty events", `{"events": [{"tStartMs": 0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON3([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestParseTimedText(t *testing.T) {
	t.Run("srv1", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.5" dur="1.25">It&amp;#39;s fine</text>
<text start="1.75" dur="2">second
line</text>
<text start="4" dur="1"></text>
</transcript>`
		segments, err := ParseTimedText([]byte(doc))
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, Segment{Text: "It's fine", Offset: 500, Duration: 1250}, segments[0])
		assert.Equal(t, Segment{Text: "second line", Offset: 1750, Duration: 2000}, segments[1])
	})

	t.Run("srv3", func(t *testing.T) {
		doc := `<timedtext format="3"><body>
<p t="100" d="900"><s>Hello</s><s> world</s></p>
<p t="1000" d="500">again</p>
</body></timedtext>`
		segments, err := ParseTimedText([]byte(doc))
		require.NoError(t, err)
		require.Len(t, segments, 2)
		assert.Equal(t, Segment{Text: "Hello world", Offset: 100, Duration: 900}, segments[0])
		assert.Equal(t, "again", segments[1].Text)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := ParseTimedText([]byte(`<transcript></transcript>`))
		assert.ErrorIs(t, err, ErrNoSegments)
	})
}

func TestParseSRT(t *testing.T) {
	content := "1\n00:00:00,000 --> 00:00:03,000\nWelcome to the show.\n\n2\n00:00:03,000 --> 00:01:06,500\nToday we talk\nabout Go.\n"

	segments, err := ParseSRT(content)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, Segment{Text: "Welcome to the show.", Offset: 0, Duration: 3000}, segments[0])
	assert.Equal(t, Segment{Text: "Today we talk about Go.", Offset: 3000, Duration: 63500}, segments[1])
}

func TestParseSRT_RoundTrip(t *testing.T) {
	original := []Segment{
		{Text: "Hello", Offset: 0, Duration: 1000},
		{Text: "world", Offset: 1000, Duration: 1000},
	}

	parsed, err := ParseSRT(SRT(original))
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestParseVTT(t *testing.T) {
	content := `WEBVTT
Kind: captions
Language: en

00:00:00.000 --> 00:00:02.000
<c>Welcome</c> back

00:00:02.000 --> 00:00:02.010
Welcome back

01:05.500 --> 01:07.000
short form timestamp
`
	segments, err := ParseVTT(content)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, Segment{Text: "Welcome back", Offset: 0, Duration: 2000}, segments[0])
	assert.Equal(t, Segment{Text: "short form timestamp", Offset: 65500, Duration: 1500}, segments[1])
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, `a "quoted" <tag>`, CleanText(`a &quot;quoted&quot; &lt;tag&gt;`))
	assert.Equal(t, "one two", CleanText("one\\ntwo"))
	assert.Equal(t, "one two", CleanText("  one \n  two  "))
}
