package transcript

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleItems = []Item{
	{VideoID: "aaaaaaaaaaa", Title: "First: Intro", Segments: []Segment{{Text: "hi", Offset: 0, Duration: 500}}},
	{VideoID: "bbbbbbbbbbb", Title: "Second video", Segments: []Segment{{Text: "bye", Offset: 0, Duration: 800}}},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"txt", FormatText, false},
		{"TEXT", FormatText, false},
		{"srt", FormatSRT, false},
		{" json ", FormatJSON, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestRender(t *testing.T) {
	segments := []Segment{{Text: "Hello", Offset: 0, Duration: 1000}, {Text: "world", Offset: 1000, Duration: 1000}}

	txt, err := Render(segments, FormatText, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", txt)

	srt, err := Render(segments, FormatSRT, "")
	require.NoError(t, err)
	assert.Contains(t, srt, "00:00:01,000 --> 00:00:02,000")

	js, err := Render(segments, FormatJSON, "My video")
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(js), &env))
	assert.Equal(t, "My video", env.Title)
	assert.Equal(t, segments, env.Segments)

	empty, err := Render(nil, FormatJSON, "")
	require.NoError(t, err)
	assert.Contains(t, empty, `"segments": []`)
	assert.NotContains(t, empty, "title")
}

func TestCombine(t *testing.T) {
	t.Run("text sections", func(t *testing.T) {
		out, err := Combine(sampleItems, FormatText)
		require.NoError(t, err)
		assert.Equal(t, "=== First: Intro ===\n\nhi\n\n=== Second video ===\n\nbye", out)
	})

	t.Run("json array", func(t *testing.T) {
		out, err := Combine(sampleItems, FormatJSON)
		require.NoError(t, err)
		var envs []Envelope
		require.NoError(t, json.Unmarshal([]byte(out), &envs))
		require.Len(t, envs, 2)
		assert.Equal(t, "bbbbbbbbbbb", envs[1].VideoID)
	})
}

func TestIndividualAndZip(t *testing.T) {
	files, err := Individual(sampleItems, FormatSRT)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_First_Intro.srt", files[0].Name)
	assert.Equal(t, "002_Second_video.srt", files[1].Name)

	var buf bytes.Buffer
	require.NoError(t, WriteZip(&buf, files))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bye")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "ab_cd", SanitizeFilename(`a<b> c"d`))
	assert.Equal(t, "What_is_Go", SanitizeFilename("What is   Go?"))
	assert.Len(t, []rune(SanitizeFilename(strings.Repeat("x", 150))), 100)

	assert.Equal(t, "Fireship_transcripts.zip", ChannelFilename("Fireship", "zip"))
	assert.Equal(t, "channel_transcripts.txt", ChannelFilename("???", "txt"))
}
