package transcripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/transcriptflow-api/pkg/download"
	"github.com/killallgit/transcriptflow-api/pkg/ytdlp"
)

func TestPickTrack(t *testing.T) {
	langs := []string{"en", "en-US"}
	tests := []struct {
		name   string
		tracks []captionTrack
		want   string
		err    bool
	}{
		{
			name: "manual preferred over auto",
			tracks: []captionTrack{
				{BaseURL: "u/asr", LanguageCode: "en", Kind: "asr"},
				{BaseURL: "u/manual", LanguageCode: "en"},
			},
			want: "u/manual",
		},
		{
			name: "auto preferred language over other manual",
			tracks: []captionTrack{
				{BaseURL: "u/de", LanguageCode: "de"},
				{BaseURL: "u/asr", LanguageCode: "en-US", Kind: "asr"},
			},
			want: "u/asr",
		},
		{
			name: "any english variant",
			tracks: []captionTrack{
				{BaseURL: "u/fr", LanguageCode: "fr"},
				{BaseURL: "u/au", LanguageCode: "en-AU"},
			},
			want: "u/au",
		},
		{
			name:   "first usable otherwise",
			tracks: []captionTrack{{BaseURL: "u/fr", LanguageCode: "fr"}, {BaseURL: "u/de", LanguageCode: "de"}},
			want:   "u/fr",
		},
		{
			name: "skips potoken tracks",
			tracks: []captionTrack{
				{BaseURL: "u/en?x=1&exp=xpe", LanguageCode: "en"},
				{BaseURL: "u/fr", LanguageCode: "fr"},
			},
			want: "u/fr",
		},
		{
			name:   "only potoken tracks",
			tracks: []captionTrack{{BaseURL: "u/en?x=1&exp=xpe", LanguageCode: "en"}},
			err:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickTrack(tt.tracks, langs)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.BaseURL)
		})
	}
}

func TestExtractJSON(t *testing.T) {
	input := []byte(`{"a":"brace } and \"quote\" and \\","b":{"c":1}};var x = 2;`)
	assert.Equal(t, `{"a":"brace } and \"quote\" and \\","b":{"c":1}}`, string(extractJSON(input)))
	assert.Nil(t, extractJSON([]byte(`{"unterminated":`)))
	assert.Nil(t, extractJSON([]byte(`[1,2]`)))
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "http://x/t?fmt=json3&v=1", withQuery("http://x/t?v=1&fmt=srv3", "fmt", "json3"))
	assert.Equal(t, "http://x/t?fmt=json3", withQuery("http://x/t", "fmt", "json3"))
	assert.Equal(t, "http://x/t?fmt=json3&sparams=ip%2Cipbits&v=a+b",
		withQuery("http://x/t?v=a+b&sparams=ip%2Cipbits&fmt=srv3&fmt=vtt", "fmt", "json3"))
	assert.Equal(t, "http://x/%zz", withQuery("http://x/%zz", "fmt", "json3"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{ErrRateLimited, KindRateLimited},
		{fmt.Errorf("wrapped: %w", ErrNoTranscript), KindNoTranscript},
		{&download.StatusError{StatusCode: 429, URL: "u"}, KindRateLimited},
		{errors.New("Too Many Requests"), KindRateLimited},
		{errors.New("Transcripts are DISABLED for this video"), KindNoTranscript},
		{errors.New("no captions in player response"), KindNoTranscript},
		{errors.New("This video is private"), KindVideoUnavailable},
		{errors.New("content not available in your country"), KindVideoUnavailable},
		{errors.New("connection reset"), KindUnknown},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(KindNoTranscript), "captions")
	assert.Contains(t, UserMessage(KindRateLimited), "try again")
	assert.Contains(t, UserMessage(KindVideoUnavailable), "private")
	assert.Contains(t, UserMessage(KindUnknown), "Failed")
}

func TestClassifyAccumulated(t *testing.T) {
	err := classify([]error{errors.New("watch_page: no captions"), errors.New("innertube: HTTP 429")})
	assert.ErrorIs(t, err, ErrRateLimited)

	err = classify([]error{fmt.Errorf("x: %w", context.Canceled)})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrNoTranscript)

	err = classify([]error{errors.New("boom")})
	assert.Equal(t, KindUnknown, Classify(err))
}

type fakeSubtitles struct {
	available bool
	files     map[string]string
	err       error
	got       ytdlp.SubtitleOptions
}

func (f *fakeSubtitles) Available() bool { return f.available }

func (f *fakeSubtitles) DownloadSubtitles(_ context.Context, opts ytdlp.SubtitleOptions) ([]string, error) {
	f.got = opts
	if f.err != nil {
		return nil, f.err
	}
	var paths []string
	for name, body := range f.files {
		p := filepath.Join(opts.OutputDir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func TestYtDlpStrategy(t *testing.T) {
	fake := &fakeSubtitles{available: true, files: map[string]string{
		testVideoID + ".de.json3": `{"events":[{"tStartMs":0,"dDurationMs":5,"segs":[{"utf8":"hallo"}]}]}`,
		testVideoID + ".en.json3": json3Body,
	}}
	s := newYtDlpStrategy(fake, []string{"en"})

	segments, err := s.Fetch(context.Background(), testVideoID)
	require.NoError(t, err)
	assert.Equal(t, "never gonna", segments[0].Text)
	assert.Equal(t, "json3", fake.got.Format)
	assert.Contains(t, fake.got.VideoURL, testVideoID)

	_, statErr := os.Stat(fake.got.OutputDir)
	assert.True(t, os.IsNotExist(statErr), "temp dir is removed")
}

func TestYtDlpStrategyNoFiles(t *testing.T) {
	s := newYtDlpStrategy(&fakeSubtitles{available: true}, nil)
	_, err := s.Fetch(context.Background(), testVideoID)
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestYtDlpStrategyRegisteredOnlyWhenAvailable(t *testing.T) {
	svc := NewService(nil, Config{}, WithYtDlp(&fakeSubtitles{available: false})).(*service)
	assert.Len(t, svc.strategies, 2)

	svc = NewService(nil, Config{}, WithYtDlp(&fakeSubtitles{available: true})).(*service)
	require.Len(t, svc.strategies, 3)
	assert.Equal(t, "ytdlp", svc.strategies[2].Name())
}
