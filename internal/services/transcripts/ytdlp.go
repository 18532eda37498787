package transcripts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
	"github.com/killallgit/transcriptflow-api/pkg/youtube"
	"github.com/killallgit/transcriptflow-api/pkg/ytdlp"
)

// SubtitleDownloader is the part of the yt-dlp runner the strategy uses
type SubtitleDownloader interface {
	Available() bool
	DownloadSubtitles(ctx context.Context, opts ytdlp.SubtitleOptions) ([]string, error)
}

// ytdlpStrategy shells out to yt-dlp and parses the json3 subtitle file
type ytdlpStrategy struct {
	runner SubtitleDownloader
	langs  []string
}

func newYtDlpStrategy(runner SubtitleDownloader, langs []string) *ytdlpStrategy {
	return &ytdlpStrategy{runner: runner, langs: langs}
}

func (s *ytdlpStrategy) Name() string { return "ytdlp" }

func (s *ytdlpStrategy) Fetch(ctx context.Context, videoID string) ([]transcript.Segment, error) {
	dir, err := os.MkdirTemp("", "transcriptflow-subs-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	files, err := s.runner.DownloadSubtitles(ctx, ytdlp.SubtitleOptions{
		VideoURL:  youtube.VideoURL(videoID),
		OutputDir: dir,
		Languages: s.langs,
		Format:    "json3",
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: yt-dlp wrote no subtitles", ErrNoTranscript)
	}

	path := preferredSubtitle(files, s.langs)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading subtitles: %w", err)
	}
	segments, err := transcript.ParseJSON3(data)
	if err != nil {
		if errors.Is(err, transcript.ErrNoSegments) {
			return nil, fmt.Errorf("%w: empty subtitle file", ErrNoTranscript)
		}
		return nil, err
	}
	return segments, nil
}

// preferredSubtitle picks the file whose language suffix ranks first in langs.
// Files are named <id>.<lang>.json3.
func preferredSubtitle(files []string, langs []string) string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	for _, lang := range langs {
		for _, f := range sorted {
			if strings.HasSuffix(f, "."+lang+".json3") {
				return f
			}
		}
	}
	return sorted[0]
}
