package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ErrNotInstalled is returned when the yt-dlp binary cannot be found
var ErrNotInstalled = errors.New("yt-dlp is not installed or not on PATH")

// DefaultTimeout bounds a single yt-dlp invocation
const DefaultTimeout = 120 * time.Second

// Runner invokes the yt-dlp binary
type Runner struct {
	Path    string
	Timeout time.Duration
	Proxy   string
}

// New creates a runner; an empty path means "yt-dlp" on PATH
func New(path string, timeout time.Duration) *Runner {
	if strings.TrimSpace(path) == "" {
		path = "yt-dlp"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Path: path, Timeout: timeout}
}

// Available reports whether the binary can be executed
func (r *Runner) Available() bool {
	_, err := exec.LookPath(r.Path)
	return err == nil
}

// FlatPlaylistJSON lists a playlist or channel tab without resolving each entry.
// end > 0 stops after that many entries.
func (r *Runner) FlatPlaylistJSON(ctx context.Context, sourceURL string, end int) ([]byte, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("source URL is required")
	}

	args := []string{"--flat-playlist", "-J", "--no-warnings"}
	if end > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(end))
	}
	args = r.appendProxy(args)
	args = append(args, sourceURL)

	stdout, err := r.run(ctx, args)
	if err != nil {
		return nil, err
	}
	if len(stdout) == 0 {
		return nil, fmt.Errorf("yt-dlp returned empty output")
	}
	return stdout, nil
}

// SubtitleOptions configures a subtitle download
type SubtitleOptions struct {
	VideoURL  string
	OutputDir string
	Languages []string
	Format    string
}

// DownloadSubtitles writes manual and automatic subtitles for one video into
// OutputDir and returns the files written
func (r *Runner) DownloadSubtitles(ctx context.Context, opts SubtitleOptions) ([]string, error) {
	if strings.TrimSpace(opts.VideoURL) == "" {
		return nil, fmt.Errorf("video URL is required")
	}
	if strings.TrimSpace(opts.OutputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := opts.Format
	if format == "" {
		format = "json3"
	}

	args := []string{
		"--no-playlist",
		"--skip-download",
		"--no-warnings",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", subLangs(opts.Languages),
		"--sub-format", format,
		"-o", filepath.Join(opts.OutputDir, "%(id)s.%(ext)s"),
	}
	args = r.appendProxy(args)
	args = append(args, opts.VideoURL)

	if _, err := r.run(ctx, args); err != nil {
		return nil, err
	}

	files, err := filepath.Glob(filepath.Join(opts.OutputDir, "*."+format))
	if err != nil {
		return nil, fmt.Errorf("listing subtitle files: %w", err)
	}
	return files, nil
}

func (r *Runner) appendProxy(args []string) []string {
	if strings.TrimSpace(r.Proxy) != "" {
		args = append(args, "--proxy", strings.TrimSpace(r.Proxy))
	}
	return args
}

func (r *Runner) run(ctx context.Context, args []string) ([]byte, error) {
	if !r.Available() {
		return nil, ErrNotInstalled
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.Path, args...)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")
	// children that inherit the pipes must not hold Wait open after a kill
	cmd.WaitDelay = 5 * time.Second
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("yt-dlp timed out after %s", r.Timeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, lastLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// subLangs turns a preference list into a --sub-langs selector
func subLangs(langs []string) string {
	if len(langs) == 0 {
		return "en.*,en,-live_chat"
	}
	return strings.Join(langs, ",") + ",-live_chat"
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndex(s, "\n"); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
