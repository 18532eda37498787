package transcript

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Format is an export format
type Format string

const (
	FormatText Format = "txt"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json"
)

// ParseFormat validates an export format name; empty means txt
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "text":
		return FormatText, nil
	case FormatSRT:
		return FormatSRT, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// ContentType returns the MIME type served for a format
func (f Format) ContentType() string {
	switch f {
	case FormatSRT:
		return "application/x-subrip"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Envelope is the JSON export document
type Envelope struct {
	Title    string    `json:"title,omitempty"`
	VideoID  string    `json:"videoId,omitempty"`
	Segments []Segment `json:"segments"`
}

// Render produces the export body for one transcript
func Render(segments []Segment, format Format, title string) (string, error) {
	switch format {
	case FormatSRT:
		return SRT(segments), nil
	case FormatJSON:
		if segments == nil {
			segments = []Segment{}
		}
		data, err := json.MarshalIndent(Envelope{Title: title, Segments: segments}, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding json export: %w", err)
		}
		return string(data), nil
	default:
		return PlainText(segments), nil
	}
}

// Item is one video's transcript inside a channel export
type Item struct {
	VideoID  string
	Title    string
	Segments []Segment
}

// File is one named export file
type File struct {
	Name    string
	Content string
}

// Combine renders every item into one document. Text and SRT exports place each
// video under a "=== title ===" header; JSON exports are an array of envelopes.
func Combine(items []Item, format Format) (string, error) {
	if format == FormatJSON {
		envelopes := make([]Envelope, 0, len(items))
		for _, item := range items {
			segments := item.Segments
			if segments == nil {
				segments = []Segment{}
			}
			envelopes = append(envelopes, Envelope{Title: item.Title, VideoID: item.VideoID, Segments: segments})
		}
		data, err := json.MarshalIndent(envelopes, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding combined json export: %w", err)
		}
		return string(data), nil
	}

	sections := make([]string, 0, len(items))
	for _, item := range items {
		body, err := Render(item.Segments, format, item.Title)
		if err != nil {
			return "", err
		}
		sections = append(sections, fmt.Sprintf("=== %s ===\n\n%s", item.Title, body))
	}
	return strings.Join(sections, "\n\n"), nil
}

// Individual renders one file per item, numbered in list order
func Individual(items []Item, format Format) ([]File, error) {
	files := make([]File, 0, len(items))
	for i, item := range items {
		body, err := Render(item.Segments, format, item.Title)
		if err != nil {
			return nil, err
		}
		name := SanitizeFilename(item.Title)
		if name == "" {
			name = item.VideoID
		}
		files = append(files, File{
			Name:    fmt.Sprintf("%03d_%s.%s", i+1, name, format),
			Content: body,
		})
	}
	return files, nil
}

// WriteZip writes files into a zip archive on w
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("adding %s to archive: %w", f.Name, err)
		}
		if _, err := io.WriteString(fw, f.Content); err != nil {
			return fmt.Errorf("writing %s to archive: %w", f.Name, err)
		}
	}
	return zw.Close()
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are illegal in file names, turns whitespace
// runs into underscores and truncates to 100 runes
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(name), "")
	name = whitespaceRun.ReplaceAllString(name, "_")
	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:100])
	}
	return name
}

// ChannelFilename names a channel export, e.g. "Fireship_transcripts.zip"
func ChannelFilename(channelName, ext string) string {
	name := SanitizeFilename(channelName)
	if name == "" {
		name = "channel"
	}
	return fmt.Sprintf("%s_transcripts.%s", name, ext)
}
