package transcript

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoSegments is returned when a caption document parses but carries no text
var ErrNoSegments = errors.New("no transcript segments found")

// json3 is the timedtext "fmt=json3" document
type json3 struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseJSON3 converts a json3 caption document into segments
func ParseJSON3(data []byte) ([]Segment, error) {
	var doc json3
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding json3 captions: %w", err)
	}
	if doc.Events == nil {
		return nil, fmt.Errorf("no transcript events found")
	}

	segments := make([]Segment, 0, len(doc.Events))
	for _, event := range doc.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, seg := range event.Segs {
			b.WriteString(seg.UTF8)
		}
		text := CleanText(b.String())
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Offset:   event.TStartMs,
			Duration: event.DDurationMs,
		})
	}

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

// timedText is the legacy XML caption document (<transcript><text start dur>)
type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Body  string `xml:",chardata"`
	} `xml:"text"`
	// format 3 documents use <p t= d=> in milliseconds
	Paragraphs []struct {
		T    int64  `xml:"t,attr"`
		D    int64  `xml:"d,attr"`
		Body string `xml:",innerxml"`
	} `xml:"body>p"`
}

var xmlTagRegex = regexp.MustCompile(`<[^>]+>`)

// ParseTimedText converts a timedtext XML document (srv1 or srv3) into segments
func ParseTimedText(data []byte) ([]Segment, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding timedtext xml: %w", err)
	}

	segments := make([]Segment, 0, len(doc.Texts)+len(doc.Paragraphs))
	for _, t := range doc.Texts {
		text := CleanText(t.Body)
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Offset:   secondsToMillis(t.Start),
			Duration: secondsToMillis(t.Dur),
		})
	}
	for _, p := range doc.Paragraphs {
		text := CleanText(xmlTagRegex.ReplaceAllString(p.Body, ""))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Text: text, Offset: p.T, Duration: p.D})
	}

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

var srtTimestampRegex = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// ParseSRT reads SRT text back into segments
func ParseSRT(content string) ([]Segment, error) {
	var (
		segments []Segment
		current  *Segment
		text     []string
	)

	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = CleanText(strings.Join(text, " "))
			segments = append(segments, *current)
		}
		current = nil
		text = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if m := srtTimestampRegex.FindStringSubmatch(line); m != nil {
			flush()
			start := srtMillis(m[1:5])
			end := srtMillis(m[5:9])
			current = &Segment{Offset: start, Duration: end - start}
			continue
		}
		if current == nil {
			// sequence number line
			continue
		}
		text = append(text, line)
	}
	flush()

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

var (
	vttTimestampRegex = regexp.MustCompile(`((?:\d{2}:)?\d{2}:\d{2}\.\d{3})\s*-->\s*((?:\d{2}:)?\d{2}:\d{2}\.\d{3})`)
	vttTagRegex       = regexp.MustCompile(`<[^>]*>`)
)

// ParseVTT reads WebVTT captions. Consecutive cues repeating the previous line, as
// auto-generated tracks do, are collapsed.
func ParseVTT(content string) ([]Segment, error) {
	var (
		segments []Segment
		current  *Segment
		text     []string
	)

	flush := func() {
		if current != nil && len(text) > 0 {
			current.Text = CleanText(vttTagRegex.ReplaceAllString(strings.Join(text, " "), ""))
			if current.Text != "" && (len(segments) == 0 || segments[len(segments)-1].Text != current.Text) {
				segments = append(segments, *current)
			}
		}
		current = nil
		text = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") {
			continue
		}
		if m := vttTimestampRegex.FindStringSubmatch(line); m != nil {
			flush()
			start := vttMillis(m[1])
			end := vttMillis(m[2])
			current = &Segment{Offset: start, Duration: end - start}
			continue
		}
		if current != nil {
			text = append(text, line)
		}
	}
	flush()

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

// CleanText unescapes HTML entities and collapses newlines into spaces
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, `\n`, " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

func secondsToMillis(s string) int64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(f*1000 + 0.5)
}

func vttMillis(ts string) int64 {
	parts := strings.Split(ts, ":")
	if len(parts) == 2 {
		parts = append([]string{"00"}, parts...)
	}
	secParts := strings.SplitN(parts[2], ".", 2)
	if len(secParts) != 2 {
		return 0
	}
	return srtMillis([]string{parts[0], parts[1], secParts[0], secParts[1]})
}

func srtMillis(parts []string) int64 {
	h, _ := strconv.ParseInt(parts[0], 10, 64)
	m, _ := strconv.ParseInt(parts[1], 10, 64)
	s, _ := strconv.ParseInt(parts[2], 10, 64)
	ms, _ := strconv.ParseInt(parts[3], 10, 64)
	return h*3_600_000 + m*60_000 + s*1000 + ms
}
