package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// JobStatus is the lifecycle state of a channel extraction job
type JobStatus string

const (
	JobStatusIdle           JobStatus = "idle"
	JobStatusFetchingVideos JobStatus = "fetching_videos"
	JobStatusProcessing     JobStatus = "processing"
	JobStatusCompleted      JobStatus = "completed"
	JobStatusCancelled      JobStatus = "cancelled"
	JobStatusError          JobStatus = "error"
)

// IsTerminal reports whether no further transitions are allowed
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled || s == JobStatusError
}

// Valid reports whether s is a known status
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusIdle, JobStatusFetchingVideos, JobStatusProcessing,
		JobStatusCompleted, JobStatusCancelled, JobStatusError:
		return true
	}
	return false
}

// CanTransitionTo enforces idle -> fetching_videos -> processing -> terminal.
// Pre-processing states may jump straight to cancelled or error, and an empty
// channel completes from fetching_videos. Terminal states never move.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if s == next {
		return !s.IsTerminal()
	}
	switch s {
	case "", JobStatusIdle:
		return next == JobStatusFetchingVideos || next == JobStatusCancelled || next == JobStatusError
	case JobStatusFetchingVideos:
		return next == JobStatusProcessing || next == JobStatusCompleted ||
			next == JobStatusCancelled || next == JobStatusError
	case JobStatusProcessing:
		return next.IsTerminal()
	}
	return false
}

// OutputFormat selects how a finished batch is exported
type OutputFormat string

const (
	OutputCombined   OutputFormat = "combined"
	OutputIndividual OutputFormat = "individual"
)

// ParseOutputFormat accepts "combined" or "individual"; empty means combined
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputCombined:
		return OutputCombined, nil
	case OutputIndividual:
		return OutputIndividual, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// ErrInvalidProgress is returned when a progress snapshot breaks its counters' bounds
var ErrInvalidProgress = errors.New("invalid progress")

// ChannelJob is one asynchronous channel batch extraction
type ChannelJob struct {
	ID          string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string       `gorm:"index;not null" json:"userId"`
	URL         string       `gorm:"not null" json:"url"`
	Limit       int          `gorm:"column:video_limit;not null" json:"limit"`
	Format      OutputFormat `gorm:"type:varchar(16);not null;default:'combined'" json:"format"`
	Status      JobStatus    `gorm:"type:varchar(32);index;not null" json:"status"`
	ChannelInfo *ChannelInfo `gorm:"serializer:json" json:"channelInfo"`
	Videos      VideoList    `gorm:"type:json" json:"videos"`
	Results     ResultList   `gorm:"type:json" json:"results"`
	Progress    Progress     `gorm:"type:json" json:"progress"`
	CreatedAt   time.Time    `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name for ChannelJob
func (ChannelJob) TableName() string {
	return "channel_jobs"
}

// BeforeSave keeps the indexed status column in step with progress
func (j *ChannelJob) BeforeSave(tx *gorm.DB) error {
	if j.Progress.Status == "" {
		j.Progress.Status = JobStatusIdle
	}
	j.Status = j.Progress.Status
	return nil
}

func (j *ChannelJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether the job has finished in any way
func (j *ChannelJob) IsTerminal() bool {
	return j.Progress.Status.IsTerminal()
}

// Progress is the counter snapshot polled by clients
type Progress struct {
	Status            JobStatus `json:"status"`
	CurrentVideoIndex int       `json:"currentVideoIndex"`
	TotalVideos       int       `json:"totalVideos"`
	CurrentVideoTitle string    `json:"currentVideoTitle,omitempty"`
	SuccessCount      int       `json:"successCount"`
	FailedCount       int       `json:"failedCount"`
	Error             string    `json:"error,omitempty"`
}

// Validate checks the counter invariants
func (p Progress) Validate() error {
	switch {
	case !p.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidProgress, p.Status)
	case p.CurrentVideoIndex < 0 || p.TotalVideos < 0 || p.SuccessCount < 0 || p.FailedCount < 0:
		return fmt.Errorf("%w: negative counter", ErrInvalidProgress)
	case p.CurrentVideoIndex > p.TotalVideos:
		return fmt.Errorf("%w: index %d exceeds total %d", ErrInvalidProgress, p.CurrentVideoIndex, p.TotalVideos)
	case p.SuccessCount+p.FailedCount > p.CurrentVideoIndex:
		return fmt.Errorf("%w: %d results counted for %d attempted", ErrInvalidProgress,
			p.SuccessCount+p.FailedCount, p.CurrentVideoIndex)
	}
	return nil
}

// Value implements driver.Valuer interface for Progress
func (p Progress) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for Progress
func (p *Progress) Scan(value interface{}) error {
	return scanJSON(value, p)
}

// ChannelInfo describes a resolved channel
type ChannelInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Handle          string `json:"handle,omitempty"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	VideoCount      int    `json:"videoCount"`
	SubscriberCount *int64 `json:"subscriberCount,omitempty"`
	Description     string `json:"description,omitempty"`
}

// VideoInfo is one entry of a channel's video list
type VideoInfo struct {
	VideoID         string     `json:"videoId"`
	Title           string     `json:"title"`
	ThumbnailURL    string     `json:"thumbnailUrl"`
	PublishedAt     *time.Time `json:"publishedAt,omitempty"`
	DurationSeconds *int       `json:"durationSeconds,omitempty"`
}

// VideoList is the ordered video list of a job, written once
type VideoList []VideoInfo

// Value implements driver.Valuer interface for VideoList
func (v VideoList) Value() (driver.Value, error) {
	if v == nil {
		return json.Marshal([]VideoInfo{})
	}
	return json.Marshal([]VideoInfo(v))
}

// Scan implements sql.Scanner interface for VideoList
func (v *VideoList) Scan(value interface{}) error {
	return scanJSON(value, v)
}

// ResultReason classifies a failed video
type ResultReason string

const (
	ReasonNoTranscript ResultReason = "no_transcript"
	ReasonError        ResultReason = "error"
)

// ResultError is the failure descriptor of a video result
type ResultError struct {
	Reason  ResultReason `json:"reason"`
	Message string       `json:"message"`
}

// TranscriptPayload is a successful per-video transcript
type TranscriptPayload struct {
	Segments   []transcript.Segment `json:"segments"`
	PlainText  string               `json:"plainText"`
	SRTContent string               `json:"srtContent"`
	WordCount  int                  `json:"wordCount"`
}

// VideoResult is exactly one of a transcript or an error for one attempted video
type VideoResult struct {
	Video      VideoInfo          `json:"video"`
	Transcript *TranscriptPayload `json:"transcript"`
	Error      *ResultError       `json:"error,omitempty"`
}

// Succeeded reports whether the video produced a transcript
func (r VideoResult) Succeeded() bool {
	return r.Transcript != nil && r.Error == nil
}

// ResultList is the ordered, append-only result sequence of a job
type ResultList []VideoResult

// Value implements driver.Valuer interface for ResultList
func (r ResultList) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]VideoResult{})
	}
	return json.Marshal([]VideoResult(r))
}

// Scan implements sql.Scanner interface for ResultList
func (r *ResultList) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// Validate checks every entry carries exactly one outcome
func (r ResultList) Validate() error {
	for i, res := range r {
		if (res.Transcript == nil) == (res.Error == nil) {
			return fmt.Errorf("result %d for video %q must carry a transcript or an error", i, res.Video.VideoID)
		}
	}
	return nil
}

// scanJSON decodes a JSON column that drivers hand back as []byte or string
func scanJSON(value interface{}, dest interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}
