package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/killallgit/transcriptflow-api/pkg/transcript"
)

// SavedTranscript is a transcript kept in a user's library
type SavedTranscript struct {
	ID              string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string      `gorm:"not null;uniqueIndex:idx_saved_user_video" json:"userId"`
	VideoID         string      `gorm:"not null;type:varchar(16);uniqueIndex:idx_saved_user_video" json:"videoId"`
	Title           string      `json:"title"`
	ChannelName     string      `json:"channelName"`
	ThumbnailURL    string      `json:"thumbnailUrl"`
	DurationSeconds int         `json:"durationSeconds"`
	Transcript      string      `gorm:"type:text" json:"transcript"`
	Segments        SegmentList `gorm:"type:json" json:"segments"`
	WordCount       int         `json:"wordCount"`
	IsFavorite      bool        `gorm:"index;default:false" json:"isFavorite"`
	Tags            TagList     `gorm:"type:json" json:"tags"`
	Notes           string      `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time   `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for SavedTranscript
func (SavedTranscript) TableName() string {
	return "saved_transcripts"
}

func (s *SavedTranscript) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SegmentList stores timed segments as a JSON column
type SegmentList []transcript.Segment

// Value implements driver.Valuer interface for SegmentList
func (l SegmentList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]transcript.Segment{})
	}
	return json.Marshal([]transcript.Segment(l))
}

// Scan implements sql.Scanner interface for SegmentList
func (l *SegmentList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// TagList stores free-form tags as a JSON column
type TagList []string

// Value implements driver.Valuer interface for TagList
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(t))
}

// Scan implements sql.Scanner interface for TagList
func (t *TagList) Scan(value interface{}) error {
	return scanJSON(value, t)
}
